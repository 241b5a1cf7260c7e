package docquery

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type providerConfig struct {
	apiKey  string
	baseURL string
}

type clientConfig struct {
	dsn      string
	maxConns int32

	openai       providerConfig
	anthropic    providerConfig
	defaultModel string
	maxTokens    int
	httpClient   *http.Client

	defaultPageSize int
	maxPageSize     int
	tokenBudget     int
	maxBatchSize    int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres sets the connection string of the documents database.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithMaxConns caps the database pool size.
func WithMaxConns(n int32) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConns = n
	})
}

// WithOpenAI enables OpenAI models. An optional base URL points the client
// at a compatible endpoint.
func WithOpenAI(apiKey string, baseURL ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openai = providerConfig{apiKey: apiKey}
		if len(baseURL) > 0 {
			c.openai.baseURL = baseURL[0]
		}
	})
}

// WithAnthropic enables Anthropic models.
func WithAnthropic(apiKey string, baseURL ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.anthropic = providerConfig{apiKey: apiKey}
		if len(baseURL) > 0 {
			c.anthropic.baseURL = baseURL[0]
		}
	})
}

// WithDefaultModel sets the model used when a request names none.
func WithDefaultModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultModel = model
	})
}

// WithMaxTokens sets the default response token limit.
func WithMaxTokens(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTokens = n
	})
}

// WithHTTPClient sets the HTTP client used for LLM providers.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithPageSize sets the default and maximum search page size.
// Defaults: 10 and 100.
func WithPageSize(def, max int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = def
		c.maxPageSize = max
	})
}

// WithTokenBudget caps the number of words extracted from a PDF.
// Default: 1000.
func WithTokenBudget(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.tokenBudget = n
	})
}

// WithMaxBatchSize sets the maximum number of documents per batch summary.
// Default: 20.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
