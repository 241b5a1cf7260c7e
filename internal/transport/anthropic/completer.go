package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/domain/llm"
	"github.com/kailas-cloud/docquery/internal/metrics"
)

const (
	provider     = string(llm.Anthropic)
	maxErrorBody = 512
)

// Config holds the message completion provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Completer is a message-completion provider using the Anthropic Messages API.
type Completer struct {
	client anthropic.Client
	apiKey string
	logger *zap.Logger
}

// NewCompleter creates an Anthropic provider. SDK retries are disabled.
func NewCompleter(cfg *Config) *Completer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Completer{
		client: anthropic.NewClient(opts...),
		apiKey: cfg.APIKey,
		logger: log,
	}
}

// Complete implements llm.Completer: one user message carrying the system
// instruction and the user text, temperature 0, first text block.
func (c *Completer) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	text := p.User
	if p.System != "" {
		text = p.System + "\n\n" + p.User
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.WireModel),
		MaxTokens:   int64(p.MaxTokens),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}

	start := time.Now()

	msg, err := c.client.Messages.New(ctx, params)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, p.WireModel, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, p.WireModel, "api_error").Inc()
		cerr := c.parseAPIError(err)
		c.logger.Warn("Anthropic completion failed",
			zap.String("model", p.WireModel),
			zap.Duration("duration", duration),
			zap.Error(cerr),
		)
		return "", cerr
	}

	out := firstText(msg)
	if out == "" {
		metrics.LLMRequestsTotal.WithLabelValues(provider, p.WireModel, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, p.WireModel, "empty_response").Inc()
		c.logger.Warn("Anthropic returned no text block", zap.String("model", p.WireModel))
		return "", &domain.CompletionError{Provider: provider, Status: http.StatusOK, Body: "empty completion"}
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, p.WireModel, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(provider, p.WireModel).Observe(duration.Seconds())
	metrics.LLMTokensTotal.WithLabelValues(provider, p.WireModel, "prompt").Add(float64(msg.Usage.InputTokens))
	metrics.LLMTokensTotal.WithLabelValues(provider, p.WireModel, "completion").Add(float64(msg.Usage.OutputTokens))

	return out, nil
}

func firstText(msg *anthropic.Message) string {
	if msg == nil {
		return ""
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text)
		}
	}
	return ""
}

// parseAPIError maps SDK errors to a CompletionError with a truncated, key-free body.
func (c *Completer) parseAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		body := apiErr.RawJSON()
		if body == "" {
			body = http.StatusText(apiErr.StatusCode)
		}
		return &domain.CompletionError{Provider: provider, Status: apiErr.StatusCode, Body: c.sanitize(body)}
	}
	return &domain.CompletionError{Provider: provider, Body: c.sanitize(err.Error())}
}

func (c *Completer) sanitize(s string) string {
	if c.apiKey != "" {
		s = strings.ReplaceAll(s, c.apiKey, "[redacted]")
	}
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
