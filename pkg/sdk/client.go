package docquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/db/postgres"
	dombatch "github.com/kailas-cloud/docquery/internal/domain/batch"
	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	domllm "github.com/kailas-cloud/docquery/internal/domain/llm"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/domain/search/result"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
	"github.com/kailas-cloud/docquery/internal/logger"
	"github.com/kailas-cloud/docquery/internal/pdftext"
	documentrepo "github.com/kailas-cloud/docquery/internal/repository/document"
	anthropicLLM "github.com/kailas-cloud/docquery/internal/transport/anthropic"
	openaiLLM "github.com/kailas-cloud/docquery/internal/transport/openai"
	pdfTransport "github.com/kailas-cloud/docquery/internal/transport/pdf"
	healthuc "github.com/kailas-cloud/docquery/internal/usecase/health"
	llmuc "github.com/kailas-cloud/docquery/internal/usecase/llm"
	searchuc "github.com/kailas-cloud/docquery/internal/usecase/search"
	summaryuc "github.com/kailas-cloud/docquery/internal/usecase/summary"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultLLMTimeout       = 60 * time.Second
)

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, f filter.Filter) (result.Result, error)
	GetByID(ctx context.Context, id string) (domdoc.Document, error)
	Facets(ctx context.Context, query string) (facet.Set, error)
}

type summaryUseCase interface {
	Summarize(ctx context.Context, req domsum.Request) (domsum.Result, error)
	SummarizeBatch(ctx context.Context, req domsum.Request) ([]dombatch.Result[domsum.Result], error)
}

type modelLister interface {
	Models() []llmuc.ModelInfo
}

// store is the database handle the client owns.
type store interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Client is the docquery SDK entry point.
type Client struct {
	store      store
	searchSvc  searchUseCase
	summarySvc summaryUseCase
	models     modelLister
	healthSvc  healthUseCase
	bounds     filter.Bounds
	logger     *zap.Logger
	obs        *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("docquery: database DSN required (use WithPostgres)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, postgres.Config{DSN: cfg.dsn, MaxConns: cfg.maxConns})
	if err != nil {
		return nil, fmt.Errorf("docquery: create pool: %w", err)
	}

	if err := pool.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("docquery: database not ready: %w", err)
	}

	c, err := wireClient(pool, cfg, obs)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(s store, cfg *clientConfig, obs *observer) (*Client, error) {
	llmSvc, err := buildLLM(cfg)
	if err != nil {
		return nil, fmt.Errorf("docquery: %w", err)
	}

	searchSvc := searchuc.New(documentrepo.New(s))
	fetcher := pdfTransport.NewFetcher(pdfTransport.Config{Logger: cfg.logger})
	summarySvc := summaryuc.New(searchSvc, fetcher, pdftext.New(cfg.tokenBudget), llmSvc, summaryuc.Config{
		TokenBudget:  cfg.tokenBudget,
		MaxBatchSize: cfg.maxBatchSize,
	})

	return &Client{
		store:      s,
		searchSvc:  searchSvc,
		summarySvc: summarySvc,
		models:     llmSvc,
		healthSvc:  healthuc.New(s, nil),
		bounds:     filter.Bounds{DefaultPageSize: cfg.defaultPageSize, MaxPageSize: cfg.maxPageSize},
		logger:     cfg.logger,
		obs:        obs,
	}, nil
}

// buildLLM registers a completer for every provider given an API key.
func buildLLM(cfg *clientConfig) (*llmuc.Service, error) {
	table, err := domllm.NewTable(cfg.defaultModel, nil)
	if err != nil {
		return nil, fmt.Errorf("model table: %w", err)
	}
	svc := llmuc.New(table, cfg.maxTokens)

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultLLMTimeout}
	}
	if cfg.openai.apiKey != "" {
		svc.WithProvider(domllm.OpenAI, openaiLLM.NewCompleter(&openaiLLM.Config{
			APIKey:     cfg.openai.apiKey,
			BaseURL:    cfg.openai.baseURL,
			HTTPClient: hc,
			Logger:     cfg.logger,
		}))
	}
	if cfg.anthropic.apiKey != "" {
		svc.WithProvider(domllm.Anthropic, anthropicLLM.NewCompleter(&anthropicLLM.Config{
			APIKey:     cfg.anthropic.apiKey,
			BaseURL:    cfg.anthropic.baseURL,
			HTTPClient: hc,
			Logger:     cfg.logger,
		}))
	}
	return svc, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// withLogger attaches the client logger so internal services log through it.
func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.logger == nil {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.logger)
}
