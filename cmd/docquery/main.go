package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/config"
	"github.com/kailas-cloud/docquery/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/docquery/internal/db/redis"
	domllm "github.com/kailas-cloud/docquery/internal/domain/llm"
	logpkg "github.com/kailas-cloud/docquery/internal/logger"
	"github.com/kailas-cloud/docquery/internal/metrics"
	"github.com/kailas-cloud/docquery/internal/pdftext"
	documentrepo "github.com/kailas-cloud/docquery/internal/repository/document"
	"github.com/kailas-cloud/docquery/internal/repository/summarycache"
	anthropicLLM "github.com/kailas-cloud/docquery/internal/transport/anthropic"
	chiTransport "github.com/kailas-cloud/docquery/internal/transport/chi"
	openaiLLM "github.com/kailas-cloud/docquery/internal/transport/openai"
	pdfTransport "github.com/kailas-cloud/docquery/internal/transport/pdf"
	healthuc "github.com/kailas-cloud/docquery/internal/usecase/health"
	llmuc "github.com/kailas-cloud/docquery/internal/usecase/llm"
	searchuc "github.com/kailas-cloud/docquery/internal/usecase/search"
	summaryuc "github.com/kailas-cloud/docquery/internal/usecase/summary"
	"github.com/kailas-cloud/docquery/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(logpkg.Options{Env: env, Level: cfg.Logging.Level, Version: version.Version})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docquery API server",
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Optional summary cache
	var cache *summarycache.Cache
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		cache = summarycache.New(store, cfg.Cache.TTL(), metrics.SummaryCacheTotal, logger)
		cachePinger = store
		logger.Info("Connected to summary cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	llmSvc, err := buildLLM(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to configure LLM providers", zap.Error(err))
	}

	fetcher := pdfTransport.NewFetcher(pdfTransport.Config{
		UserAgent: cfg.PDF.UserAgent,
		MaxBytes:  cfg.PDF.MaxBytes,
		TempDir:   cfg.PDF.TempDir,
		Timeout:   cfg.PDF.FetchTimeout(),
		Logger:    logger,
	})
	extractor := pdftext.New(cfg.PDF.TokenBudget)

	// Use case services
	docRepo := documentrepo.New(pool)
	searchSvc := searchuc.New(docRepo)
	summarySvc := summaryuc.New(searchSvc, fetcher, extractor, llmSvc, summaryuc.Config{
		TokenBudget:      cfg.PDF.TokenBudget,
		ContentTimeout:   cfg.PDF.ContentTimeout(),
		BatchConcurrency: cfg.Summary.BatchConcurrency,
		MaxBatchSize:     cfg.Summary.MaxBatchSize,
	})
	if cache != nil {
		summarySvc.WithCache(cache)
	}
	healthSvc := healthuc.New(pool, cachePinger)

	server := chiTransport.NewServer(searchSvc, summarySvc, llmSvc, healthSvc, logger).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize, cfg.Search.DefaultMaxResult)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildLLM assembles the model table and registers a completer for every
// provider that has an API key.
func buildLLM(cfg config.LLMConfig, logger *zap.Logger) (*llmuc.Service, error) {
	table, err := domllm.NewTable(cfg.DefaultModel, cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("model table: %w", err)
	}
	svc := llmuc.New(table, cfg.MaxTokens)
	client := &http.Client{Timeout: cfg.Timeout()}

	if cfg.OpenAI.APIKey != "" {
		svc.WithProvider(domllm.OpenAI, openaiLLM.NewCompleter(&openaiLLM.Config{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			HTTPClient: client,
			Logger:     logger,
		}))
	}
	if cfg.Anthropic.APIKey != "" {
		svc.WithProvider(domllm.Anthropic, anthropicLLM.NewCompleter(&anthropicLLM.Config{
			APIKey:     cfg.Anthropic.APIKey,
			BaseURL:    cfg.Anthropic.BaseURL,
			HTTPClient: client,
			Logger:     logger,
		}))
	}

	for _, m := range svc.Models() {
		logger.Info("LLM model",
			zap.String("model", string(m.ID)),
			zap.String("provider", string(m.Provider)),
			zap.String("wire_model", m.WireName),
			zap.Bool("available", m.Available),
			zap.Bool("default", m.Default),
		)
	}
	return svc, nil
}
