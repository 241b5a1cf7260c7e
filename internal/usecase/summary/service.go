package summary

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/domain"
	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/llm"
	domsum "github.com/kailas-cloud/docquery/internal/domain/summary"
	"github.com/kailas-cloud/docquery/internal/logger"
	"github.com/kailas-cloud/docquery/internal/metrics"
	"github.com/kailas-cloud/docquery/internal/repository/summarycache"
)

// Pipeline defaults.
const (
	DefaultContentTimeout   = 45 * time.Second
	DefaultBatchConcurrency = 4
	DefaultMaxBatchSize     = 20
)

// Config tunes the summarization pipeline.
type Config struct {
	// TokenBudget caps extracted words; 0 uses the extractor default.
	TokenBudget int
	// ContentTimeout bounds the fetch and extract stage of one document.
	ContentTimeout   time.Duration
	BatchConcurrency int
	MaxBatchSize     int
}

func (c *Config) applyDefaults() {
	if c.ContentTimeout <= 0 {
		c.ContentTimeout = DefaultContentTimeout
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = DefaultBatchConcurrency
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
}

// Service runs resolve, fetch, extract and complete for one document at a time.
// A failed PDF stage degrades to the abstract.
type Service struct {
	docs      DocumentReader
	fetcher   Fetcher
	extractor Extractor
	llm       Completer
	cache     Cache
	cfg       Config
}

// New creates a summarization service. fetcher and extractor may be nil,
// in which case only abstracts are summarized.
func New(docs DocumentReader, fetcher Fetcher, extractor Extractor, completer Completer, cfg Config) *Service {
	cfg.applyDefaults()
	return &Service{
		docs:      docs,
		fetcher:   fetcher,
		extractor: extractor,
		llm:       completer,
		cfg:       cfg,
	}
}

// WithCache attaches a summary cache.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// Summarize summarizes exactly one document. Use SummarizeBatch for several.
func (s *Service) Summarize(ctx context.Context, req domsum.Request) (domsum.Result, error) {
	switch {
	case len(req.IDs) == 0:
		return domsum.Result{}, domain.NewInvalidInput("ids", "", "must contain a document id")
	case len(req.IDs) > 1:
		return domsum.Result{}, domain.NewInvalidInput("ids", strconv.Itoa(len(req.IDs)),
			"exactly one id per summary; use the batch operation for several")
	}

	spec, err := s.llm.Resolve(req.Model)
	if err != nil {
		return domsum.Result{}, err
	}
	return s.summarizeOne(ctx, req.IDs[0], spec, req.Options)
}

func (s *Service) summarizeOne(
	ctx context.Context, id string, spec llm.Spec, opts llm.Options,
) (domsum.Result, error) {
	start := time.Now()
	id = strings.TrimSpace(id)
	if id == "" {
		return domsum.Result{}, domain.NewInvalidInput("ids", "", "must not contain empty ids")
	}

	ctx = logger.With(ctx, zap.String("document_id", id), zap.String("model", string(spec.ID)))

	key := summarycache.Key{DocumentID: id, Model: spec.ID, MaxTokens: opts.MaxTokens}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			cached.ElapsedMs = time.Since(start).Milliseconds()
			return cached, nil
		}
	}

	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return domsum.Result{}, fmt.Errorf("resolve document: %w", err)
	}

	doc, source, err := s.withContent(ctx, doc, spec.ID)
	if err != nil {
		metrics.SummariesTotal.WithLabelValues("none", "error").Inc()
		return domsum.Result{}, err
	}

	text, err := s.llm.Complete(ctx, spec, SystemInstruction, userMessage(documentText(&doc)), opts)
	if err != nil {
		metrics.SummariesTotal.WithLabelValues(string(source), "error").Inc()
		return domsum.Result{}, err
	}
	metrics.SummariesTotal.WithLabelValues(string(source), "success").Inc()

	res := domsum.Result{
		DocumentID: id,
		Text:       text,
		ElapsedMs:  time.Since(start).Milliseconds(),
		Model:      spec.ID,
		Source:     source,
	}
	if s.cache != nil {
		s.cache.Put(ctx, key, res)
	}
	return res, nil
}

// withContent attaches PDF text when the document has a URL, falling back to the abstract.
func (s *Service) withContent(
	ctx context.Context, doc domdoc.Document, model llm.Model,
) (domdoc.Document, domsum.Source, error) {
	if doc.URL() != "" && s.fetcher != nil && s.extractor != nil {
		content, err := s.pdfContent(ctx, doc.URL())
		if err == nil && content != "" {
			return doc.WithContent(content, string(model)), domsum.SourcePDF, nil
		}
		logger.FromContext(ctx).Warn("PDF stage failed, falling back to abstract",
			zap.String("url", doc.URL()),
			zap.Error(err),
		)
	}

	if doc.HasAbstract() {
		return doc.WithContent(doc.Abstract(), string(model)), domsum.SourceAbstract, nil
	}
	return doc, "", fmt.Errorf("document %s: %w", doc.ID(), domain.ErrNoContentAvailable)
}

// pdfContent fetches and extracts under the per-stage timeout. The file is
// released on every path.
func (s *Service) pdfContent(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ContentTimeout)
	defer cancel()

	f, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.FromContext(ctx).Warn("Failed to release PDF", zap.Error(cerr))
		}
	}()

	res, err := s.extractor.ExtractFrom(ctx, f, f.Size(), s.cfg.TokenBudget)
	if err != nil {
		return "", fmt.Errorf("extract pdf: %w", err)
	}
	if res.Text == "" {
		return "", errors.New("pdf has no extractable text")
	}
	return res.Text, nil
}
