package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/domain"
	domdoc "github.com/kailas-cloud/docquery/internal/domain/document"
	"github.com/kailas-cloud/docquery/internal/domain/search/facet"
	"github.com/kailas-cloud/docquery/internal/domain/search/filter"
	"github.com/kailas-cloud/docquery/internal/domain/search/result"
	"github.com/kailas-cloud/docquery/internal/logger"
	"github.com/kailas-cloud/docquery/internal/metrics"
)

// Service answers catalog searches, lookups and facet counts.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns one page of matching documents, most recent first.
func (s *Service) Search(ctx context.Context, f filter.Filter) (result.Result, error) {
	defer observe("search", time.Now())

	res, err := s.repo.Search(ctx, f)
	if err != nil {
		return result.Result{}, infrastructure(ctx, "search", err)
	}
	return res, nil
}

// GetByID returns one document or domain.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (domdoc.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domdoc.Document{}, domain.NewInvalidInput("id", "", "must not be empty")
	}
	defer observe("get", time.Now())

	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domdoc.Document{}, err
		}
		return domdoc.Document{}, infrastructure(ctx, "get", err)
	}
	return doc, nil
}

// Facets counts distinct values per category, optionally restricted by a term.
func (s *Service) Facets(ctx context.Context, query string) (facet.Set, error) {
	defer observe("facets", time.Now())

	set, err := s.repo.Facets(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, infrastructure(ctx, "facets", err)
	}
	return set, nil
}

func observe(op string, start time.Time) {
	metrics.SearchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// infrastructure logs a store failure and wraps it with domain.ErrInfrastructure.
func infrastructure(ctx context.Context, op string, err error) error {
	logger.FromContext(ctx).Error("Catalog query failed", zap.String("operation", op), zap.Error(err))
	return fmt.Errorf("%s: %w: %w", op, domain.ErrInfrastructure, err)
}

