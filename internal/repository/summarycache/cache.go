package summarycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docquery/internal/db"
	"github.com/kailas-cloud/docquery/internal/domain"
	"github.com/kailas-cloud/docquery/internal/domain/llm"
	"github.com/kailas-cloud/docquery/internal/domain/summary"
)

var cacheKeyPrefix = domain.KeyPrefix + "summary:"

// store is the consumer interface for the summary cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key identifies one cached summary.
type Key struct {
	DocumentID string
	Model      llm.Model
	MaxTokens  int
}

type entry struct {
	Text   string         `json:"text"`
	Model  llm.Model      `json:"model"`
	Source summary.Source `json:"source"`
}

// Cache stores generated summaries in a key-value store.
// Cache failures are logged and never fail the caller.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a summary cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns the cached summary for k. ElapsedMs of a hit is zero.
func (c *Cache) Get(ctx context.Context, k Key) (summary.Result, bool) {
	key := cacheKey(k)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached summary", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return summary.Result{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Text == "" {
		c.logger.Warn("Failed to parse cached summary", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return summary.Result{}, false
	}

	c.inc("hit")
	return summary.Result{
		DocumentID: k.DocumentID,
		Text:       e.Text,
		Model:      e.Model,
		Source:     e.Source,
	}, true
}

// Put stores r under k.
func (c *Cache) Put(ctx context.Context, k Key, r summary.Result) {
	key := cacheKey(k)
	data, err := json.Marshal(entry{Text: r.Text, Model: r.Model, Source: r.Source})
	if err != nil {
		c.logger.Warn("Failed to encode summary", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache summary", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(k Key) string {
	return fmt.Sprintf("%s%s:%s:%s", cacheKeyPrefix, k.Model, strconv.Itoa(k.MaxTokens), k.DocumentID)
}
