// Package cache caches business lookups in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/market-hunter/internal/domain"
	"github.com/DjordjeVuckovic/market-hunter/internal/filter"
	"github.com/DjordjeVuckovic/market-hunter/internal/metrics"
	"github.com/DjordjeVuckovic/market-hunter/internal/storage"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "business:"

// BusinessStore is a read-through cache in front of a storage.BusinessStore.
// Keys are derived from the canonical rendering of the predicate. Cache
// failures are logged and fall through to the wrapped store.
type BusinessStore struct {
	next    storage.BusinessStore
	kv      KV
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewBusinessStore(next storage.BusinessStore, kv KV, ttl time.Duration, m *metrics.Metrics) *BusinessStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BusinessStore{
		next:    next,
		kv:      kv,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "business-cache"),
	}
}

func (c *BusinessStore) Find(ctx context.Context, p filter.Predicate[domain.Business]) ([]domain.Business, error) {
	key := Key(p)
	if bs, ok := c.get(ctx, key); ok {
		c.metrics.CacheHit()
		return bs, nil
	}
	c.metrics.CacheMiss()

	// the shared load outlives any single caller; each caller still honours
	// its own ctx while waiting
	flight := c.group.DoChan(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if bs, ok := c.get(ctx, key); ok {
			return bs, nil
		}
		bs, err := c.next.Find(ctx, p)
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, bs)
		return bs, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-flight:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	shared := res.Val.([]domain.Business)
	out := make([]domain.Business, len(shared))
	copy(out, shared)
	return out, nil
}

// Invalidate drops every cached lookup.
func (c *BusinessStore) Invalidate(ctx context.Context) error {
	deleted, err := c.kv.DeleteByPrefix(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("invalidating business cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}

// Key returns the cache key for p.
func Key[T filter.Record](p filter.Predicate[T]) string {
	sum := sha256.Sum256([]byte(p.String()))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (c *BusinessStore) get(ctx context.Context, key string) ([]domain.Business, bool) {
	data, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.logger.Error("cache get failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var bs []domain.Business
	if err := json.Unmarshal(data, &bs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		return nil, false
	}
	if bs == nil {
		bs = []domain.Business{}
	}
	c.logger.Debug("cache hit", "key", key, "count", len(bs))
	return bs, true
}

func (c *BusinessStore) set(ctx context.Context, key string, bs []domain.Business) {
	data, err := json.Marshal(bs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.kv.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}
