package pricing

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"indyscope/internal/models"
	"indyscope/internal/store"
)

// QuoteCache is the in-memory TTL cache in front of the market endpoints,
// hydrated from and persisted to the durable store so stale entries
// survive restarts. All mutation is synchronous and confined here.
type QuoteCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]models.PriceQuote
	store   store.Store // optional
	logger  *zap.Logger
}

func NewQuoteCache(ttl time.Duration, st store.Store, logger *zap.Logger) *QuoteCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &QuoteCache{
		ttl:     ttl,
		entries: make(map[string]models.PriceQuote),
		store:   st,
		logger:  logger,
	}
}

// Fresh returns the entry for key only when it is younger than the TTL.
func (c *QuoteCache) Fresh(ctx context.Context, key string, now time.Time) (models.PriceQuote, bool) {
	q, ok := c.lookup(ctx, key)
	if !ok {
		return models.PriceQuote{}, false
	}
	age := now.UnixMilli() - q.FetchedAt
	if age < 0 || age > c.ttl.Milliseconds() {
		return models.PriceQuote{}, false
	}
	return q, true
}

// Stale returns the entry for key regardless of age.
func (c *QuoteCache) Stale(ctx context.Context, key string) (models.PriceQuote, bool) {
	return c.lookup(ctx, key)
}

func (c *QuoteCache) lookup(ctx context.Context, key string) (models.PriceQuote, bool) {
	c.mu.RLock()
	q, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return q, true
	}
	if c.store == nil {
		return models.PriceQuote{}, false
	}
	raw, ok := c.store.Get(ctx, key)
	if !ok {
		return models.PriceQuote{}, false
	}
	if err := json.Unmarshal(raw, &q); err != nil {
		if c.logger != nil {
			c.logger.Warn("corrupt persisted quote dropped", zap.String("key", key), zap.Error(err))
		}
		_ = c.store.Delete(ctx, key)
		return models.PriceQuote{}, false
	}
	c.mu.Lock()
	c.entries[key] = q
	c.mu.Unlock()
	return q, true
}

// Put overwrites the entry idempotently and persists it best-effort.
func (c *QuoteCache) Put(ctx context.Context, q models.PriceQuote) {
	key := q.Context.CacheKey(q.TypeID)
	c.mu.Lock()
	c.entries[key] = q
	c.mu.Unlock()
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, raw); err != nil && c.logger != nil {
		c.logger.Warn("persist quote failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops one entry from memory and the store.
func (c *QuoteCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	if c.store != nil {
		_ = c.store.Delete(ctx, key)
	}
}

// Clear drops every in-memory entry. Persisted entries stay: they remain
// useful to the stale-cache fallback.
func (c *QuoteCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]models.PriceQuote)
	c.mu.Unlock()
}
