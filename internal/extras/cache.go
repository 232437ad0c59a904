package extras

import (
	"context"
	"encoding/json"
	"time"

	"github.com/menuvivo/menuvivo-backend/pkg/checkout"
	"github.com/menuvivo/menuvivo-backend/pkg/logger"
	pkgredis "github.com/menuvivo/menuvivo-backend/pkg/redis"
	"github.com/google/uuid"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ExtrasResolutionKey(productID string) string
}

// ResolutionCache holds resolved extras payloads keyed by product.
// Every operation is best effort: a broken cache degrades to recomputing,
// never to failing the request. A nil cache disables caching entirely.
type ResolutionCache struct {
	store cacheStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewResolutionCache builds a product-keyed cache on the provided store.
func NewResolutionCache(store cacheStore, ttl time.Duration, logg *logger.Logger) *ResolutionCache {
	if store == nil {
		return nil
	}
	return &ResolutionCache{store: store, ttl: ttl, log: logg}
}

// Get returns the cached resolution for a product, if present and decodable.
func (c *ResolutionCache) Get(ctx context.Context, productID uuid.UUID) ([]checkout.GroupedExtras, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	payload, err := c.store.Get(ctx, c.store.ExtrasResolutionKey(productID.String()))
	if err != nil {
		if err != pkgredis.ErrCacheMiss && c.log != nil {
			c.log.Warn(ctx, "extras resolution cache read failed")
		}
		return nil, false
	}
	var groups []checkout.GroupedExtras
	if err := json.Unmarshal([]byte(payload), &groups); err != nil {
		// Undecodable entries are stale format leftovers; drop them.
		c.Invalidate(ctx, productID)
		return nil, false
	}
	return groups, true
}

// Put stores the resolution for a product with the configured TTL.
func (c *ResolutionCache) Put(ctx context.Context, productID uuid.UUID, groups []checkout.GroupedExtras) {
	if c == nil || c.store == nil {
		return
	}
	payload, err := json.Marshal(groups)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, c.store.ExtrasResolutionKey(productID.String()), string(payload), c.ttl); err != nil && c.log != nil {
		c.log.Warn(ctx, "extras resolution cache write failed")
	}
}

// Invalidate evicts the cached resolution for a product.
func (c *ResolutionCache) Invalidate(ctx context.Context, productID uuid.UUID) {
	if c == nil || c.store == nil {
		return
	}
	if err := c.store.Del(ctx, c.store.ExtrasResolutionKey(productID.String())); err != nil && c.log != nil {
		c.log.Warn(ctx, "extras resolution cache eviction failed")
	}
}
