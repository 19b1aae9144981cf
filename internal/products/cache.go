package product

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	pkgredis "github.com/angelmondragon/storefront/pkg/redis"
)

const (
	listKeyAll       = "all"
	cacheKindList    = "products"
	cacheKindProduct = "product"
)

// ReadCache keeps serialized catalog reads in Redis. Every failure is logged
// and treated as a miss so the database stays the source of truth.
type ReadCache struct {
	store   pkgredis.CatalogStore
	ttl     time.Duration
	metrics *metrics.CacheMetrics
	logg    *logger.Logger
}

func NewReadCache(store pkgredis.CatalogStore, ttl time.Duration, m *metrics.CacheMetrics, logg *logger.Logger) *ReadCache {
	if store == nil {
		return nil
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &ReadCache{store: store, ttl: ttl, metrics: m, logg: logg}
}

func (c *ReadCache) listKey(category string) string {
	if category == "" {
		category = listKeyAll
	}
	return c.store.CatalogKey(cacheKindList, category)
}

func (c *ReadCache) productKey(id uint) string {
	return c.store.CatalogKey(cacheKindProduct, strconv.FormatUint(uint64(id), 10))
}

func (c *ReadCache) getList(ctx context.Context, category string) ([]ProductDTO, bool) {
	if c == nil {
		return nil, false
	}
	var out []ProductDTO
	if !c.get(ctx, cacheKindList, c.listKey(category), &out) {
		return nil, false
	}
	return out, true
}

func (c *ReadCache) putList(ctx context.Context, category string, products []ProductDTO) {
	if c == nil {
		return
	}
	c.put(ctx, c.listKey(category), products)
}

func (c *ReadCache) getProduct(ctx context.Context, id uint) (*ProductDTO, bool) {
	if c == nil {
		return nil, false
	}
	var out ProductDTO
	if !c.get(ctx, cacheKindProduct, c.productKey(id), &out) {
		return nil, false
	}
	return &out, true
}

func (c *ReadCache) putProduct(ctx context.Context, product *ProductDTO) {
	if c == nil {
		return
	}
	c.put(ctx, c.productKey(product.ID), product)
}

// invalidateLists drops the unfiltered list and the list of the given category.
func (c *ReadCache) invalidateLists(ctx context.Context, category string) {
	if c == nil {
		return
	}
	if err := c.store.Del(ctx, c.listKey(""), c.listKey(category)); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "catalog cache invalidation failed")
	}
}

func (c *ReadCache) get(ctx context.Context, kind, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsMiss(err) {
			c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache read failed")
		}
		c.metrics.Miss(kind)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache entry undecodable")
		c.metrics.Miss(kind)
		return false
	}
	c.metrics.Hit(kind)
	return true
}

func (c *ReadCache) put(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog cache write failed")
	}
}
