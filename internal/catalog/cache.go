package catalog

import (
	"context"
	"sync"

	"github.com/angelmondragon/storefront/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Source is the read side of the catalog API.
type Source interface {
	Products(ctx context.Context, category string) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Cache holds the last fetched product list for the selected category and the
// category list. Reads never block on the network.
type Cache struct {
	source Source
	logg   *logger.Logger
	group  singleflight.Group

	mu         sync.RWMutex
	category   string
	products   []Product
	categories []string
	loaded     bool
	inFlight   int
	err        error
}

func NewCache(source Source, logg *logger.Logger) *Cache {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Cache{source: source, logg: logg, products: []Product{}}
}

// SelectCategory switches the filter and refetches products when the
// selection changed or nothing has been loaded yet. An empty category means
// all products.
func (c *Cache) SelectCategory(ctx context.Context, category string) error {
	c.mu.Lock()
	unchanged := c.loaded && c.category == category
	c.category = category
	c.mu.Unlock()

	if unchanged {
		return nil
	}
	return c.fetchProducts(ctx, category)
}

// Refresh refetches products for the current category and the category list
// concurrently. A failure on one side does not cancel the other; each result
// is applied on its own and the first failure is returned.
func (c *Cache) Refresh(ctx context.Context) error {
	category := c.Category()

	// Hold the batch open so a late sibling cannot clear an error recorded
	// by the other fetch.
	c.begin()
	defer c.end()

	var g errgroup.Group
	g.Go(func() error {
		return c.fetchProducts(ctx, category)
	})
	g.Go(func() error {
		return c.fetchCategories(ctx)
	})
	return g.Wait()
}

func (c *Cache) fetchProducts(ctx context.Context, category string) error {
	c.begin()
	defer c.end()

	v, err, _ := c.group.Do("products:"+category, func() (any, error) {
		return c.source.Products(ctx, category)
	})
	if err != nil {
		ctx = c.logg.WithCategory(ctx, category)
		c.logg.Error(ctx, "catalog.fetch_products_failed", err)
		c.fail(err)
		return err
	}

	products := v.([]Product)
	c.mu.Lock()
	defer c.mu.Unlock()
	// A response for a category that is no longer selected is dropped.
	if c.category != category {
		return nil
	}
	c.products = cloneProducts(products)
	c.loaded = true
	return nil
}

func (c *Cache) fetchCategories(ctx context.Context) error {
	c.begin()
	defer c.end()

	v, err, _ := c.group.Do("categories", func() (any, error) {
		return c.source.Categories(ctx)
	})
	if err != nil {
		c.logg.Error(ctx, "catalog.fetch_categories_failed", err)
		c.fail(err)
		return err
	}

	categories := v.([]string)
	c.mu.Lock()
	c.categories = append([]string(nil), categories...)
	c.mu.Unlock()
	return nil
}

// begin clears the error state only when no other fetch is running.
func (c *Cache) begin() {
	c.mu.Lock()
	if c.inFlight == 0 {
		c.err = nil
	}
	c.inFlight++
	c.mu.Unlock()
}

func (c *Cache) end() {
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
}

func (c *Cache) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// Products returns a copy of the cached list.
func (c *Cache) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProducts(c.products)
}

// Categories returns a copy of the cached category names.
func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.categories...)
}

func (c *Cache) Category() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category
}

// Loading reports whether any fetch is in flight.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight > 0
}

// Err is the first failure of the most recent batch of fetches. It is cleared
// when a fetch starts while nothing else is in flight.
func (c *Cache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		p.Variants = append([]Variant(nil), p.Variants...)
		p.Images = append([]Image(nil), p.Images...)
		out[i] = p
	}
	return out
}
