package product

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error without repository")
	}
}

func TestServiceListProducts(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()

	now := time.Now().UTC()
	mustCreateTestProduct(t, conn, "runner", enums.ProductCategoryShoes, now.Add(-time.Hour), map[string]int{"42": 2})
	mustCreateTestProduct(t, conn, "hoodie", enums.ProductCategoryClothing, now, map[string]int{"L": 1})

	all, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "hoodie", all[0].Name)

	shoes, err := svc.ListProducts(ctx, "shoes")
	require.NoError(t, err)
	require.Len(t, shoes, 1)
	assert.Equal(t, "runner", shoes[0].Name)

	unknown, err := svc.ListProducts(ctx, "hats")
	require.NoError(t, err)
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestServiceGetProduct(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn, nil)

	created := mustCreateTestProduct(t, conn, "runner", enums.ProductCategoryShoes, time.Now(), map[string]int{"42": 2})

	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, 2, got.Variants[0].Stock)

	_, err = svc.GetProduct(context.Background(), created.ID+1)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Product not found", pkgerrors.As(err).Message())
}

func TestServiceCreateProductPersistsEverything(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn, nil)

	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Trail Runner",
		"basePrice": 2499.9,
		"description": "Light trail shoe",
		"imageUrl": "https://img/trail.jpg",
		"category": "shoes",
		"variants": [{"size": "42", "stock": 5}, {"size": 43}]
	}`), &in))

	created, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "General", created.Brand)
	assert.Equal(t, "2499.9", created.BasePrice.String())
	require.Len(t, created.Images, 1)
	assert.Equal(t, "https://img/trail.jpg", created.Images[0].URL)
	require.Len(t, created.Variants, 2)
	assert.Equal(t, 5, created.Variants[0].Stock)
	assert.Equal(t, 1, created.Variants[1].Stock)
	assert.Equal(t, created.ID, created.Variants[0].ProductID)

	again, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, again.Name)
}

func TestServiceCreateProductValidationLeavesNoRows(t *testing.T) {
	conn := setupProductsTestDB(t)
	svc := newTestService(t, conn, nil)

	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Tee", "basePrice": 10, "description": "d", "imageUrl": "u", "category": "clothing", "variants": [{"size": "XXL"}]}`), &in))

	_, err := svc.CreateProduct(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, "Invalid clothing size", pkgerrors.As(err).Message())

	all, err := svc.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestServiceCategories(t *testing.T) {
	svc := newTestService(t, setupProductsTestDB(t), nil)
	assert.Equal(t, []string{"shoes", "clothing"}, svc.Categories())
}

func TestServiceReadCache(t *testing.T) {
	conn := setupProductsTestDB(t)
	store := newMemoryCatalogStore()
	cache := NewReadCache(store, time.Minute, metrics.NewCacheMetrics(nil), nil)
	svc := newTestService(t, conn, cache)
	ctx := context.Background()

	mustCreateTestProduct(t, conn, "runner", enums.ProductCategoryShoes, time.Now(), map[string]int{"42": 2})

	first, err := svc.ListProducts(ctx, "shoes")
	require.NoError(t, err)
	require.Len(t, first, 1)
	_, cached := store.data[store.CatalogKey("products", "shoes")]
	require.True(t, cached, "list should be written to cache")

	// A row inserted behind the service is invisible until the cache entry is dropped.
	mustCreateTestProduct(t, conn, "sprinter", enums.ProductCategoryShoes, time.Now(), map[string]int{"41": 1})
	second, err := svc.ListProducts(ctx, "shoes")
	require.NoError(t, err)
	assert.Len(t, second, 1)

	var in ProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Court", "basePrice": 50, "description": "d", "imageUrl": "u", "category": "shoes", "variants": [{"size": "40"}]}`), &in))
	_, err = svc.CreateProduct(ctx, in)
	require.NoError(t, err)
	assert.Contains(t, store.deleted, store.CatalogKey("products", "all"))
	assert.Contains(t, store.deleted, store.CatalogKey("products", "shoes"))

	third, err := svc.ListProducts(ctx, "shoes")
	require.NoError(t, err)
	assert.Len(t, third, 3)
}

func TestServiceReadCacheFailureFallsThrough(t *testing.T) {
	conn := setupProductsTestDB(t)
	store := newMemoryCatalogStore()
	store.getErr = errors.New("connection refused")
	svc := newTestService(t, conn, NewReadCache(store, time.Minute, nil, nil))

	created := mustCreateTestProduct(t, conn, "runner", enums.ProductCategoryShoes, time.Now(), map[string]int{"42": 2})

	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}
