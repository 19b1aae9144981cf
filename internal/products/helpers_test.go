package product

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgredis "github.com/angelmondragon/storefront/pkg/redis"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.Variant{}, &models.ProductImage{}))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB, cache *ReadCache) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.Wrap(conn), cache, nil)
	require.NoError(t, err)
	return svc
}

func mustCreateTestProduct(t *testing.T, conn *gorm.DB, name string, category enums.ProductCategory, createdAt time.Time, sizes map[string]int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		BasePrice:   decimal.RequireFromString("100.50"),
		Description: name + " description",
		ImageURL:    "https://img/" + name + ".jpg",
		Category:    category,
		Brand:       "General",
		CreatedAt:   createdAt,
		Images:      []models.ProductImage{{URL: "https://img/" + name + ".jpg"}},
	}
	for size, stock := range sizes {
		p.Variants = append(p.Variants, models.Variant{Size: size, Stock: stock})
	}
	require.NoError(t, conn.Create(p).Error)
	return p
}

// memoryCatalogStore is an in-process stand-in for the redis catalog store.
type memoryCatalogStore struct {
	mu      sync.Mutex
	data    map[string]string
	deleted []string
	getErr  error
}

var _ pkgredis.CatalogStore = (*memoryCatalogStore)(nil)

func newMemoryCatalogStore() *memoryCatalogStore {
	return &memoryCatalogStore{data: map[string]string{}}
}

func (m *memoryCatalogStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryCatalogStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryCatalogStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *memoryCatalogStore) CatalogKey(parts ...string) string {
	return "test:catalog:" + strings.Join(parts, ":")
}
