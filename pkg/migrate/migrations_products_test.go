package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront/pkg/migrate"
)

func TestProductsMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no product migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE category AS ENUM ('shoes', 'clothing')",
		"CREATE TABLE IF NOT EXISTS products",
		"base_price  NUMERIC(10,2) NOT NULL CHECK (base_price > 0)",
		"brand       TEXT NOT NULL DEFAULT 'General'",
		"CREATE TABLE IF NOT EXISTS variants",
		"CHECK (stock >= 0)",
		"CREATE TABLE IF NOT EXISTS product_images",
		"REFERENCES products(id) ON DELETE CASCADE",
		"CREATE INDEX IF NOT EXISTS idx_products_category_created_at",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
