package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  slug TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS tags (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL DEFAULT 0,
  sales_count INTEGER NOT NULL DEFAULT 0,
  views_count INTEGER NOT NULL DEFAULT 0,
  trending_score REAL NOT NULL DEFAULT 0,
  aggregated_order_info TEXT,
  current_stock INTEGER NOT NULL DEFAULT 0,
  is_launch INTEGER NOT NULL DEFAULT 0,
  release_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_tags (
  product_id TEXT NOT NULL,
  tag_id TEXT NOT NULL,
  PRIMARY KEY (product_id, tag_id)
);`,
		`CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  image_url TEXT NOT NULL,
  media_type TEXT NOT NULL,
  alt_text TEXT NOT NULL DEFAULT 'Image',
  is_primary INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_primary_image_per_product
  ON product_images (product_id) WHERE is_primary = 1;`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type productOpts struct {
	category    *uuid.UUID
	price       string
	sales       int
	views       int
	stock       int
	isLaunch    bool
	releaseDate *time.Time
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, name string, opts productOpts) *models.Product {
	t.Helper()

	price := opts.price
	if price == "" {
		price = "10.00"
	}
	product := &models.Product{
		ID:           uuid.New(),
		CategoryID:   opts.category,
		Name:         name,
		Description:  name + " description",
		Price:        decimal.RequireFromString(price),
		SalesCount:   opts.sales,
		ViewsCount:   opts.views,
		CurrentStock: opts.stock,
		IsLaunch:     opts.isLaunch,
		ReleaseDate:  opts.releaseDate,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func mustCreateTestCategory(t *testing.T, tx *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, tx.Create(category).Error)
	return category
}

func mustCreateTestTag(t *testing.T, tx *gorm.DB, name, value string) *models.Tag {
	t.Helper()

	tag := &models.Tag{ID: uuid.New(), Name: name, Value: value}
	require.NoError(t, tx.Create(tag).Error)
	return tag
}
