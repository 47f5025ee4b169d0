package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  payment_intent_id TEXT NOT NULL UNIQUE,
  amount NUMERIC NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'aud',
  shipping_info TEXT,
  subtotal NUMERIC NOT NULL DEFAULT 0,
  shipping NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  tracking_number TEXT,
  tracking_url TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  color TEXT NOT NULL DEFAULT 'Default',
  size TEXT NOT NULL DEFAULT 'Default'
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type orderOpts struct {
	user      *uuid.UUID
	status    enums.OrderStatus
	createdAt time.Time
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, opts orderOpts) *models.Order {
	t.Helper()

	status := opts.status
	if status == "" {
		status = enums.OrderStatusPending
	}
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          opts.user,
		PaymentIntentID: "pi_" + uuid.NewString(),
		Amount:          decimal.RequireFromString("109.90"),
		Currency:        "aud",
		Subtotal:        decimal.RequireFromString("99.90"),
		Shipping:        decimal.RequireFromString("10.00"),
		Total:           decimal.RequireFromString("109.90"),
		Status:          status,
		Items: []models.OrderItem{
			{
				Name:     "Linen Shirt",
				Quantity: 2,
				Price:    decimal.RequireFromString("49.95"),
				Color:    "Blue",
				Size:     "M",
			},
		},
	}
	if !opts.createdAt.IsZero() {
		order.CreatedAt = opts.createdAt
	}
	repo := NewRepository(tx)
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}
