package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modastore/storefront-backend/pkg/enums"
	"github.com/modastore/storefront-backend/pkg/types"
)

// Order records a checkout. Line items are snapshots; the order survives
// deletion of its user and its products.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          *uuid.UUID        `gorm:"column:user_id;type:uuid;index"`
	PaymentIntentID string            `gorm:"column:payment_intent_id;not null;uniqueIndex"`
	Amount          decimal.Decimal   `gorm:"column:amount;type:numeric(10,2);not null"`
	Currency        string            `gorm:"column:currency;not null"`
	ShippingInfo    types.JSONMap     `gorm:"column:shipping_info;type:jsonb;serializer:json"`
	Subtotal        decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Shipping        decimal.Decimal   `gorm:"column:shipping;type:numeric(10,2);not null"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TrackingNumber  *string           `gorm:"column:tracking_number"`
	TrackingURL     *string           `gorm:"column:tracking_url"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime;index"`
}
