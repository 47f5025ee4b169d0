package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one record per provider event, keyed by the external payment
// intent id. It is not necessarily one-to-one with orders.
type Payment struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                *uuid.UUID      `gorm:"column:user_id;type:uuid;index"`
	OrderID               *string         `gorm:"column:order_id"`
	StripePaymentIntentID string          `gorm:"column:stripe_payment_intent_id;not null;uniqueIndex"`
	Amount                decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Currency              string          `gorm:"column:currency;not null;default:'aud'"`
	Status                string          `gorm:"column:status;not null"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
