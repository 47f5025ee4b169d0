package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/pagination"
)

// IntentDTO is returned to the client to drive the Stripe confirmation flow.
type IntentDTO struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// PaymentDTO is one provider payment record.
type PaymentDTO struct {
	ID                    uuid.UUID `json:"id"`
	StripePaymentIntentID string    `json:"stripe_payment_intent_id"`
	OrderID               *string   `json:"order_id"`
	Amount                string    `json:"amount"`
	Currency              string    `json:"currency"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
}

// PaymentListResult pairs one page of payments with pagination metadata.
type PaymentListResult struct {
	Items []PaymentDTO    `json:"items"`
	Page  pagination.Page `json:"page"`
}

// NewPaymentDTO maps a payment row.
func NewPaymentDTO(payment *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:                    payment.ID,
		StripePaymentIntentID: payment.StripePaymentIntentID,
		OrderID:               payment.OrderID,
		Amount:                payment.Amount.StringFixed(2),
		Currency:              payment.Currency,
		Status:                payment.Status,
		CreatedAt:             payment.CreatedAt,
	}
}
