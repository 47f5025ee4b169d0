package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/pagination"
)

// minChargeCents is Stripe's floor for a charge in the smallest currency
// unit.
const minChargeCents = 50

// CreateIntentInput is the validated create-payment-intent payload. Amounts
// travel in cents so there is no float on the provider boundary.
type CreateIntentInput struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// Service exposes payment intent creation and payment history reads.
type Service interface {
	CreatePaymentIntent(ctx context.Context, userID uuid.UUID, input CreateIntentInput) (*IntentDTO, error)
	PaymentHistory(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PaymentListResult, error)
}

type service struct {
	repo            *Repository
	stripe          StripeIntentClient
	defaultCurrency string
}

// NewService wires the payment service.
func NewService(repo *Repository, stripeClient StripeIntentClient, defaultCurrency string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments service: repository is required")
	}
	if stripeClient == nil {
		return nil, fmt.Errorf("payments service: stripe client is required")
	}
	currency := strings.TrimSpace(strings.ToLower(defaultCurrency))
	if currency == "" {
		currency = "aud"
	}
	return &service{repo: repo, stripe: stripeClient, defaultCurrency: currency}, nil
}

// CreatePaymentIntent creates a provider intent and hands the client secret
// back for confirmation. The acting user is stamped into the intent metadata
// so the webhook can attribute the eventual payment.
func (s *service) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, input CreateIntentInput) (*IntentDTO, error) {
	if input.AmountCents < minChargeCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("amount must be at least %d cents", minChargeCents))
	}
	currency := strings.TrimSpace(strings.ToLower(input.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(input.AmountCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("user_id", userID.String())
	for key, value := range input.Metadata {
		params.AddMetadata(key, value)
	}

	intent, err := s.stripe.NewPaymentIntent(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe: create payment intent")
	}

	return &IntentDTO{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     input.AmountCents,
		Currency:        currency,
	}, nil
}

// PaymentHistory returns the user's payments, newest first.
func (s *service) PaymentHistory(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PaymentListResult, error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list payments")
	}

	result := &PaymentListResult{
		Items: make([]PaymentDTO, 0, len(rows)),
		Page:  pagination.Build(params, total),
	}
	for i := range rows {
		result.Items = append(result.Items, NewPaymentDTO(&rows[i]))
	}
	return result, nil
}
