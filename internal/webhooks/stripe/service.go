package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/internal/orders"
	"github.com/modastore/storefront-backend/internal/payments"
	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/enums"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/logger"
)

// EventScope is the idempotency scope for Stripe webhook deliveries.
const EventScope = "stripe_event"

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams collects the webhook handler dependencies.
type ServiceParams struct {
	Payments          *payments.Repository
	Orders            *orders.Repository
	Guard             *IdempotencyGuard
	TransactionRunner txRunner
	Logger            *logger.Logger
	DefaultCurrency   string
}

// Service turns verified Stripe events into payment records and order
// status updates.
type Service struct {
	payments *payments.Repository
	orders   *orders.Repository
	guard    *IdempotencyGuard
	txRunner txRunner
	logger   *logger.Logger
	currency string
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	currency := strings.TrimSpace(strings.ToLower(params.DefaultCurrency))
	if currency == "" {
		currency = "aud"
	}
	return &Service{
		payments: params.Payments,
		orders:   params.Orders,
		guard:    params.Guard,
		txRunner: params.TransactionRunner,
		logger:   params.Logger,
		currency: currency,
	}, nil
}

// HandleEvent processes one verified event. Duplicate deliveries and event
// types we do not subscribe to are acknowledged without side effects; when
// handling fails the idempotency mark is dropped so Stripe's retry can run
// the handler again.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
	default:
		return nil
	}

	seen, err := s.guard.CheckAndMark(ctx, event.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "webhook idempotency check")
	}
	if seen {
		s.logger.Info(s.logger.WithField(ctx, "event_id", event.ID), "stripe event already processed")
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}

	status := statusSucceeded
	if event.Type == stripe.EventTypePaymentIntentPaymentFailed {
		status = statusFailed
	}

	if err := s.recordPayment(ctx, &intent, status); err != nil {
		if delErr := s.guard.Delete(ctx, event.ID); delErr != nil {
			s.logger.Error(s.logger.WithField(ctx, "event_id", event.ID), "failed to release webhook idempotency mark", delErr)
		}
		return err
	}
	return nil
}

func (s *Service) recordPayment(ctx context.Context, intent *stripe.PaymentIntent, status string) error {
	currency := strings.TrimSpace(strings.ToLower(string(intent.Currency)))
	if currency == "" {
		currency = s.currency
	}
	amount := decimal.New(intent.Amount, -2)

	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txPayments := s.payments.WithTx(tx)
		txOrders := s.orders.WithTx(tx)

		payment := &models.Payment{
			StripePaymentIntentID: intent.ID,
			Amount:                amount,
			Currency:              currency,
			Status:                status,
		}
		if raw := intent.Metadata["user_id"]; raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				payment.UserID = &userID
			}
		}
		if orderID := intent.Metadata["order_id"]; orderID != "" {
			payment.OrderID = &orderID
		}

		if _, err := txPayments.Create(ctx, payment); err != nil {
			if db.IsUniqueViolation(err, "") {
				// A prior delivery already recorded this intent; refresh
				// the status instead.
				return txPayments.UpdateStatusByIntentID(ctx, intent.ID, status)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record payment")
		}

		if status != statusSucceeded {
			return nil
		}
		return s.markOrderPaid(ctx, txOrders, intent.ID)
	})
}

// markOrderPaid moves the matching order to paid. A missing order is not an
// error: intents can be created before checkout records them.
func (s *Service) markOrderPaid(ctx context.Context, repo *orders.Repository, intentID string) error {
	order, err := repo.FindByPaymentIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn(s.logger.WithField(ctx, "payment_intent_id", intentID), "no order for paid intent")
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order for intent")
	}
	if !order.Status.CanTransitionTo(enums.OrderStatusPaid) {
		s.logger.Info(s.logger.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"status":   order.Status.String(),
		}), "order not in a payable state")
		return nil
	}
	return repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPaid)
}
