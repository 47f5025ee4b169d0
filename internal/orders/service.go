package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/enums"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/pagination"
)

// Viewer identifies who is reading order data. Staff see every order;
// everyone else only their own.
type Viewer struct {
	UserID  uuid.UUID
	IsStaff bool
}

// UpdateStatusInput moves an order through its lifecycle, optionally
// attaching carrier tracking at the same time.
type UpdateStatusInput struct {
	Status         enums.OrderStatus
	TrackingNumber *string
	TrackingURL    *string
}

// Service exposes order reads and staff lifecycle updates.
type Service interface {
	ListOrders(ctx context.Context, viewer Viewer, params pagination.Params) (*OrderListResult, error)
	GetOrder(ctx context.Context, viewer Viewer, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
}

type service struct {
	repo *Repository
}

// NewService wires the orders service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders service: repository is required")
	}
	return &service{repo: repo}, nil
}

// ListOrders returns one page of orders visible to the viewer, newest first.
func (s *service) ListOrders(ctx context.Context, viewer Viewer, params pagination.Params) (*OrderListResult, error) {
	var (
		rows  []models.Order
		total int64
		err   error
	)
	if viewer.IsStaff {
		rows, total, err = s.repo.ListAll(ctx, params)
	} else {
		rows, total, err = s.repo.ListByUser(ctx, viewer.UserID, params)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := &OrderListResult{
		Items: make([]OrderDTO, 0, len(rows)),
		Page:  pagination.Build(params, total),
	}
	for i := range rows {
		result.Items = append(result.Items, *NewOrderDTO(&rows[i]))
	}
	return result, nil
}

// GetOrder returns the order if the viewer may see it. A foreign order is
// reported as not found rather than forbidden.
func (s *service) GetOrder(ctx context.Context, viewer Viewer, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.mapNotFound(err, "order not found")
	}
	if !viewer.IsStaff {
		if order.UserID == nil || *order.UserID != viewer.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return NewOrderDTO(order), nil
}

// UpdateStatus applies a lifecycle transition. Fulfilment only moves
// forward; an impossible transition is a conflict, not a validation error,
// because the order's current state is what rejects it.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.mapNotFound(err, "order not found")
	}
	if !order.Status.CanTransitionTo(input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, input.Status); err != nil {
		return nil, s.mapNotFound(err, "order not found")
	}
	if input.TrackingNumber != nil || input.TrackingURL != nil {
		if err := s.repo.UpdateTracking(ctx, orderID, input.TrackingNumber, input.TrackingURL); err != nil {
			return nil, s.mapNotFound(err, "order not found")
		}
	}

	updated, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.mapNotFound(err, "order not found")
	}
	return NewOrderDTO(updated), nil
}

func (s *service) mapNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	if existing := pkgerrors.As(err); existing != nil {
		return existing
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db lookup failed")
}
