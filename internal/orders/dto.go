package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/enums"
	"github.com/modastore/storefront-backend/pkg/pagination"
	"github.com/modastore/storefront-backend/pkg/types"
)

// OrderItemDTO is the immutable line item snapshot as recorded at checkout.
type OrderItemDTO struct {
	ID        uuid.UUID  `json:"id"`
	ProductID *uuid.UUID `json:"product_id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	Price     string     `json:"price"`
	Color     string     `json:"color"`
	Size      string     `json:"size"`
}

// OrderDTO is the full order view.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	Status          enums.OrderStatus `json:"status"`
	PaymentIntentID string            `json:"payment_intent_id"`
	Currency        string            `json:"currency"`
	Subtotal        string            `json:"subtotal"`
	Shipping        string            `json:"shipping"`
	Total           string            `json:"total"`
	ShippingInfo    types.JSONMap     `json:"shipping_info,omitempty"`
	TrackingNumber  *string           `json:"tracking_number"`
	TrackingURL     *string           `json:"tracking_url"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// OrderListResult pairs one page of orders with pagination metadata.
type OrderListResult struct {
	Items []OrderDTO      `json:"items"`
	Page  pagination.Page `json:"page"`
}

// NewOrderItemDTO maps a snapshot row.
func NewOrderItemDTO(item *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Price:     item.Price.StringFixed(2),
		Color:     item.Color,
		Size:      item.Size,
	}
}

// NewOrderDTO maps an order and its items.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		Status:          order.Status,
		PaymentIntentID: order.PaymentIntentID,
		Currency:        order.Currency,
		Subtotal:        order.Subtotal.StringFixed(2),
		Shipping:        order.Shipping.StringFixed(2),
		Total:           order.Total.StringFixed(2),
		ShippingInfo:    order.ShippingInfo,
		TrackingNumber:  order.TrackingNumber,
		TrackingURL:     order.TrackingURL,
		Items:           make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
	}
	for i := range order.Items {
		dto.Items = append(dto.Items, NewOrderItemDTO(&order.Items[i]))
	}
	return dto
}
