package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/internal/cart"
	"github.com/modastore/storefront-backend/internal/catalog"
	"github.com/modastore/storefront-backend/internal/orders"
	"github.com/modastore/storefront-backend/pkg/config"
	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/enums"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/types"
)

// Input is the validated checkout payload. The payment intent is created
// client-side first; checkout records it against the order it pays for.
type Input struct {
	PaymentIntentID string
	Currency        string
	ShippingInfo    types.JSONMap
}

// Service turns a cart into an order.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDTO, error)
}

type service struct {
	carts    *cart.Repository
	products *catalog.Repository
	orders   *orders.Repository
	dbClient *db.Client
	shipping decimal.Decimal
	currency string
}

// Params collects the checkout service dependencies.
type Params struct {
	Carts    *cart.Repository
	Products *catalog.Repository
	Orders   *orders.Repository
	DBClient *db.Client
	Checkout config.CheckoutConfig
}

// NewService wires the checkout service.
func NewService(params Params) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("checkout service: cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("checkout service: product repository is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("checkout service: order repository is required")
	}
	if params.DBClient == nil {
		return nil, fmt.Errorf("checkout service: db client is required")
	}
	shipping, err := decimal.NewFromString(params.Checkout.FlatShipping)
	if err != nil {
		return nil, fmt.Errorf("checkout service: invalid flat shipping %q: %w", params.Checkout.FlatShipping, err)
	}
	currency := strings.TrimSpace(strings.ToLower(params.Checkout.Currency))
	if currency == "" {
		currency = "aud"
	}
	return &service{
		carts:    params.Carts,
		products: params.Products,
		orders:   params.Orders,
		dbClient: params.DBClient,
		shipping: shipping,
		currency: currency,
	}, nil
}

// Execute snapshots the cart into an order, consumes stock, and clears the
// cart, all in one transaction. Line items copy the product's name and
// current price so later catalog edits never rewrite order history.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDTO, error) {
	if strings.TrimSpace(input.PaymentIntentID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}

	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	currency := strings.TrimSpace(strings.ToLower(input.Currency))
	if currency == "" {
		currency = s.currency
	}

	var created *models.Order
	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCarts := s.carts.WithTx(tx)
		txProducts := s.products.WithTx(tx)
		txOrders := s.orders.WithTx(tx)

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(userCart.Items))
		for i := range userCart.Items {
			line := &userCart.Items[i]
			product := line.Product
			if product == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart references a product that no longer exists")
			}

			ok, err := txProducts.ConsumeStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: consume stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("not enough stock of %q for quantity %d", product.Name, line.Quantity))
			}

			productID := product.ID
			items = append(items, models.OrderItem{
				ProductID: &productID,
				Name:      product.Name,
				Quantity:  line.Quantity,
				Price:     product.Price,
				Color:     line.SelectedColor,
				Size:      line.SelectedSize,
			})
			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		total := subtotal.Add(s.shipping)
		order := &models.Order{
			UserID:          &userID,
			PaymentIntentID: input.PaymentIntentID,
			Amount:          total,
			Currency:        currency,
			ShippingInfo:    input.ShippingInfo,
			Subtotal:        subtotal,
			Shipping:        s.shipping,
			Total:           total,
			Status:          enums.OrderStatusPending,
			Items:           items,
		}
		created, err = txOrders.Create(ctx, order)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "an order already exists for this payment intent")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
		}

		return txCarts.ClearLines(ctx, userCart.ID)
	})
	if txErr != nil {
		if existing := pkgerrors.As(txErr); existing != nil {
			return nil, existing
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "checkout failed")
	}

	return orders.NewOrderDTO(created), nil
}
