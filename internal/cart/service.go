package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
)

// defaultVariant is the placeholder used when a product has no color or
// size options. Blank selections normalize to it so the variant key stays
// stable.
const defaultVariant = "Default"

// productFinder is the slice of the catalog repository the cart needs.
type productFinder interface {
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// Service exposes the per-user cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, cartItemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

// AddItemInput holds the validated add-to-cart payload.
type AddItemInput struct {
	ProductID     uuid.UUID
	Quantity      int
	SelectedColor string
	SelectedSize  string
}

// UpdateItemInput sets a line to an absolute quantity.
type UpdateItemInput struct {
	CartItemID uuid.UUID
	Quantity   int
}

type service struct {
	repo     *Repository
	products productFinder
	dbClient *db.Client
}

// NewService wires the cart service.
func NewService(repo *Repository, products productFinder, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart service: repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("cart service: product finder is required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("cart service: db client is required")
	}
	return &service{repo: repo, products: products, dbClient: dbClient}, nil
}

// GetCart returns the user's cart, creating it on first access.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(cart), nil
}

// AddItem adds a product variant to the cart. Adding a variant already in
// the cart merges quantities into the existing line; the merged quantity is
// checked against stock before anything is written.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, s.mapNotFound(err, "product not found")
	}

	color := normalizeVariant(input.SelectedColor)
	size := normalizeVariant(input.SelectedSize)

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		line, err := txRepo.FindLine(ctx, cart.ID, product.ID, color, size)
		switch {
		case err == nil:
			merged := line.Quantity + input.Quantity
			if merged > product.CurrentStock {
				return insufficientStock(product, merged)
			}
			return txRepo.UpdateLineQuantity(ctx, line.ID, merged)
		case errors.Is(err, gorm.ErrRecordNotFound):
			if input.Quantity > product.CurrentStock {
				return insufficientStock(product, input.Quantity)
			}
			_, err := txRepo.CreateLine(ctx, &models.CartItem{
				CartID:        cart.ID,
				ProductID:     product.ID,
				SelectedColor: color,
				SelectedSize:  size,
				Quantity:      input.Quantity,
			})
			return err
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find cart line")
		}
	}); err != nil {
		if existing := pkgerrors.As(err); existing != nil {
			return nil, existing
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add cart item")
	}

	return s.reload(ctx, userID)
}

// UpdateItem sets an absolute quantity on a line the user owns.
func (s *service) UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (*CartDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.repo.FindLineByID(ctx, cart.ID, input.CartItemID)
	if err != nil {
		return nil, s.mapNotFound(err, "cart item not found")
	}
	product, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, s.mapNotFound(err, "product not found")
	}
	if input.Quantity > product.CurrentStock {
		return nil, insufficientStock(product, input.Quantity)
	}
	if err := s.repo.UpdateLineQuantity(ctx, line.ID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart item")
	}
	return s.reload(ctx, userID)
}

// RemoveItem deletes a line the user owns.
func (s *service) RemoveItem(ctx context.Context, userID, cartItemID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.repo.FindLineByID(ctx, cart.ID, cartItemID)
	if err != nil {
		return nil, s.mapNotFound(err, "cart item not found")
	}
	if err := s.repo.DeleteLine(ctx, line.ID); err != nil {
		return nil, s.mapNotFound(err, "cart item not found")
	}
	return s.reload(ctx, userID)
}

// Clear empties the cart. Clearing an already empty cart succeeds.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearLines(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return s.reload(ctx, userID)
}

func (s *service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	created, err := s.repo.Create(ctx, &models.Cart{UserID: userID})
	if err == nil {
		return created, nil
	}
	// Two requests raced to create the same user's cart; the loser
	// re-reads the winner's row.
	if db.IsUniqueViolation(err, "") {
		cart, err = s.repo.FindByUser(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
		}
		return cart, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create cart")
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	return NewCartDTO(cart), nil
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

func insufficientStock(product *models.Product, requested int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("only %d of %q in stock, requested %d", product.CurrentStock, product.Name, requested))
}

func normalizeVariant(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVariant
	}
	return value
}
