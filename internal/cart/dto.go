package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modastore/storefront-backend/internal/catalog"
	"github.com/modastore/storefront-backend/pkg/db/models"
)

// CartItemDTO is one cart line flattened with the product fields the
// storefront renders. Price and stock are the product's live values, not
// what they were when the line was added.
type CartItemDTO struct {
	CartItemID    uuid.UUID                 `json:"cart_item_id"`
	ProductID     uuid.UUID                 `json:"product_id"`
	Name          string                    `json:"name"`
	Price         string                    `json:"price"`
	Category      *string                   `json:"category"`
	Tags          []catalog.TagDTO          `json:"tags"`
	Images        []catalog.ProductImageDTO `json:"images"`
	Quantity      int                       `json:"quantity"`
	SelectedColor string                    `json:"selected_color"`
	SelectedSize  string                    `json:"selected_size"`
	CurrentStock  int                       `json:"current_stock"`
}

// CartDTO is the full cart view. Total is recomputed from live product
// prices on every read.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	Items     []CartItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	Total     string        `json:"total"`
}

// NewCartItemDTO flattens a line and its preloaded product.
func NewCartItemDTO(line *models.CartItem) CartItemDTO {
	dto := CartItemDTO{
		CartItemID:    line.ID,
		ProductID:     line.ProductID,
		Quantity:      line.Quantity,
		SelectedColor: line.SelectedColor,
		SelectedSize:  line.SelectedSize,
		Tags:          []catalog.TagDTO{},
		Images:        []catalog.ProductImageDTO{},
	}
	product := line.Product
	if product == nil {
		return dto
	}
	dto.Name = product.Name
	dto.Price = product.Price.StringFixed(2)
	dto.CurrentStock = product.CurrentStock
	if product.Category != nil {
		name := product.Category.Name
		dto.Category = &name
	}
	for i := range product.Tags {
		dto.Tags = append(dto.Tags, catalog.NewTagDTO(&product.Tags[i]))
	}
	for i := range product.Images {
		dto.Images = append(dto.Images, catalog.NewProductImageDTO(&product.Images[i]))
	}
	return dto
}

// NewCartDTO builds the cart view, summing quantity times the product's
// current price across lines.
func NewCartDTO(cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		ID:    cart.ID,
		Items: make([]CartItemDTO, 0, len(cart.Items)),
	}
	total := decimal.Zero
	for i := range cart.Items {
		line := &cart.Items[i]
		dto.Items = append(dto.Items, NewCartItemDTO(line))
		dto.ItemCount += line.Quantity
		if line.Product != nil {
			total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
	}
	dto.Total = total.StringFixed(2)
	return dto
}
