package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/types"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TagDTO is the tag payload returned to clients.
type TagDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Value string    `json:"value"`
}

// ProductImageDTO captures product gallery metadata.
type ProductImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"image_url"`
	MediaType string    `json:"media_type"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
}

// ProductSummaryDTO is the compact listing shape used by browse pages and
// the ranked shelves.
type ProductSummaryDTO struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Price         string     `json:"price"`
	Category      *string    `json:"category,omitempty"`
	PrimaryImage  *string    `json:"primary_image,omitempty"`
	CurrentStock  int        `json:"current_stock"`
	SalesCount    int        `json:"sales_count"`
	TrendingScore float64    `json:"trending_score"`
	IsLaunch      bool       `json:"is_launch"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
}

// ProductDTO is the full detail payload.
type ProductDTO struct {
	ID                  uuid.UUID         `json:"id"`
	Name                string            `json:"name"`
	Description         string            `json:"description"`
	Price               string            `json:"price"`
	Category            *CategoryDTO      `json:"category,omitempty"`
	Tags                []TagDTO          `json:"tags"`
	Images              []ProductImageDTO `json:"images"`
	CurrentStock        int               `json:"current_stock"`
	SalesCount          int               `json:"sales_count"`
	ViewsCount          int               `json:"views_count"`
	TrendingScore       float64           `json:"trending_score"`
	AggregatedOrderInfo types.JSONMap     `json:"aggregated_order_info,omitempty"`
	IsLaunch            bool              `json:"is_launch"`
	ReleaseDate         *time.Time        `json:"release_date,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// NewCategoryDTO builds the category payload.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Slug:        category.Slug,
		CreatedAt:   category.CreatedAt,
	}
}

// NewTagDTO builds the tag payload.
func NewTagDTO(tag *models.Tag) TagDTO {
	return TagDTO{ID: tag.ID, Name: tag.Name, Value: tag.Value}
}

// NewProductImageDTO builds the image payload.
func NewProductImageDTO(image *models.ProductImage) ProductImageDTO {
	return ProductImageDTO{
		ID:        image.ID,
		ImageURL:  image.ImageURL,
		MediaType: image.MediaType,
		AltText:   image.AltText,
		IsPrimary: image.IsPrimary,
	}
}

// NewProductSummaryDTO builds the compact listing payload.
func NewProductSummaryDTO(product *models.Product) ProductSummaryDTO {
	dto := ProductSummaryDTO{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price.StringFixed(2),
		CurrentStock:  product.CurrentStock,
		SalesCount:    product.SalesCount,
		TrendingScore: product.TrendingScore,
		IsLaunch:      product.IsLaunch,
		ReleaseDate:   product.ReleaseDate,
	}
	if product.Category != nil {
		dto.Category = &product.Category.Name
	}
	for i := range product.Images {
		if product.Images[i].IsPrimary {
			dto.PrimaryImage = &product.Images[i].ImageURL
			break
		}
	}
	return dto
}

// NewProductDTO builds the full detail payload.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:                  product.ID,
		Name:                product.Name,
		Description:         product.Description,
		Price:               product.Price.StringFixed(2),
		Tags:                make([]TagDTO, 0, len(product.Tags)),
		Images:              make([]ProductImageDTO, 0, len(product.Images)),
		CurrentStock:        product.CurrentStock,
		SalesCount:          product.SalesCount,
		ViewsCount:          product.ViewsCount,
		TrendingScore:       product.TrendingScore,
		AggregatedOrderInfo: product.AggregatedOrderInfo,
		IsLaunch:            product.IsLaunch,
		ReleaseDate:         product.ReleaseDate,
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
	if product.Category != nil {
		dto.Category = NewCategoryDTO(product.Category)
	}
	for i := range product.Tags {
		dto.Tags = append(dto.Tags, NewTagDTO(&product.Tags[i]))
	}
	for i := range product.Images {
		dto.Images = append(dto.Images, NewProductImageDTO(&product.Images[i]))
	}
	return dto
}
