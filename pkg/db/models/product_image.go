package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage stores gallery media for a product. At most one image per
// product may be primary; the partial unique index in the migration enforces
// it and the catalog service demotes the previous primary on promotion.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	MediaType string    `gorm:"column:media_type;not null"`
	AltText   string    `gorm:"column:alt_text;not null;default:'Image'"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
