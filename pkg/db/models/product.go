package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modastore/storefront-backend/pkg/types"
)

// Product is the canonical catalog listing. The trending_score and
// aggregated_order_info columns hold derived data refreshed asynchronously
// by the ranking sweep; nothing on the request path writes them.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  *uuid.UUID      `gorm:"column:category_id;type:uuid;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`

	SalesCount    int     `gorm:"column:sales_count;not null;default:0;index"`
	ViewsCount    int     `gorm:"column:views_count;not null;default:0"`
	TrendingScore float64 `gorm:"column:trending_score;not null;default:0;index"`

	AggregatedOrderInfo types.JSONMap `gorm:"column:aggregated_order_info;type:jsonb;serializer:json"`

	CurrentStock int        `gorm:"column:current_stock;not null;default:0;index"`
	IsLaunch     bool       `gorm:"column:is_launch;not null;default:false;index"`
	ReleaseDate  *time.Time `gorm:"column:release_date;index"`

	Tags   []Tag          `gorm:"many2many:product_tags;constraint:OnDelete:CASCADE"`
	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsReleased reports whether the product's release date has passed.
func (p *Product) IsReleased(now time.Time) bool {
	return p.ReleaseDate != nil && !p.ReleaseDate.After(now)
}

// IsInStock reports whether any stock remains.
func (p *Product) IsInStock() bool {
	return p.CurrentStock > 0
}
