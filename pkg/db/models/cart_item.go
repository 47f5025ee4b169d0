package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a cart. Lines are unique per
// (cart, product, selected_color, selected_size); adding the same variant
// again merges into the existing line instead of creating a new row.
type CartItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID        uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uniq_cart_line,priority:1"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uniq_cart_line,priority:2"`
	Product       *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	SelectedColor string    `gorm:"column:selected_color;not null;default:'Default';uniqueIndex:uniq_cart_line,priority:3"`
	SelectedSize  string    `gorm:"column:selected_size;not null;default:'Default';uniqueIndex:uniq_cart_line,priority:4"`
	Quantity      int       `gorm:"column:quantity;not null;default:1"`
	AddedAt       time.Time `gorm:"column:added_at;autoCreateTime"`
}
