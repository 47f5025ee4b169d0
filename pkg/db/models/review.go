package models

import (
	"time"

	"github.com/google/uuid"
)

// Review holds a product rating. One top-level review is allowed per
// (product, user); the partial unique index in the migration scopes the
// constraint to rows with a NULL parent so replies stay unconstrained.
type Review struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Replies   []Review   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Rating    int        `gorm:"column:rating;not null"`
	Comment   string     `gorm:"column:comment;not null;default:''"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
