package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/pkg/types"
)

// Cart is the single shopping cart owned by a user. It is created lazily on
// first cart access and never deleted while the user exists.
type Cart struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID     `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Metadata  types.JSONMap `gorm:"column:metadata;type:jsonb;serializer:json"`
	Items     []CartItem    `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
