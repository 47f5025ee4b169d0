package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/pkg/types"
)

// User represents the canonical identity entity.
type User struct {
	ID              uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string        `gorm:"column:email;not null;uniqueIndex"`
	Username        string        `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash    string        `gorm:"column:password_hash;not null"`
	FirstName       *string       `gorm:"column:first_name"`
	LastName        *string       `gorm:"column:last_name"`
	ProfileImageURL *string       `gorm:"column:profile_image_url"`
	Preferences     types.JSONMap `gorm:"column:preferences;type:jsonb;serializer:json"`
	IsStaff         bool          `gorm:"column:is_staff;not null;default:false"`
	IsActive        bool          `gorm:"column:is_active;not null;default:true"`
	LastLoginAt     *time.Time    `gorm:"column:last_login_at"`
	CreatedAt       time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
