package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/pkg/enums"
	"github.com/modastore/storefront-backend/pkg/types"
)

// UserActivity is an append-only log row. Rows are never updated or deleted
// by application code.
type UserActivity struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index:idx_user_activity,priority:1"`
	Action    enums.ActivityAction `gorm:"column:action;not null"`
	IPAddress *string              `gorm:"column:ip_address"`
	Metadata  types.JSONMap        `gorm:"column:metadata;type:jsonb;serializer:json"`
	Timestamp time.Time            `gorm:"column:timestamp;autoCreateTime;index:idx_user_activity,priority:2"`
}
