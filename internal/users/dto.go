package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/enums"
	"github.com/modastore/storefront-backend/pkg/pagination"
	"github.com/modastore/storefront-backend/pkg/types"
)

// UserDTO is the user profile view. The password hash never leaves the
// service layer.
type UserDTO struct {
	ID              uuid.UUID     `json:"id"`
	Email           string        `json:"email"`
	Username        string        `json:"username"`
	FirstName       *string       `json:"first_name"`
	LastName        *string       `json:"last_name"`
	ProfileImageURL *string       `json:"profile_image_url"`
	Preferences     types.JSONMap `json:"preferences,omitempty"`
	IsStaff         bool          `json:"is_staff"`
	IsActive        bool          `json:"is_active"`
	LastLoginAt     *time.Time    `json:"last_login_at"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ActivityDTO is one activity log entry.
type ActivityDTO struct {
	ID        uuid.UUID            `json:"id"`
	Action    enums.ActivityAction `json:"action"`
	IPAddress *string              `json:"ip_address"`
	Metadata  types.JSONMap        `json:"metadata,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// UserListResult pairs one page of users with pagination metadata.
type UserListResult struct {
	Items []UserDTO       `json:"items"`
	Page  pagination.Page `json:"page"`
}

// ActivityListResult pairs one page of activity with pagination metadata.
type ActivityListResult struct {
	Items []ActivityDTO   `json:"items"`
	Page  pagination.Page `json:"page"`
}

// NewUserDTO maps a user row.
func NewUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		Preferences:     user.Preferences,
		IsStaff:         user.IsStaff,
		IsActive:        user.IsActive,
		LastLoginAt:     user.LastLoginAt,
		CreatedAt:       user.CreatedAt,
	}
}

// NewActivityDTO maps an activity row.
func NewActivityDTO(activity *models.UserActivity) ActivityDTO {
	return ActivityDTO{
		ID:        activity.ID,
		Action:    activity.Action,
		IPAddress: activity.IPAddress,
		Metadata:  activity.Metadata,
		Timestamp: activity.Timestamp,
	}
}
