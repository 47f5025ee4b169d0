package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/pagination"
)

// ActivityRepository writes and reads the append-only activity log.
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository binds the repository to the provided GORM handle.
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	if tx == nil {
		return r
	}
	return &ActivityRepository{db: tx}
}

// Log appends one activity row.
func (r *ActivityRepository) Log(ctx context.Context, activity *models.UserActivity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByUser returns the user's activity, newest first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.UserActivity, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.UserActivity{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserActivity
	err := query.
		Order("timestamp DESC, id ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
