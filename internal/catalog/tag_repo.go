package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
)

// TagRepository encapsulates tag persistence.
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository binds the repository to the provided GORM handle.
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *TagRepository) WithTx(tx *gorm.DB) *TagRepository {
	if tx == nil {
		return r
	}
	return &TagRepository{db: tx}
}

// Create inserts the tag.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag and its product associations.
func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Tag{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByIDs loads the tags for the given ids.
func (r *TagRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every tag ordered by name then value.
func (r *TagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	var rows []models.Tag
	if err := r.db.WithContext(ctx).Order("name ASC, value ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
