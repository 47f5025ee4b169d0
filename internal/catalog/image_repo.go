package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
)

// ImageRepository encapsulates product image persistence.
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository binds the repository to the provided GORM handle.
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *ImageRepository) WithTx(tx *gorm.DB) *ImageRepository {
	if tx == nil {
		return r
	}
	return &ImageRepository{db: tx}
}

// Create inserts the image.
func (r *ImageRepository) Create(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// FindByID loads one image.
func (r *ImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// Delete removes the image.
func (r *ImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductImage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DemotePrimary clears the primary flag on every image of the product.
// Runs inside the promotion transaction so the partial unique index never
// sees two primaries.
func (r *ImageRepository) DemotePrimary(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ? AND is_primary = ?", productID, true).
		Update("is_primary", false).Error
}

// Promote marks the image as the product's primary.
func (r *ImageRepository) Promote(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("id = ?", id).
		Update("is_primary", true).Error
}

// ListByProduct returns the product's gallery, primary first.
func (r *ImageRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	var rows []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_primary DESC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
