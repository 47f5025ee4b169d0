package ranking

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
	"github.com/modastore/storefront-backend/pkg/types"
)

// Repository reads and writes the derived ranking columns on products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListBatch returns up to limit products with id greater than after, ordered
// by id so the sweep can walk the table in stable keyset batches.
func (r *Repository) ListBatch(ctx context.Context, after uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	query := r.db.WithContext(ctx).
		Select("id", "price", "sales_count", "views_count").
		Order("id ASC").
		Limit(limit)
	if after != uuid.Nil {
		query = query.Where("id > ?", after)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateDerived writes the recomputed trending score and order summary.
// Nothing on the request path touches these columns, so a blind update is
// safe.
func (r *Repository) UpdateDerived(ctx context.Context, id uuid.UUID, score float64, info types.JSONMap) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"trending_score":        score,
			"aggregated_order_info": info,
		}).Error
}
