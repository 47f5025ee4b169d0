package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db/models"
)

// Repository wires together product persistence for the catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the product with its tag associations.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the provided product.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product; line-item snapshots keep their copied fields.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads the product with category, tags, and images.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Images").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// IncrementViews bumps views_count without touching updated_at. The derived
// trending score is only recomputed by the ranking sweep.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// ConsumeStock atomically decrements stock and bumps sales_count, but only
// when enough stock remains. Returns false when the guard fails so callers
// can roll back.
func (r *Repository) ConsumeStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND current_stock >= ?", id, quantity).
		UpdateColumns(map[string]any{
			"current_stock": gorm.Expr("current_stock - ?", quantity),
			"sales_count":   gorm.Expr("sales_count + ?", quantity),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List returns one filtered page of products plus the unpaged total.
func (r *Repository) List(ctx context.Context, input ListProductsInput) ([]models.Product, int64, error) {
	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), input.Filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Category").
		Preload("Images").
		Order(orderClause(input.Sort)).
		Offset(input.Pagination.Offset()).
		Limit(input.Pagination.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) applyFilters(query *gorm.DB, filters ProductListFilters) *gorm.DB {
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.TagName != "" {
		query = query.Where(
			"id IN (SELECT product_id FROM product_tags JOIN tags ON tags.id = product_tags.tag_id WHERE tags.name = ?)",
			filters.TagName,
		)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if filters.PriceMin != nil {
		query = query.Where("price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("price <= ?", *filters.PriceMax)
	}
	if filters.InStockOnly {
		query = query.Where("current_stock > 0")
	}
	return query
}

// ListBestsellers returns the top products by lifetime sales. The id
// tie-break keeps the shelf stable between refreshes.
func (r *Repository) ListBestsellers(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listRanked(ctx, "sales_count DESC, id ASC", limit, nil)
}

// ListTrending returns the top products by the derived trending score.
func (r *Repository) ListTrending(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listRanked(ctx, "trending_score DESC, id ASC", limit, nil)
}

// ListNewArrivals returns launch products whose release date has passed,
// newest first.
func (r *Repository) ListNewArrivals(ctx context.Context, now time.Time, limit int) ([]models.Product, error) {
	return r.listRanked(ctx, "release_date DESC, id ASC", limit, func(query *gorm.DB) *gorm.DB {
		return query.Where("is_launch = ? AND release_date IS NOT NULL AND release_date <= ?", true, now)
	})
}

func (r *Repository) listRanked(ctx context.Context, order string, limit int, scope func(*gorm.DB) *gorm.DB) ([]models.Product, error) {
	if limit <= 0 {
		limit = RankedListLimit
	}
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Order(order).
		Limit(limit)
	if scope != nil {
		query = scope(query)
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceTags replaces the product's tag associations.
func (r *Repository) ReplaceTags(ctx context.Context, product *models.Product, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(product).Association("Tags").Replace(tags)
}
