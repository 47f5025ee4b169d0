package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
	"github.com/modastore/storefront-backend/pkg/pagination"
)

// Service exposes catalog browsing plus staff management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	Bestsellers(ctx context.Context) ([]ProductSummaryDTO, error)
	Trending(ctx context.Context) ([]ProductSummaryDTO, error)
	NewArrivals(ctx context.Context) ([]ProductSummaryDTO, error)

	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	CreateTag(ctx context.Context, input TagInput) (*TagDTO, error)
	DeleteTag(ctx context.Context, tagID uuid.UUID) error
	ListTags(ctx context.Context) ([]TagDTO, error)

	AddImage(ctx context.Context, input AddImageInput) (*ProductImageDTO, error)
	SetPrimaryImage(ctx context.Context, imageID uuid.UUID) error
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   *uuid.UUID
	TagIDs       []uuid.UUID
	CurrentStock int
	IsLaunch     bool
	ReleaseDate  *time.Time
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	CategoryID    *uuid.UUID
	ClearCategory bool
	TagIDs        *[]uuid.UUID
	CurrentStock  *int
	IsLaunch      *bool
	ReleaseDate   *time.Time
}

// CategoryInput holds the category payload.
type CategoryInput struct {
	Name        string
	Description *string
	Slug        *string
}

// TagInput holds the tag payload.
type TagInput struct {
	Name  string
	Value string
}

// AddImageInput holds the image payload.
type AddImageInput struct {
	ProductID uuid.UUID
	ImageURL  string
	MediaType string
	AltText   string
	IsPrimary bool
}

type service struct {
	repo         *Repository
	categoryRepo *CategoryRepository
	tagRepo      *TagRepository
	imageRepo    *ImageRepository
	dbClient     *db.Client
	now          func() time.Time
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, categoryRepo *CategoryRepository, tagRepo *TagRepository, imageRepo *ImageRepository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if categoryRepo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if tagRepo == nil {
		return nil, fmt.Errorf("tag repository required")
	}
	if imageRepo == nil {
		return nil, fmt.Errorf("image repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:         repo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		imageRepo:    imageRepo,
		dbClient:     dbClient,
		now:          time.Now,
	}, nil
}

// CreateProduct validates and inserts the product with its tags.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CurrentStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "current_stock cannot be negative")
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, s.mapNotFound(err, "category not found")
		}
	}

	tags, err := s.resolveTags(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product := &models.Product{
			CategoryID:   input.CategoryID,
			Name:         input.Name,
			Description:  input.Description,
			Price:        input.Price,
			CurrentStock: input.CurrentStock,
			IsLaunch:     input.IsLaunch,
			ReleaseDate:  input.ReleaseDate,
			Tags:         tags,
		}
		created, err := txRepo.Create(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product, err := s.repo.FindByID(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// UpdateProduct applies the provided mutations.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, s.mapNotFound(err, "product not found")
	}

	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CurrentStock != nil && *input.CurrentStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "current_stock cannot be negative")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ClearCategory {
		product.CategoryID = nil
		product.Category = nil
	} else if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			return nil, s.mapNotFound(err, "category not found")
		}
		product.CategoryID = input.CategoryID
		product.Category = nil
	}
	if input.CurrentStock != nil {
		product.CurrentStock = *input.CurrentStock
	}
	if input.IsLaunch != nil {
		product.IsLaunch = *input.IsLaunch
	}
	if input.ReleaseDate != nil {
		product.ReleaseDate = input.ReleaseDate
	}

	var newTags []models.Tag
	if input.TagIDs != nil {
		newTags, err = s.resolveTags(ctx, *input.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product.Tags = nil
		if _, err := txRepo.Update(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if input.TagIDs != nil {
			if err := txRepo.ReplaceTags(ctx, product, newTags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product tags")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes the product.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		return s.mapNotFound(err, "product not found")
	}
	return nil
}

// GetProduct returns the product detail and bumps the view counter. The
// trending score itself is only recomputed by the async sweep.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, s.mapNotFound(err, "product not found")
	}
	if err := s.repo.IncrementViews(ctx, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment views")
	}
	product.ViewsCount++
	return NewProductDTO(product), nil
}

// ListProducts returns one filtered, sorted page.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	rows, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	items := make([]ProductSummaryDTO, 0, len(rows))
	for i := range rows {
		items = append(items, NewProductSummaryDTO(&rows[i]))
	}
	return &ProductListResult{
		Items: items,
		Page:  pagination.Build(input.Pagination, total),
	}, nil
}

// Bestsellers returns the top shelf by lifetime sales.
func (s *service) Bestsellers(ctx context.Context) ([]ProductSummaryDTO, error) {
	rows, err := s.repo.ListBestsellers(ctx, RankedListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bestsellers")
	}
	return summarize(rows), nil
}

// Trending returns the top shelf by derived trending score.
func (s *service) Trending(ctx context.Context) ([]ProductSummaryDTO, error) {
	rows, err := s.repo.ListTrending(ctx, RankedListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list trending")
	}
	return summarize(rows), nil
}

// NewArrivals returns released launch products, newest first.
func (s *service) NewArrivals(ctx context.Context) ([]ProductSummaryDTO, error) {
	rows, err := s.repo.ListNewArrivals(ctx, s.now().UTC(), RankedListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list new arrivals")
	}
	return summarize(rows), nil
}

// CreateCategory inserts a category; duplicate names conflict.
func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category, err := s.categoryRepo.Create(ctx, &models.Category{
		Name:        input.Name,
		Description: input.Description,
		Slug:        input.Slug,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return NewCategoryDTO(category), nil
}

// UpdateCategory renames or redescribes a category.
func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, s.mapNotFound(err, "category not found")
	}
	if strings.TrimSpace(input.Name) != "" {
		category.Name = input.Name
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.Slug != nil {
		category.Slug = input.Slug
	}
	updated, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return NewCategoryDTO(updated), nil
}

// DeleteCategory removes the category; its products fall back to NULL.
func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return s.mapNotFound(err, "category not found")
	}
	return nil
}

// ListCategories returns every category.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewCategoryDTO(&rows[i]))
	}
	return out, nil
}

// CreateTag inserts a tag.
func (s *service) CreateTag(ctx context.Context, input TagInput) (*TagDTO, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Value) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tag name and value are required")
	}
	tag, err := s.tagRepo.Create(ctx, &models.Tag{Name: input.Name, Value: input.Value})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert tag")
	}
	dto := NewTagDTO(tag)
	return &dto, nil
}

// DeleteTag removes the tag.
func (s *service) DeleteTag(ctx context.Context, tagID uuid.UUID) error {
	if err := s.tagRepo.Delete(ctx, tagID); err != nil {
		return s.mapNotFound(err, "tag not found")
	}
	return nil
}

// ListTags returns every tag.
func (s *service) ListTags(ctx context.Context) ([]TagDTO, error) {
	rows, err := s.tagRepo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list tags")
	}
	out := make([]TagDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewTagDTO(&rows[i]))
	}
	return out, nil
}

// AddImage attaches an image; promoting to primary demotes the previous one
// in the same transaction.
func (s *service) AddImage(ctx context.Context, input AddImageInput) (*ProductImageDTO, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}
	if _, err := s.repo.FindByID(ctx, input.ProductID); err != nil {
		return nil, s.mapNotFound(err, "product not found")
	}

	image := &models.ProductImage{
		ProductID: input.ProductID,
		ImageURL:  input.ImageURL,
		MediaType: mediaTypeOrDefault(input.MediaType),
		AltText:   altTextOrDefault(input.AltText),
		IsPrimary: input.IsPrimary,
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txImages := s.imageRepo.WithTx(tx)
		if input.IsPrimary {
			if err := txImages.DemotePrimary(ctx, input.ProductID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: demote primary image")
			}
		}
		if _, err := txImages.Create(ctx, image); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert image")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add image")
	}
	dto := NewProductImageDTO(image)
	return &dto, nil
}

// SetPrimaryImage promotes the image and demotes the current primary.
func (s *service) SetPrimaryImage(ctx context.Context, imageID uuid.UUID) error {
	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		return s.mapNotFound(err, "image not found")
	}
	if image.IsPrimary {
		return nil
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txImages := s.imageRepo.WithTx(tx)
		if err := txImages.DemotePrimary(ctx, image.ProductID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: demote primary image")
		}
		if err := txImages.Promote(ctx, imageID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote image")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set primary image")
	}
	return nil
}

// DeleteImage removes the image.
func (s *service) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return s.mapNotFound(err, "image not found")
	}
	return nil
}

func (s *service) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load tags")
	}
	if len(tags) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more tags do not exist")
	}
	return tags, nil
}

func (s *service) mapNotFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	if existing := pkgerrors.As(err); existing != nil {
		return existing
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db lookup failed")
}

func summarize(rows []models.Product) []ProductSummaryDTO {
	out := make([]ProductSummaryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductSummaryDTO(&rows[i]))
	}
	return out
}

func mediaTypeOrDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return "image"
	}
	return value
}

func altTextOrDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Image"
	}
	return value
}
