package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
)

const maxCommentLength = 1000

// productFinder is the slice of the catalog repository reviews need.
type productFinder interface {
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// ReviewDTO is one review with its replies nested one level deep.
type ReviewDTO struct {
	ID        uuid.UUID   `json:"id"`
	ProductID uuid.UUID   `json:"product_id"`
	UserID    uuid.UUID   `json:"user_id"`
	ParentID  *uuid.UUID  `json:"parent_id,omitempty"`
	Rating    int         `json:"rating"`
	Comment   string      `json:"comment"`
	Replies   []ReviewDTO `json:"replies,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreateInput is the validated create payload. A non-nil ParentID makes
// this a reply.
type CreateInput struct {
	ProductID uuid.UUID
	ParentID  *uuid.UUID
	Rating    int
	Comment   string
}

// UpdateInput holds optional mutation values.
type UpdateInput struct {
	Rating  *int
	Comment *string
}

// Actor identifies who is writing. Staff may delete any review.
type Actor struct {
	UserID  uuid.UUID
	IsStaff bool
}

// Service exposes review reads and writes.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateInput) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	Update(ctx context.Context, actor Actor, reviewID uuid.UUID, input UpdateInput) (*ReviewDTO, error)
	Delete(ctx context.Context, actor Actor, reviewID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products productFinder
}

// NewService wires the review service.
func NewService(repo *Repository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews service: repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("reviews service: product finder is required")
	}
	return &service{repo: repo, products: products}, nil
}

// Create writes a top-level review or a reply. A second top-level review by
// the same user on the same product is a conflict; replies are exempt from
// that limit but must target a top-level review on the same product.
func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*ReviewDTO, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	comment, err := validateComment(input.Comment)
	if err != nil {
		return nil, err
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		return nil, s.mapNotFound(err, "product not found")
	}

	if input.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, s.mapNotFound(err, "parent review not found")
		}
		if parent.ProductID != input.ProductID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply must target a review of the same product")
		}
		if parent.ParentID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "replies cannot be nested")
		}
	}

	review, err := s.repo.Create(ctx, &models.Review{
		ProductID: input.ProductID,
		UserID:    actor.UserID,
		ParentID:  input.ParentID,
		Rating:    input.Rating,
		Comment:   comment,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you have already reviewed this product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create review")
	}
	return newReviewDTO(review), nil
}

// ListByProduct returns the product's reviews newest first with replies
// nested.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := s.repo.ListTopLevelByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newReviewDTO(&rows[i]))
	}
	return out, nil
}

// Update edits a review the actor owns.
func (s *service) Update(ctx context.Context, actor Actor, reviewID uuid.UUID, input UpdateInput) (*ReviewDTO, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, s.mapNotFound(err, "review not found")
	}
	if review.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only edit your own reviews")
	}

	rating := review.Rating
	if input.Rating != nil {
		rating = *input.Rating
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	comment := review.Comment
	if input.Comment != nil {
		comment, err = validateComment(*input.Comment)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, reviewID, rating, comment); err != nil {
		return nil, s.mapNotFound(err, "review not found")
	}
	updated, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, s.mapNotFound(err, "review not found")
	}
	return newReviewDTO(updated), nil
}

// Delete removes a review. Owners delete their own; staff delete anything.
func (s *service) Delete(ctx context.Context, actor Actor, reviewID uuid.UUID) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return s.mapNotFound(err, "review not found")
	}
	if !actor.IsStaff && review.UserID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you can only delete your own reviews")
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return s.mapNotFound(err, "review not found")
	}
	return nil
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

func newReviewDTO(review *models.Review) *ReviewDTO {
	dto := &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		ParentID:  review.ParentID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	for i := range review.Replies {
		dto.Replies = append(dto.Replies, *newReviewDTO(&review.Replies[i]))
	}
	return dto
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}

func validateComment(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}
	return comment, nil
}
