package landing

import (
	"context"
	"fmt"

	"github.com/modastore/storefront-backend/internal/catalog"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
)

// catalogReader is the slice of the catalog service the landing page needs.
type catalogReader interface {
	ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error)
	Bestsellers(ctx context.Context) ([]catalog.ProductSummaryDTO, error)
	Trending(ctx context.Context) ([]catalog.ProductSummaryDTO, error)
	NewArrivals(ctx context.Context) ([]catalog.ProductSummaryDTO, error)
}

// PageDTO is the one-call landing payload the storefront renders above the
// fold.
type PageDTO struct {
	Categories  []catalog.CategoryDTO       `json:"categories"`
	Bestsellers []catalog.ProductSummaryDTO `json:"bestsellers"`
	Trending    []catalog.ProductSummaryDTO `json:"trending"`
	NewArrivals []catalog.ProductSummaryDTO `json:"new_arrivals"`
}

// Service assembles the landing page payload.
type Service interface {
	Page(ctx context.Context) (*PageDTO, error)
}

type service struct {
	catalog catalogReader
}

// NewService wires the landing service.
func NewService(reader catalogReader) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("landing service: catalog reader is required")
	}
	return &service{catalog: reader}, nil
}

// Page gathers categories plus the three ranked shelves.
func (s *service) Page(ctx context.Context) (*PageDTO, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, s.wrap(err, "landing: categories")
	}
	bestsellers, err := s.catalog.Bestsellers(ctx)
	if err != nil {
		return nil, s.wrap(err, "landing: bestsellers")
	}
	trending, err := s.catalog.Trending(ctx)
	if err != nil {
		return nil, s.wrap(err, "landing: trending")
	}
	arrivals, err := s.catalog.NewArrivals(ctx)
	if err != nil {
		return nil, s.wrap(err, "landing: new arrivals")
	}

	return &PageDTO{
		Categories:  categories,
		Bestsellers: bestsellers,
		Trending:    trending,
		NewArrivals: arrivals,
	}, nil
}

func (s *service) wrap(err error, message string) error {
	if existing := pkgerrors.As(err); existing != nil {
		return existing
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
