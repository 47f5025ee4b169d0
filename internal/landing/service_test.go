package landing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modastore/storefront-backend/internal/catalog"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
)

type stubCatalog struct {
	categories  []catalog.CategoryDTO
	bestsellers []catalog.ProductSummaryDTO
	trending    []catalog.ProductSummaryDTO
	arrivals    []catalog.ProductSummaryDTO
	trendingErr error
}

func (s *stubCatalog) ListCategories(context.Context) ([]catalog.CategoryDTO, error) {
	return s.categories, nil
}

func (s *stubCatalog) Bestsellers(context.Context) ([]catalog.ProductSummaryDTO, error) {
	return s.bestsellers, nil
}

func (s *stubCatalog) Trending(context.Context) ([]catalog.ProductSummaryDTO, error) {
	if s.trendingErr != nil {
		return nil, s.trendingErr
	}
	return s.trending, nil
}

func (s *stubCatalog) NewArrivals(context.Context) ([]catalog.ProductSummaryDTO, error) {
	return s.arrivals, nil
}

func TestNewServiceRequiresReader(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestPageAssemblesAllShelves(t *testing.T) {
	stub := &stubCatalog{
		categories:  []catalog.CategoryDTO{{Name: "Shirts"}},
		bestsellers: []catalog.ProductSummaryDTO{{Name: "Linen Shirt"}},
		trending:    []catalog.ProductSummaryDTO{{Name: "Hoodie"}, {Name: "Cap"}},
		arrivals:    []catalog.ProductSummaryDTO{{Name: "New Jacket"}},
	}
	svc, err := NewService(stub)
	require.NoError(t, err)

	page, err := svc.Page(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Categories, 1)
	assert.Len(t, page.Bestsellers, 1)
	assert.Len(t, page.Trending, 2)
	assert.Len(t, page.NewArrivals, 1)
}

func TestPageSurfacesShelfErrors(t *testing.T) {
	svc, err := NewService(&stubCatalog{trendingErr: fmt.Errorf("db down")})
	require.NoError(t, err)

	_, err = svc.Page(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
