package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modastore/storefront-backend/pkg/pagination"
)

func TestListBestsellersDeterministicOrdering(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestProduct(t, conn, "low", productOpts{sales: 1})
	tiedA := mustCreateTestProduct(t, conn, "tied-a", productOpts{sales: 7})
	tiedB := mustCreateTestProduct(t, conn, "tied-b", productOpts{sales: 7})
	top := mustCreateTestProduct(t, conn, "top", productOpts{sales: 20})

	first, err := repo.ListBestsellers(ctx, RankedListLimit)
	require.NoError(t, err)
	require.Len(t, first, 4)
	assert.Equal(t, top.ID, first[0].ID)
	for i := 1; i < len(first); i++ {
		assert.GreaterOrEqual(t, first[i-1].SalesCount, first[i].SalesCount)
	}

	// ties are broken by id, so repeated reads return the identical order
	second, err := repo.ListBestsellers(ctx, RankedListLimit)
	require.NoError(t, err)
	require.Len(t, second, 4)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	wantFirstTied := tiedA.ID
	if tiedB.ID.String() < tiedA.ID.String() {
		wantFirstTied = tiedB.ID
	}
	assert.Equal(t, wantFirstTied, first[1].ID)
}

func TestListBestsellersCapsAtLimit(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)

	for i := 0; i < RankedListLimit+3; i++ {
		mustCreateTestProduct(t, conn, "bulk", productOpts{sales: i})
	}

	rows, err := repo.ListBestsellers(context.Background(), RankedListLimit)
	require.NoError(t, err)
	assert.Len(t, rows, RankedListLimit)
}

func TestListNewArrivalsFiltersUnreleased(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	now := time.Now().UTC()

	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	released := mustCreateTestProduct(t, conn, "released", productOpts{isLaunch: true, releaseDate: &past})
	mustCreateTestProduct(t, conn, "future", productOpts{isLaunch: true, releaseDate: &future})
	mustCreateTestProduct(t, conn, "not-launch", productOpts{isLaunch: false, releaseDate: &past})
	mustCreateTestProduct(t, conn, "no-date", productOpts{isLaunch: true})

	rows, err := repo.ListNewArrivals(context.Background(), now, RankedListLimit)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, released.ID, rows[0].ID)
}

func TestIncrementViews(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateTestProduct(t, conn, "viewed", productOpts{views: 2})

	require.NoError(t, repo.IncrementViews(ctx, product.ID))
	require.NoError(t, repo.IncrementViews(ctx, product.ID))

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.ViewsCount)
}

func TestListFiltersAndPaginates(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	shirts := mustCreateTestCategory(t, conn, "Shirts")
	shoes := mustCreateTestCategory(t, conn, "Shoes")

	for i := 0; i < 12; i++ {
		mustCreateTestProduct(t, conn, "shirt", productOpts{category: &shirts.ID, stock: 5})
	}
	mustCreateTestProduct(t, conn, "sneaker", productOpts{category: &shoes.ID, stock: 5})
	mustCreateTestProduct(t, conn, "sold-out shirt", productOpts{category: &shirts.ID, stock: 0})

	rows, total, err := repo.List(ctx, ListProductsInput{
		Filters:    ProductListFilters{CategoryID: &shirts.ID, InStockOnly: true},
		Pagination: pagination.Params{Page: 2, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, rows, 2)
}

func TestListSearchMatchesNameAndDescription(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestProduct(t, conn, "Linen Shirt", productOpts{})
	mustCreateTestProduct(t, conn, "Plain Tee", productOpts{})

	rows, total, err := repo.List(ctx, ListProductsInput{
		Filters:    ProductListFilters{Query: "Linen"},
		Pagination: pagination.Params{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Linen Shirt", rows[0].Name)
}

func TestListFiltersByTag(t *testing.T) {
	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	cotton := mustCreateTestTag(t, conn, "material", "cotton")
	tagged := mustCreateTestProduct(t, conn, "tagged", productOpts{})
	mustCreateTestProduct(t, conn, "untagged", productOpts{})
	require.NoError(t, conn.Exec(
		"INSERT INTO product_tags (product_id, tag_id) VALUES (?, ?)",
		tagged.ID, cotton.ID,
	).Error)

	rows, total, err := repo.List(ctx, ListProductsInput{
		Filters:    ProductListFilters{TagName: "material"},
		Pagination: pagination.Params{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, tagged.ID, rows[0].ID)
}
