package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/modastore/storefront-backend/internal/catalog"
	"github.com/modastore/storefront-backend/pkg/db"
	"github.com/modastore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(
		NewRepository(conn),
		catalog.NewRepository(conn),
		db.FromConn(conn),
	)
	require.NoError(t, err)
	return svc
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	conn := setupCartTestDB(t)

	_, err := NewService(nil, catalog.NewRepository(conn), db.FromConn(conn))
	require.Error(t, err)
	_, err = NewService(NewRepository(conn), nil, db.FromConn(conn))
	require.Error(t, err)
	_, err = NewService(NewRepository(conn), catalog.NewRepository(conn), nil)
	require.Error(t, err)
}

func TestGetCartCreatesLazily(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()

	first, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.Equal(t, "0.00", first.Total)

	second, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, conn.Model(&models.Cart{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemMergesSameVariant(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Linen Shirt", "49.95", 10)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 2, SelectedColor: "Blue", SelectedSize: "M",
	})
	require.NoError(t, err)

	dto, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 3, SelectedColor: "Blue", SelectedSize: "M",
	})
	require.NoError(t, err)

	require.Len(t, dto.Items, 1)
	assert.Equal(t, 5, dto.Items[0].Quantity)
	assert.Equal(t, 5, dto.ItemCount)
	assert.Equal(t, "249.75", dto.Total)
}

func TestAddItemDifferentSizeGetsOwnLine(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Linen Shirt", "49.95", 10)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 1, SelectedColor: "Blue", SelectedSize: "M",
	})
	require.NoError(t, err)

	dto, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 1, SelectedColor: "Blue", SelectedSize: "L",
	})
	require.NoError(t, err)

	assert.Len(t, dto.Items, 2)
	assert.Equal(t, 2, dto.ItemCount)
}

func TestAddItemNormalizesBlankVariant(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Beanie", "15.00", 10)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 1,
	})
	require.NoError(t, err)

	dto, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 1, SelectedColor: "Default", SelectedSize: "Default",
	})
	require.NoError(t, err)

	require.Len(t, dto.Items, 1)
	assert.Equal(t, 2, dto.Items[0].Quantity)
	assert.Equal(t, "Default", dto.Items[0].SelectedColor)
	assert.Equal(t, "Default", dto.Items[0].SelectedSize)
}

func TestAddItemRejectsMergeBeyondStock(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Limited Cap", "25.00", 5)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 3,
	})
	require.NoError(t, err)

	_, err = svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 3,
	})
	requireCode(t, err, pkgerrors.CodeInsufficientStock)

	// Failed merge leaves the original line untouched.
	dto, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
}

func TestAddItemValidation(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: uuid.New(), Quantity: 0,
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: uuid.New(), Quantity: 1,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateItemSetsAbsoluteQuantity(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Hoodie", "80.00", 4)

	dto, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 1,
	})
	require.NoError(t, err)
	lineID := dto.Items[0].CartItemID

	dto, err = svc.UpdateItem(context.Background(), userID, UpdateItemInput{
		CartItemID: lineID, Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, dto.Items[0].Quantity)

	_, err = svc.UpdateItem(context.Background(), userID, UpdateItemInput{
		CartItemID: lineID, Quantity: 5,
	})
	requireCode(t, err, pkgerrors.CodeInsufficientStock)

	_, err = svc.UpdateItem(context.Background(), userID, UpdateItemInput{
		CartItemID: lineID, Quantity: 0,
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateItemScopedToOwnCart(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	owner := uuid.New()
	other := uuid.New()
	product := mustCreateCartProduct(t, conn, "Hoodie", "80.00", 10)

	dto, err := svc.AddItem(context.Background(), owner, AddItemInput{
		ProductID: product.ID, Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), other, UpdateItemInput{
		CartItemID: dto.Items[0].CartItemID, Quantity: 2,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.RemoveItem(context.Background(), other, dto.Items[0].CartItemID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveItem(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Socks", "9.00", 10)

	dto, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 2,
	})
	require.NoError(t, err)

	dto, err = svc.RemoveItem(context.Background(), userID, dto.Items[0].CartItemID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	assert.Equal(t, "0.00", dto.Total)

	_, err = svc.RemoveItem(context.Background(), userID, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestClearIsIdempotent(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Socks", "9.00", 10)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 2,
	})
	require.NoError(t, err)

	dto, err := svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	dto, err = svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func TestCartTotalTracksLivePrice(t *testing.T) {
	conn := setupCartTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	product := mustCreateCartProduct(t, conn, "Jacket", "100.00", 10)

	_, err := svc.AddItem(context.Background(), userID, AddItemInput{
		ProductID: product.ID, Quantity: 2,
	})
	require.NoError(t, err)

	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("120.00")).Error)

	dto, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "120.00", dto.Items[0].Price)
	assert.Equal(t, "240.00", dto.Total)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
