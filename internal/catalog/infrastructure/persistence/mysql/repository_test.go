package mysql

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/testutil"
	"gorm.io/gorm"
)

func setupProductRepo(t *testing.T) (*gorm.DB, domain.ProductRepository, *domain.Product) {
	t.Helper()
	db := testutil.OpenDB(t, &CategoryModel{}, &ProductModel{})
	ctx := context.Background()

	categories := NewCategoryRepository(db)
	category := domain.NewCategory("general", nil)
	require.NoError(t, categories.Save(ctx, category))

	products := NewProductRepository(db)
	product := domain.NewProduct("p", "", decimal.RequireFromString("10.00"), "", 3, category.ID, 1)
	require.NoError(t, products.Save(ctx, product))
	return db, products, product
}

func TestDecrementStockConditional(t *testing.T) {
	_, products, product := setupProductRepo(t)
	ctx := context.Background()

	ok, err := products.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// 剩余 1，超量扣减不生效
	ok, err = products.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	// 刚好扣完
	ok, err = products.DecrementStock(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	_, products, _ := setupProductRepo(t)

	ok, err := products.DecrementStock(context.Background(), 999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateRatingPersists(t *testing.T) {
	_, products, product := setupProductRepo(t)
	ctx := context.Background()

	require.NoError(t, products.UpdateRating(ctx, product.ID, 3.5))

	got, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, got.Rating, 1e-9)
}
