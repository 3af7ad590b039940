package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	cartmysql "github.com/wyfcoding/ecommerce/internal/cart/infrastructure/persistence/mysql"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/testutil"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"gorm.io/gorm"
)

type cartFixture struct {
	db       *gorm.DB
	carts    domain.CartRepository
	products catalogdomain.ProductRepository
	cmd      *CartCommandService
	query    *CartQueryService
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	db := testutil.OpenDB(t,
		&catalogmysql.CategoryModel{},
		&catalogmysql.ProductModel{},
		&cartmysql.CartItemModel{},
	)

	carts := cartmysql.NewCartRepository(db)
	products := catalogmysql.NewProductRepository(db)
	return &cartFixture{
		db:       db,
		carts:    carts,
		products: products,
		cmd:      NewCartCommandService(carts, products),
		query:    NewCartQueryService(carts, products),
	}
}

func (f *cartFixture) seedProduct(t *testing.T, price string, stock int) *catalogdomain.Product {
	t.Helper()
	ctx := context.Background()

	categories := catalogmysql.NewCategoryRepository(f.db)
	category := catalogdomain.NewCategory("general", nil)
	require.NoError(t, categories.Save(ctx, category))

	product := catalogdomain.NewProduct("p", "", decimal.RequireFromString(price), "", stock, category.ID, 1)
	require.NoError(t, f.products.Save(ctx, product))
	return product
}

func TestAddItemIncrementsExistingRow(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, "10.00", 100)

	_, err := f.cmd.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	item, err := f.cmd.AddItem(ctx, 1, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)

	items, err := f.carts.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.cmd.AddItem(context.Background(), 1, 999, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestAddItemInactiveProduct(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, "10.00", 100)
	require.NoError(t, f.products.Deactivate(ctx, product.ID))

	_, err := f.cmd.AddItem(ctx, 1, product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUpdateItemReplacesQuantity(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, "10.00", 100)

	_, err := f.cmd.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	item, err := f.cmd.UpdateItem(ctx, 1, product.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)
}

func TestUpdateItemAbsentRow(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, "10.00", 100)

	_, err := f.cmd.UpdateItem(context.Background(), 1, product.ID, 2)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestRemoveItemAbsentRow(t *testing.T) {
	f := newCartFixture(t)
	product := f.seedProduct(t, "10.00", 100)

	err := f.cmd.RemoveItem(context.Background(), 1, product.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestClearIsIdempotent(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, "10.00", 100)

	_, err := f.cmd.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, f.cmd.Clear(ctx, 1))
	require.NoError(t, f.cmd.Clear(ctx, 1))

	items, err := f.carts.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestViewCartTotals(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	cheap := f.seedProduct(t, "5.00", 100)
	dear := f.seedProduct(t, "10.00", 100)

	_, err := f.cmd.AddItem(ctx, 1, cheap.ID, 1)
	require.NoError(t, err)
	_, err = f.cmd.AddItem(ctx, 1, dear.ID, 2)
	require.NoError(t, err)

	view, err := f.query.ViewCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalQuantity)
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("25.00")),
		"total = %s", view.TotalPrice)
}

func TestViewCartSkipsInactiveProducts(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	active := f.seedProduct(t, "5.00", 100)
	gone := f.seedProduct(t, "10.00", 100)

	_, err := f.cmd.AddItem(ctx, 1, active.ID, 1)
	require.NoError(t, err)
	_, err = f.cmd.AddItem(ctx, 1, gone.ID, 2)
	require.NoError(t, err)
	require.NoError(t, f.products.Deactivate(ctx, gone.ID))

	view, err := f.query.ViewCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.TotalQuantity)
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("5.00")))
}
