package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	cartmysql "github.com/wyfcoding/ecommerce/internal/cart/infrastructure/persistence/mysql"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	orderdomain "github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/mysql"
	"github.com/wyfcoding/ecommerce/internal/testutil"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	db       *gorm.DB
	carts    cartdomain.CartRepository
	products catalogdomain.ProductRepository
	orders   orderdomain.OrderRepository
	service  *OrderCommandService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	db := testutil.OpenDB(t,
		&catalogmysql.CategoryModel{},
		&catalogmysql.ProductModel{},
		&cartmysql.CartItemModel{},
		&ordermysql.OrderModel{},
		&ordermysql.OrderItemModel{},
		&messaging.OutboxMessage{},
	)

	carts := cartmysql.NewCartRepository(db)
	products := catalogmysql.NewProductRepository(db)
	orders := ordermysql.NewOrderRepository(db)
	publisher := messaging.NewOutboxEventPublisher(db)

	return &checkoutFixture{
		db:       db,
		carts:    carts,
		products: products,
		orders:   orders,
		service:  NewOrderCommandService(orders, carts, products, publisher),
	}
}

func (f *checkoutFixture) seedProduct(t *testing.T, name, price string, stock int) *catalogdomain.Product {
	t.Helper()
	ctx := context.Background()

	categories := catalogmysql.NewCategoryRepository(f.db)
	category := catalogdomain.NewCategory("general", nil)
	require.NoError(t, categories.Save(ctx, category))

	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	product := catalogdomain.NewProduct(name, "", p, "", stock, category.ID, 1)
	require.NoError(t, f.products.Save(ctx, product))
	return product
}

func (f *checkoutFixture) addToCart(t *testing.T, userID, productID uint, qty int) {
	t.Helper()
	require.NoError(t, f.carts.Save(context.Background(), &cartdomain.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}))
}

func TestCheckoutSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	productX := f.seedProduct(t, "X", "10.00", 5)
	productY := f.seedProduct(t, "Y", "5.00", 1)
	f.addToCart(t, 1, productX.ID, 2)
	f.addToCart(t, 1, productY.ID, 1)

	order, err := f.service.Checkout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.00")),
		"total = %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 2, order.Items[0].Quantity)

	// 库存已扣减
	x, err := f.products.Get(ctx, productX.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, x.Stock)
	y, err := f.products.Get(ctx, productY.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, y.Stock)

	// 购物车已清空
	items, err := f.carts.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	// outbox 行已写入
	var count int64
	require.NoError(t, f.db.Table("order_outbox_messages").
		Where("event_type = ? AND status = ?", "order.created", "pending").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Checkout(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	productX := f.seedProduct(t, "X", "10.00", 5)
	productY := f.seedProduct(t, "Y", "5.00", 0)
	f.addToCart(t, 1, productX.ID, 2)
	f.addToCart(t, 1, productY.ID, 1)

	_, err := f.service.Checkout(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	// 无部分扣减
	x, err := f.products.Get(ctx, productX.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, x.Stock)

	// 购物车原样保留
	items, err := f.carts.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// 无订单落库
	var count int64
	require.NoError(t, f.db.Table("orders").Count(&count).Error)
	assert.Zero(t, count)
}

func TestCheckoutInactiveProduct(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "X", "10.00", 5)
	f.addToCart(t, 1, product.ID, 1)
	require.NoError(t, f.products.Deactivate(ctx, product.ID))

	_, err := f.service.Checkout(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}
