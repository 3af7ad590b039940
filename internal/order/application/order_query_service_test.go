package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
)

func TestGetOrderOwnership(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "X", "10.00", 5)
	f.addToCart(t, 1, product.ID, 1)
	order, err := f.service.Checkout(ctx, 1)
	require.NoError(t, err)

	query := NewOrderQueryService(f.orders)

	got, err := query.GetOrder(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// 他人订单视同不存在
	_, err = query.GetOrder(ctx, 2, order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = query.GetOrder(ctx, 1, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestListOrdersPagination(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	product := f.seedProduct(t, "X", "10.00", 100)
	for i := 0; i < 3; i++ {
		f.addToCart(t, 1, product.ID, 1)
		_, err := f.service.Checkout(ctx, 1)
		require.NoError(t, err)
	}

	query := NewOrderQueryService(f.orders)

	page, err := query.ListOrders(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)

	page, err = query.ListOrders(ctx, 1, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	// 其他用户为空
	page, err = query.ListOrders(ctx, 2, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}
