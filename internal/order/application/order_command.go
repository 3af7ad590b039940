// Package application 包含订单模块的命令与查询服务
package application

import (
	"context"
	"fmt"
	"time"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
)

// OrderCommandService 订单命令服务，承载购物车到订单的结算事务
type OrderCommandService struct {
	orders    domain.OrderRepository
	carts     cartdomain.CartRepository
	products  catalogdomain.ProductRepository
	publisher domain.EventPublisher
}

// NewOrderCommandService 创建订单命令服务实例
func NewOrderCommandService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	products catalogdomain.ProductRepository,
	publisher domain.EventPublisher,
) *OrderCommandService {
	return &OrderCommandService{
		orders:    orders,
		carts:     carts,
		products:  products,
		publisher: publisher,
	}
}

// Checkout 把用户购物车结算为订单
// 校验、扣库存、落订单、清空购物车在同一数据库事务内完成，
// 任一条目校验失败即整体回滚，不产生部分扣减。
func (s *OrderCommandService) Checkout(ctx context.Context, userID uint) (*domain.Order, error) {
	var orderID uint

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		items, err := s.carts.ListByUser(txCtx, userID)
		if err != nil {
			return apperr.Internal("failed to load cart", err)
		}
		if len(items) == 0 {
			return apperr.BadRequest("cart empty")
		}

		order := domain.NewOrder(userID)
		for _, item := range items {
			product, err := s.products.GetActive(txCtx, item.ProductID)
			if err != nil {
				return apperr.Internal("failed to load product", err)
			}
			if product == nil {
				return apperr.BadRequest("product unavailable")
			}
			if product.Stock < item.Quantity {
				return apperr.BadRequest("insufficient stock")
			}
			if !product.HasPrice() {
				return apperr.BadRequest("product price unset")
			}

			// 条件扣减防止并发结算下的丢失更新：只有库存仍然足够才会生效
			ok, err := s.products.DecrementStock(txCtx, product.ID, item.Quantity)
			if err != nil {
				return apperr.Internal("failed to decrement stock", err)
			}
			if !ok {
				return apperr.BadRequest("insufficient stock")
			}

			order.AddItem(product.ID, item.Quantity, product.Price)
		}

		if err := s.orders.Save(txCtx, order); err != nil {
			return apperr.Internal("failed to save order", err)
		}

		if err := s.carts.ClearByUser(txCtx, userID); err != nil {
			return apperr.Internal("failed to clear cart", err)
		}

		event := domain.OrderCreatedEvent{
			OrderID:     order.ID,
			UserID:      userID,
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
			Timestamp:   time.Now(),
		}
		if err := s.publisher.PublishInTx(txCtx, contextx.GetTx(txCtx), domain.OrderCreatedEventType, fmt.Sprintf("%d", order.ID), event); err != nil {
			return apperr.Internal("failed to publish order event", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 提交后重新加载，返回带订单行的完整视图
	order, err := s.orders.Get(ctx, orderID)
	if err != nil || order == nil {
		return nil, apperr.Internal("failed to reload order after checkout", err)
	}

	logging.Info(ctx, "Checkout completed",
		"user_id", userID, "order_id", order.ID, "total_amount", order.TotalAmount.String())
	return order, nil
}
