package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/ecommerce/pkg/apperr"
)

// OrderPage 订单分页结果
type OrderPage struct {
	Items    []*domain.Order `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	orders domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(orders domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// ListOrders 按创建时间倒序分页返回用户订单
func (s *OrderQueryService) ListOrders(ctx context.Context, userID uint, page, pageSize int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	orders, total, err := s.orders.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, apperr.Internal("failed to list orders", err)
	}
	return &OrderPage{
		Items:    orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetOrder 查询用户自己的订单，他人订单视同不存在
func (s *OrderQueryService) GetOrder(ctx context.Context, userID, orderID uint) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal("failed to load order", err)
	}
	if order == nil || order.UserID != userID {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}
