// Package domain 定义订单模块的核心实体与仓储接口
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus 订单状态
type OrderStatus string

// 当前只有一次状态迁移：购物车结算后即为 CREATED，订单不可变
const (
	StatusCreated OrderStatus = "CREATED"
)

// OrderItem 订单行，结算时刻的商品快照
type OrderItem struct {
	ID         uint            `json:"id"`
	OrderID    uint            `json:"order_id"`
	ProductID  uint            `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Order 订单聚合根
type Order struct {
	ID          uint            `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UserID      uint            `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"items"`
}

// NewOrder 创建空订单，总额为零
func NewOrder(userID uint) *Order {
	return &Order{
		UserID:      userID,
		Status:      StatusCreated,
		TotalAmount: decimal.Zero,
		Items:       []OrderItem{},
	}
}

// AddItem 追加快照行并累计总额
func (o *Order) AddItem(productID uint, quantity int, unitPrice decimal.Decimal) {
	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	o.Items = append(o.Items, OrderItem{
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: lineTotal,
	})
	o.TotalAmount = o.TotalAmount.Add(lineTotal)
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// WithTx 在单个数据库事务中执行 fn，事务经 context 传递给各仓储
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Save 持久化订单与全部订单行
	Save(ctx context.Context, order *Order) error
	// Get 按 ID 加载订单（含订单行），不存在时返回 nil
	Get(ctx context.Context, id uint) (*Order, error)
	// ListByUser 按创建时间倒序分页返回用户订单
	ListByUser(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)
}
