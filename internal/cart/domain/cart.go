// Package domain 定义购物车模块的核心实体与仓储接口
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 购物车条目，同一用户同一商品唯一
type CartItem struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CartLine 购物车视图中的一行，价格来自商品当前标价
type CartLine struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartView 购物车汇总视图
type CartView struct {
	Items         []CartLine      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// NewCartView 构建空视图，总价为零
func NewCartView() *CartView {
	return &CartView{
		Items:      []CartLine{},
		TotalPrice: decimal.Zero,
	}
}

// AddLine 追加一行并累计数量与总价
func (v *CartView) AddLine(line CartLine) {
	v.Items = append(v.Items, line)
	v.TotalQuantity += line.Quantity
	v.TotalPrice = v.TotalPrice.Add(line.LineTotal)
}

// CartRepository 购物车仓储接口
type CartRepository interface {
	// Get 返回用户对指定商品的条目，不存在时返回 nil
	Get(ctx context.Context, userID, productID uint) (*CartItem, error)
	// Save 新建或更新条目
	Save(ctx context.Context, item *CartItem) error
	// Delete 删除条目，不存在时不报错
	Delete(ctx context.Context, userID, productID uint) error
	// ListByUser 按加入顺序（行 ID 升序）返回用户的全部条目
	ListByUser(ctx context.Context, userID uint) ([]*CartItem, error)
	// ClearByUser 清空用户的购物车，幂等
	ClearByUser(ctx context.Context, userID uint) error
}
