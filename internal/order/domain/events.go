package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedEventType 订单创建事件类型
const OrderCreatedEventType = "order.created"

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderID     uint            `json:"order_id"`
	UserID      uint            `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	Timestamp   time.Time       `json:"timestamp"`
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
	PublishInTx(ctx context.Context, tx any, eventType, key string, event any) error
}
