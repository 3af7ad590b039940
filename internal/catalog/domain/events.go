package domain

import (
	"context"
	"time"
)

// 事件类型
const (
	ProductUpdatedEventType = "product.updated"
)

// ProductUpdatedEvent 商品创建/变更/下架事件
type ProductUpdatedEvent struct {
	ProductID uint      `json:"product_id"`
	SellerID  uint      `json:"seller_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
	PublishInTx(ctx context.Context, tx any, eventType, key string, event any) error
}
