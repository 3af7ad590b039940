package domain

import (
	"context"
	"time"
)

// 事件类型
const (
	UserRegisteredEventType = "user.registered"
)

// UserRegisteredEvent 用户注册事件
type UserRegisteredEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	// 独立发布
	Publish(ctx context.Context, eventType, key string, event any) error
	// 在给定事务内发布（outbox 行与业务数据同事务提交）
	PublishInTx(ctx context.Context, tx any, eventType, key string, event any) error
}
