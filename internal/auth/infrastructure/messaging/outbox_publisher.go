// Package messaging 实现认证模块的 Outbox 事件发布
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxMessage 待转发事件行
type OutboxMessage struct {
	ID        string    `gorm:"type:varchar(36);primary_key"`
	EventType string    `gorm:"type:varchar(100);index"`
	Key       string    `gorm:"type:varchar(100)"`
	Payload   string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);index;default:'pending'"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName 指定表名
func (OutboxMessage) TableName() string { return "auth_outbox_messages" }

// OutboxEventPublisher 把领域事件写入 outbox 表，由转发器送往 Kafka
type OutboxEventPublisher struct {
	db *gorm.DB
}

// NewOutboxEventPublisher 创建 OutboxEventPublisher 实例
func NewOutboxEventPublisher(db *gorm.DB) *OutboxEventPublisher {
	return &OutboxEventPublisher{db: db}
}

// Publish 独立发布
func (p *OutboxEventPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	return p.write(ctx, p.db, eventType, key, event)
}

// PublishInTx 在给定事务内发布
func (p *OutboxEventPublisher) PublishInTx(ctx context.Context, tx any, eventType, key string, event any) error {
	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return errors.New("invalid transaction")
	}
	return p.write(ctx, gormTx, eventType, key, event)
}

func (p *OutboxEventPublisher) write(ctx context.Context, db *gorm.DB, eventType, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := OutboxMessage{
		ID:        uuid.New().String(),
		EventType: eventType,
		Key:       key,
		Payload:   string(payload),
		Status:    "pending",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return db.WithContext(ctx).Create(&message).Error
}
