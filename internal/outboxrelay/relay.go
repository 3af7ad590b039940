// Package outboxrelay 轮询各模块的 outbox 表并把事件转发到 Kafka
package outboxrelay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"github.com/wyfcoding/ecommerce/pkg/mq"
	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"
)

// 各模块 outbox 表共享同一行结构
var defaultTables = []string{
	"auth_outbox_messages",
	"catalog_outbox_messages",
	"order_outbox_messages",
}

// Message outbox 行的通用视图
type Message struct {
	ID        string
	EventType string
	Key       string
	Payload   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Relay outbox 转发器
type Relay struct {
	db           *gorm.DB
	producer     *mq.KafkaProducer
	metrics      *metrics.Metrics
	tables       []string
	topicPrefix  string
	pollInterval time.Duration
	batchSize    int

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Option 转发器可选配置
type Option func(*Relay)

// WithTables 覆盖默认轮询表
func WithTables(tables []string) Option {
	return func(r *Relay) { r.tables = tables }
}

// WithMetrics 启用指标上报
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Relay) { r.metrics = m }
}

// New 创建转发器实例
func New(db *gorm.DB, producer *mq.KafkaProducer, topicPrefix string, pollInterval time.Duration, batchSize int, opts ...Option) *Relay {
	r := &Relay{
		db:           db,
		producer:     producer,
		tables:       defaultTables,
		topicPrefix:  topicPrefix,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.pollInterval <= 0 {
		r.pollInterval = time.Second
	}
	if r.batchSize <= 0 {
		r.batchSize = 100
	}
	return r
}

// Start 启动后台轮询循环
func (r *Relay) Start(ctx context.Context) {
	go r.loop(ctx)
}

// Stop 停止轮询并等待当前批次完成
func (r *Relay) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

func (r *Relay) loop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			for _, table := range r.tables {
				if err := r.processTable(ctx, table); err != nil {
					logging.Error(ctx, "Outbox relay pass failed", "table", table, "error", err)
				}
			}
		}
	}
}

// processTable 转发一张表的待处理消息
// 发送失败的行保持 pending，由下一轮重试
func (r *Relay) processTable(ctx context.Context, table string) error {
	var messages []Message
	err := r.db.WithContext(ctx).Table(table).
		Where("status = ?", "pending").
		Order("created_at asc").
		Limit(r.batchSize).
		Find(&messages).Error
	if err != nil {
		return err
	}

	for i := range messages {
		if err := r.dispatch(ctx, table, &messages[i]); err != nil {
			if r.metrics != nil {
				r.metrics.OutboxFailures.Inc()
			}
			logging.Warn(ctx, "Failed to dispatch outbox message",
				"table", table, "message_id", messages[i].ID, "error", err)
			continue
		}
		if r.metrics != nil {
			r.metrics.OutboxPublished.Inc()
		}
	}
	return nil
}

func (r *Relay) dispatch(ctx context.Context, table string, msg *Message) error {
	topic := r.topicPrefix + msg.EventType
	if err := r.producer.SendRaw(ctx, topic, msg.Key, []byte(msg.Payload)); err != nil {
		return fmt.Errorf("send to %s: %w", topic, err)
	}

	return r.db.WithContext(ctx).Table(table).
		Where("id = ?", msg.ID).
		Updates(map[string]any{
			"status":     "sent",
			"updated_at": time.Now(),
		}).Error
}
