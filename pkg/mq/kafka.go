// Package mq 提供 Kafka producer 通用实现，供 outbox 转发器使用
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Brokers      []string
	MaxRetries   int
	RetryBackoff int
}

// KafkaProducer Kafka 生产者
type KafkaProducer struct {
	writer *kafka.Writer
	config KafkaConfig
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers must not be empty")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteBackoffMin:        time.Duration(cfg.RetryBackoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(cfg.RetryBackoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "Kafka producer created successfully", "brokers", cfg.Brokers)
	return &KafkaProducer{writer: writer, config: cfg}, nil
}

// SendMessage 发送单条消息，value 会被序列化为 JSON
func (kp *KafkaProducer) SendMessage(ctx context.Context, topic string, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return kp.SendRaw(ctx, topic, key, data)
}

// SendRaw 发送已序列化的消息体
func (kp *KafkaProducer) SendRaw(ctx context.Context, topic string, key string, value []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "Failed to send Kafka message",
			"topic", topic,
			"key", key,
			"error", err,
		)
		return err
	}

	logger.Debug(ctx, "Kafka message sent", "topic", topic, "key", key)
	return nil
}

// Close 关闭生产者
func (kp *KafkaProducer) Close() error {
	return kp.writer.Close()
}
