// Package cache 提供 Redis 客户端封装，支持连接池与 JSON 序列化
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

// Config Redis 配置
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	MaxPoolSize  int
	ConnTimeout  int
	ReadTimeout  int
	WriteTimeout int
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client *redis.Client
	config Config
}

// New 创建 Redis 缓存实例
func New(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.MaxPoolSize,
		ConnMaxIdleTime: time.Duration(cfg.ConnTimeout) * time.Second,
		ReadTimeout:     time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:    time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info(context.Background(), "Redis connected successfully", "addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))

	return &RedisCache{client: client, config: cfg}, nil
}

// Get 获取缓存值，key 不存在时返回空串和 nil
func (rc *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		logger.Error(ctx, "Redis Get failed", "key", key, "error", err)
		return "", err
	}
	return val, nil
}

// Set 设置缓存值
func (rc *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := rc.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Error(ctx, "Redis Set failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Delete 删除缓存值
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		logger.Error(ctx, "Redis Delete failed", "keys", keys, "error", err)
		return err
	}
	return nil
}

// GetJSON 获取缓存值并反序列化到 dest，未命中时返回 false
func (rc *RedisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, err := rc.Get(ctx, key)
	if err != nil || val == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化 value 并写入缓存
func (rc *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, string(data), ttl)
}

// GetClient 返回底层客户端
func (rc *RedisCache) GetClient() *redis.Client {
	return rc.client
}

// Close 关闭连接
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
