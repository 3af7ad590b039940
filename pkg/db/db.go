// Package db 提供 GORM 初始化、连接池配置与事务助手
package db

import (
	"context"
	"fmt"
	"time"

	pkgLogger "github.com/wyfcoding/ecommerce/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 数据库配置
type Config struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    int
	LogEnabled         bool
	SlowQueryThreshold int
}

// DB 数据库实例包装
type DB struct {
	*gorm.DB
	config Config
}

// Init 初始化数据库连接
func Init(cfg Config) (*DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormLogger := NewGormLogger(cfg.LogEnabled, time.Duration(cfg.SlowQueryThreshold)*time.Millisecond)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pkgLogger.Info(context.Background(), "Database connected successfully", "driver", cfg.Driver)

	return &DB{DB: db, config: cfg}, nil
}

// Close 关闭数据库连接
func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx 在事务中执行函数，出错时回滚
func (d *DB) WithTx(ctx context.Context, fn func(*gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}

// GormLogger GORM 日志记录器实现
type GormLogger struct {
	enabled            bool
	slowQueryThreshold time.Duration
}

// NewGormLogger 创建 GORM 日志记录器
func NewGormLogger(enabled bool, slowQueryThreshold time.Duration) *GormLogger {
	return &GormLogger{enabled: enabled, slowQueryThreshold: slowQueryThreshold}
}

// LogMode 设置日志模式
func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

// Info 记录信息日志
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.enabled {
		pkgLogger.Info(ctx, msg, "data", data)
	}
}

// Warn 记录警告日志
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	pkgLogger.Warn(ctx, msg, "data", data)
}

// Error 记录错误日志
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	pkgLogger.Error(ctx, msg, "data", data)
}

// Trace 记录 SQL 执行日志
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if !l.enabled {
		return
	}

	elapsed := time.Since(begin)
	sqlStr, rows := fc()

	args := []interface{}{
		"duration", elapsed,
		"rows", rows,
		"sql", sqlStr,
	}

	switch {
	case err != nil:
		args = append(args, "error", err)
		pkgLogger.Error(ctx, "SQL execution failed", args...)
	case elapsed > l.slowQueryThreshold:
		pkgLogger.Warn(ctx, "Slow query detected", args...)
	default:
		pkgLogger.Debug(ctx, "SQL executed", args...)
	}
}
