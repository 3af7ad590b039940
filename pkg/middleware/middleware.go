// Package middleware 提供 Gin 通用中间件（日志、panic recover、CORS、限流）
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
)

// RequestIDKey context key for request ID
const RequestIDKey = "request_id"

// GinLoggingMiddleware Gin 日志中间件
func GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)

		ctx := logger.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info(ctx, "HTTP request completed",
			"request_id", requestID,
			"method", method,
			"path", path,
			"client_ip", c.ClientIP(),
			"status_code", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// GinMetricsMiddleware 记录 HTTP 请求指标
func GinMetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// GinRecoveryMiddleware Gin panic 恢复中间件
func GinRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID, _ := c.Get(RequestIDKey)
				logger.Error(c.Request.Context(), "HTTP request panicked",
					"request_id", requestID,
					"panic", err,
				)
				c.AbortWithStatusJSON(500, gin.H{
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}()
		c.Next()
	}
}

// GinCORSMiddleware Gin CORS 中间件
func GinCORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
