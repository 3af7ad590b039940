// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/ecommerce/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 业务指标
	RegistrationsTotal prometheus.Counter
	LoginsTotal        prometheus.Counter
	CheckoutsTotal     *prometheus.CounterVec
	CheckoutDuration   prometheus.Histogram
	OrdersAmount       prometheus.Histogram
	ReviewsTotal       prometheus.Counter
	CartItemsAdded     prometheus.Counter

	// Outbox 指标
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RegistrationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "registrations_total",
			Help:      "Total user registrations",
		}),
		LoginsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "logins_total",
			Help:      "Total successful logins",
		}),
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "checkouts_total",
			Help:      "Total checkout attempts by result",
		}, []string{"result"}),
		CheckoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "checkout_duration_seconds",
			Help:      "Checkout transaction duration",
			Buckets:   prometheus.DefBuckets,
		}),
		OrdersAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "orders_amount",
			Help:      "Order total amount distribution",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		ReviewsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "reviews_total",
			Help:      "Total reviews created",
		}),
		CartItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "cart_items_added_total",
			Help:      "Total cart item additions",
		}),
		OutboxPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "outbox_published_total",
			Help:      "Outbox messages published to Kafka",
		}),
		OutboxFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecommerce",
			Subsystem: serviceName,
			Name:      "outbox_failures_total",
			Help:      "Outbox publish failures",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RegistrationsTotal,
		m.LoginsTotal,
		m.CheckoutsTotal,
		m.CheckoutDuration,
		m.OrdersAmount,
		m.ReviewsTotal,
		m.CartItemsAdded,
		m.OutboxPublished,
		m.OutboxFailures,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// StartHTTPServer 启动独立的指标 HTTP 服务
func StartHTTPServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	go func() {
		addr := fmt.Sprintf(":%d", port)
		logger.Info(context.Background(), "Metrics server listening", "addr", addr, "path", path)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error(context.Background(), "Metrics server error", "error", err)
		}
	}()
	return nil
}
