// 电商后端主程序
// 功能：用户认证、商品目录、购物车、订单结算、商品评价
// 架构：基于 DDD + Gin + GORM + Kafka Outbox
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	authapp "github.com/wyfcoding/ecommerce/internal/auth/application"
	authmessaging "github.com/wyfcoding/ecommerce/internal/auth/infrastructure/messaging"
	authmysql "github.com/wyfcoding/ecommerce/internal/auth/infrastructure/persistence/mysql"
	authhttp "github.com/wyfcoding/ecommerce/internal/auth/interfaces/http"
	cartapp "github.com/wyfcoding/ecommerce/internal/cart/application"
	cartmysql "github.com/wyfcoding/ecommerce/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/ecommerce/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/ecommerce/internal/catalog/application"
	catalogmessaging "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/messaging"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/ecommerce/internal/catalog/interfaces/http"
	orderapp "github.com/wyfcoding/ecommerce/internal/order/application"
	ordermessaging "github.com/wyfcoding/ecommerce/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/ecommerce/internal/order/interfaces/http"
	"github.com/wyfcoding/ecommerce/internal/outboxrelay"
	reviewapp "github.com/wyfcoding/ecommerce/internal/review/application"
	reviewmysql "github.com/wyfcoding/ecommerce/internal/review/infrastructure/persistence/mysql"
	reviewhttp "github.com/wyfcoding/ecommerce/internal/review/interfaces/http"
	"github.com/wyfcoding/ecommerce/pkg/cache"
	"github.com/wyfcoding/ecommerce/pkg/config"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/mq"
	"github.com/wyfcoding/ecommerce/pkg/ratelimit"
)

func main() {
	// 1. 加载配置
	configPath := os.Getenv("ECOM_CONFIG")
	if configPath == "" {
		configPath = "configs/server/config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting ecommerce server",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化数据库
	dbCfg := db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	}
	database, err := db.Init(dbCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&authmysql.UserModel{},
		&catalogmysql.CategoryModel{},
		&catalogmysql.ProductModel{},
		&cartmysql.CartItemModel{},
		&ordermysql.OrderModel{},
		&ordermysql.OrderItemModel{},
		&reviewmysql.ReviewModel{},
		&authmessaging.OutboxMessage{},
		&catalogmessaging.OutboxMessage{},
		&ordermessaging.OutboxMessage{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database", "error", err)
	}

	// 4. 初始化 Redis
	redisCfg := cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}
	redisCache, err := cache.New(redisCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
	}
	defer redisCache.Close()

	// 5. 初始化 Kafka 生产者
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Kafka producer", "error", err)
	}
	defer producer.Close()

	// 6. 初始化限流器
	rateLimiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient())

	// 7. 初始化仓储
	userRepo := authmysql.NewUserRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	productRepo := catalogmysql.NewProductRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	reviewRepo := reviewmysql.NewReviewRepository(database.DB)

	authPublisher := authmessaging.NewOutboxEventPublisher(database.DB)
	catalogPublisher := catalogmessaging.NewOutboxEventPublisher(database.DB)
	orderPublisher := ordermessaging.NewOutboxEventPublisher(database.DB)

	// 8. 初始化应用服务
	tokenService := authapp.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	authCmd := authapp.NewAuthCommandService(userRepo, tokenService, authPublisher)
	authQuery := authapp.NewAuthQueryService(userRepo, tokenService)

	productTTL := time.Duration(cfg.Redis.ProductTTL) * time.Second
	catalogCmd := catalogapp.NewCatalogCommandService(categoryRepo, productRepo, redisCache, catalogPublisher)
	catalogQuery := catalogapp.NewCatalogQueryService(categoryRepo, productRepo, redisCache, productTTL)

	cartCmd := cartapp.NewCartCommandService(cartRepo, productRepo)
	cartQuery := cartapp.NewCartQueryService(cartRepo, productRepo)

	orderCmd := orderapp.NewOrderCommandService(orderRepo, cartRepo, productRepo, orderPublisher)
	orderQuery := orderapp.NewOrderQueryService(orderRepo)

	reviewCmd := reviewapp.NewReviewCommandService(reviewRepo, productRepo)
	reviewQuery := reviewapp.NewReviewQueryService(reviewRepo)

	// 9. 初始化指标
	metricsInstance := metrics.New(cfg.ServiceName)
	if err := metricsInstance.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}
	if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
		logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
	}

	// 10. 启动 outbox 转发器
	relay := outboxrelay.New(
		database.DB,
		producer,
		cfg.Outbox.TopicPrefix,
		time.Duration(cfg.Outbox.PollInterval)*time.Millisecond,
		cfg.Outbox.BatchSize,
		outboxrelay.WithMetrics(metricsInstance),
	)
	relayCtx, relayCancel := context.WithCancel(ctx)
	relay.Start(relayCtx)

	// 11. 创建 HTTP 服务器
	authMW := authhttp.AuthMiddleware(authQuery)
	router := gin.New()
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinMetricsMiddleware(metricsInstance))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(rateLimiter, cfg.RateLimit))
	}

	root := &router.RouterGroup
	authhttp.NewAuthHandler(authCmd, authQuery).RegisterRoutes(root)
	cataloghttp.NewCatalogHandler(catalogCmd, catalogQuery, authMW).RegisterRoutes(root)
	carthttp.NewCartHandler(cartCmd, cartQuery, authMW).RegisterRoutes(root)
	orderhttp.NewOrderHandler(orderCmd, orderQuery, authMW, metricsInstance).RegisterRoutes(root)
	reviewhttp.NewReviewHandler(reviewCmd, reviewQuery, authMW).RegisterRoutes(root)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 12. 启动 HTTP 服务器
	go func() {
		logger.Info(ctx, "Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 13. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down ecommerce server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	relayCancel()
	relay.Stop()

	logger.Info(ctx, "Ecommerce server stopped")
}
