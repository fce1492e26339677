package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"shop-api/catalog"
	"shop-api/config"
	"shop-api/consumers"
	"shop-api/controllers"
	"shop-api/database"
	"shop-api/middlewares"
	"shop-api/payment"
	"shop-api/rabbitmq"
	"shop-api/services"
	"shop-api/stores"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig()

	// 初始化数据库
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// 可选的产品目录缓存
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	catalogStore := stores.NewCatalogStore(db, cache)
	orderStore := stores.NewOrderStore(db)

	// 启动时加载产品目录（幂等）
	bootstrapCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := catalog.Bootstrap(bootstrapCtx, catalogStore, cfg.CatalogURL); err != nil {
		cancel()
		log.Fatalf("Catalog bootstrap failed: %v", err)
	}
	cancel()

	gateway := payment.NewClient(cfg.PaymentGatewayURL, time.Duration(cfg.PaymentTimeoutSec)*time.Second)
	orderService := services.NewOrderService(catalogStore, orderStore, gateway)

	controllers.SetOrderService(orderService)
	controllers.SetProductLister(catalogStore)

	// 初始化RabbitMQ（不可用时继续运行，仅跳过事件发布）
	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Printf("RabbitMQ unavailable, lifecycle events disabled: %v", err)
	} else {
		defer rmq.Close()
		if err := rmq.SetupQueues(); err != nil {
			log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
		}
		go consumers.StartOrderConsumer(rmq.Channel, cfg)
		controllers.SetRabbitMQ(rmq)
	}

	// 创建Gin路由
	r := gin.Default()

	// 应用Prometheus中间件
	r.Use(middlewares.PrometheusMiddleware())

	// 暴露Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 健康检查端点
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", controllers.GetProducts)
	r.POST("/order", controllers.CreateOrder)
	r.GET("/order/:id", controllers.GetOrderDetails)
	r.PUT("/order/:id", controllers.UpdateShipping)
	r.PUT("/order/:id/pay", controllers.PayOrder)

	// 启动服务器
	port := ":" + cfg.Port
	log.Printf("Shop API starting on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
