package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ordercomposite/internal/client"
	"ordercomposite/internal/config"
	"ordercomposite/internal/consumer"
	"ordercomposite/internal/handler"
	"ordercomposite/internal/middleware"
	"ordercomposite/internal/publisher"
	"ordercomposite/internal/service/aggregate"
	"ordercomposite/internal/service/inventory"
	"ordercomposite/internal/service/orderflow"
	"ordercomposite/pkg/log"
	"ordercomposite/pkg/queue"
	"ordercomposite/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to load config")
	}

	log.Init(log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	})

	// Re-apply the logging configuration when the config file changes.
	config.WatchConfig(func(updated *config.Config) {
		log.Init(log.Config{
			Level:      updated.Log.Level,
			Format:     updated.Log.Format,
			Output:     updated.Log.Output,
			Filename:   updated.Log.Filename,
			MaxSize:    updated.Log.MaxSize,
			MaxAge:     updated.Log.MaxAge,
			MaxBackups: updated.Log.MaxBackups,
			Compress:   updated.Log.Compress,
		})
		log.WithField("level", updated.Log.Level).Info("Configuration reloaded")
	})

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	clients := client.New(client.Config{
		ProductBaseURL:   cfg.Services.ProductURL,
		InventoryBaseURL: cfg.Services.InventoryURL,
		OrderBaseURL:     cfg.Services.OrderURL,
		ShippingBaseURL:  cfg.Services.ShippingURL,
		Timeout:          cfg.Services.Timeout,
	})

	messageQueue, redisClient := buildQueue(cfg)
	defer messageQueue.Close()
	if redisClient != nil {
		defer redisClient.Close()
	}

	eventPublisher := publisher.New(messageQueue)
	serviceAddr := utils.ServiceAddress(cfg.Server.Port)

	aggregateService := aggregate.NewService(clients.Product, clients.Order, clients.Shipping, serviceAddr)
	placementService := orderflow.NewService(
		clients.Product, clients.Inventory, clients.Order, clients.Shipping,
		eventPublisher,
		orderflow.Topics{
			Inventory: cfg.Queue.InventoryTopic,
			Shipping:  cfg.Queue.ShippingTopic,
		},
		serviceAddr,
	)

	stockConsumer := consumer.NewStockConsumer(
		inventory.NewAdjuster(clients.Inventory),
		messageQueue,
		cfg.Queue.InventoryTopic,
	)
	if err := stockConsumer.Start(context.Background()); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Failed to start stock consumer")
	}
	defer stockConsumer.Stop()

	router := setupRouter(cfg, clients, messageQueue, aggregateService, placementService)

	server := &http.Server{
		Addr:           cfg.Server.GetAddr(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderMB << 20,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr": server.Addr,
			"mode": cfg.Server.Mode,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(map[string]interface{}{
				"error": err.Error(),
			}).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}

// buildQueue selects the queue driver. The redis client, when created, is
// returned so main can close it on shutdown.
func buildQueue(cfg *config.Config) (queue.Queue, *redis.Client) {
	switch cfg.Queue.Driver {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.GetAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		return queue.NewRedisStreamQueue(redisClient, &queue.RedisStreamConfig{
			Group:     cfg.Queue.Group,
			Consumer:  cfg.Queue.Consumer,
			BlockTime: cfg.Queue.BlockTime,
			MaxLen:    cfg.Queue.MaxLen,
		}), redisClient

	default:
		return queue.NewMemoryQueue(&queue.MemoryQueueConfig{
			BufferSize: cfg.Queue.BufferSize,
			Timeout:    cfg.Queue.PublishTimeout,
		}), nil
	}
}

func setupRouter(
	cfg *config.Config,
	clients *client.Clients,
	messageQueue queue.Queue,
	aggregateService aggregate.Service,
	placementService orderflow.Service,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if cfg.CORS.Enabled {
		router.Use(middleware.CORS(cfg.CORS))
	}
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(float64(cfg.RateLimit.RPS), cfg.RateLimit.Burst, cfg.RateLimit.TTL))
	}

	handler.NewHealthHandler(map[string]handler.Pinger{
		"product":   clients.Product,
		"inventory": clients.Inventory,
		"order":     clients.Order,
		"shipping":  clients.Shipping,
	}, messageQueue).RegisterRoutes(router)

	handler.NewCompositeHandler(aggregateService, placementService).RegisterRoutes(router)

	return router
}
