package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transaction_api/internal/auth"
	"transaction_api/internal/broker"
	"transaction_api/internal/cache"
	"transaction_api/internal/config"
	"transaction_api/internal/db"
	"transaction_api/internal/graph"
	httpServer "transaction_api/internal/http"
	"transaction_api/internal/http/handlers"
	"transaction_api/internal/logger"
	"transaction_api/internal/repository"
	"transaction_api/internal/service"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.With("service", cfg.ServiceName)

	mongoClient := db.ConnectMongo(cfg.MongoURL)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	coll := mongoClient.Database(cfg.MongoDatabase).Collection(repository.TransactionCollectionName)
	if err := repository.EnsureTransactionIndexes(context.Background(), coll); err != nil {
		logger.Fatal("failed to ensure indexes", "error", err)
	}

	redisClient := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}

	amqpPublisher, err := broker.DialAMQP(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.ServiceName)
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", "error", err)
	}
	defer amqpPublisher.Close()

	var publisher broker.Publisher = amqpPublisher
	if cfg.AuditDatabaseURL != "" {
		auditPool := db.Connect(cfg.AuditDatabaseURL)
		defer auditPool.Close()
		audit := service.NewAuditService(repository.NewAuditRepository(auditPool), log)
		publisher = service.NewAuditingPublisher(amqpPublisher, audit)
		log.Info("audit trail enabled")
	}

	repo := repository.NewTransactionRepository(
		repository.NewMongoCollection(coll),
		newCache(cfg, redisClient, log),
		publisher,
		log,
	)

	shield := auth.NewTransactionShield(repo, log)
	schema := graph.NewSchema(graph.NewResolver(repo, shield, log))

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.IsDev() {
		r.Use(gin.Logger())
	}

	health := map[string]handlers.Pinger{"mongo": db.MongoPinger{Client: mongoClient}}
	health["rabbitmq"] = handlers.PingFunc(func(context.Context) error {
		if !amqpPublisher.Healthy() {
			return errors.New("connection closed")
		}
		return nil
	})
	if redisClient != nil {
		health["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	httpServer.RegisterRoutes(r, httpServer.RouteConfig{
		Schema:     schema,
		SDL:        graph.SDL(),
		Tokens:     service.NewJWTService(cfg.JWTSecret),
		Redis:      redisClient,
		Health:     health,
		RateLimit:  cfg.APIRateLimit,
		RateWindow: cfg.APIRateWindow,
		Playground: cfg.PlaygroundEnabled,
		Version:    version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}

func newCache(cfg *config.Config, client *redis.Client, log *slog.Logger) cache.Cache {
	switch cfg.CacheDriver {
	case "redis":
		if client != nil {
			return cache.NewRedis(client, cfg.CacheTTL, log)
		}
		log.Warn("CACHE_DRIVER=redis but redis is unavailable, using memory cache")
		return cache.NewMemory(cfg.CacheTTL)
	case "memory":
		return cache.NewMemory(cfg.CacheTTL)
	default:
		return cache.Noop{}
	}
}
