package http

import (
	"time"

	"transaction_api/internal/http/handlers"
	"transaction_api/internal/http/middleware"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// RouteConfig carries what the routes need from main.
type RouteConfig struct {
	Schema     *graphql.Schema
	SDL        string
	Tokens     middleware.TokenParser
	Redis      *redis.Client
	Health     map[string]handlers.Pinger
	RateLimit  int
	RateWindow time.Duration
	Playground bool
	Version    string
}

func RegisterRoutes(r *gin.Engine, cfg RouteConfig) {
	healthHandler := handlers.NewHealthHandler(cfg.Health, cfg.Version)
	graphqlHandler := handlers.NewGraphQLHandler(cfg.Schema, cfg.SDL)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var limiter gin.HandlerFunc
	if cfg.Redis != nil {
		limiter = middleware.RedisRateLimit(cfg.Redis, cfg.RateLimit, cfg.RateWindow)
	} else {
		limiter = middleware.SimpleRateLimit(cfg.RateLimit, cfg.RateWindow)
	}

	gql := r.Group("/graphql")
	gql.Use(middleware.RequestID())
	gql.POST("", middleware.Identity(cfg.Tokens), limiter, graphqlHandler.Query)
	gql.GET("/schema", graphqlHandler.Schema)
	if cfg.Playground {
		gql.GET("", graphqlHandler.Playground)
	}
}
