package config

import (
	"os"
	"strconv"
	"time"

	"transaction_api/internal/logger"

	"github.com/joho/godotenv"
)

const envDevelopment = "development"

type Config struct {
	Env         string
	ServiceName string
	AppPort     string

	LogLevel string
	LogJSON  bool

	MongoURL      string
	MongoDatabase string

	RabbitMQURL      string
	RabbitMQExchange string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheDriver string
	CacheTTL    time.Duration

	APIRateLimit  int
	APIRateWindow time.Duration

	// empty disables the audit trail
	AuditDatabaseURL string

	PlaygroundEnabled bool
}

func (c *Config) IsDev() bool {
	return c.Env == envDevelopment
}

// Load reads the configuration from env (and .env when present).
func Load() *Config {
	_ = godotenv.Load()

	mongoURL := os.Getenv("MONGO_URL")
	if mongoURL == "" {
		logger.Fatal("MONGO_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	cacheDriver := valueOrDefault("CACHE_DRIVER", "memory")
	switch cacheDriver {
	case "none", "memory", "redis":
	default:
		logger.Fatal("unknown CACHE_DRIVER", "value", cacheDriver)
	}

	return &Config{
		Env:               valueOrDefault("APP_ENV", envDevelopment),
		ServiceName:       valueOrDefault("SERVICE_NAME", "transaction-api"),
		AppPort:           valueOrDefault("APP_PORT", "3001"),
		LogLevel:          valueOrDefault("LOG_LEVEL", "debug"),
		LogJSON:           os.Getenv("LOG_FORMAT") == "json",
		MongoURL:          mongoURL,
		MongoDatabase:     valueOrDefault("MONGO_DATABASE", "transactions"),
		RabbitMQURL:       valueOrDefault("RABBITMQ_URL", "amqp://localhost"),
		RabbitMQExchange:  valueOrDefault("RABBITMQ_EXCHANGE", "events"),
		JWTSecret:         jwtSecret,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           intOrDefault("REDIS_DB", 0),
		CacheDriver:       cacheDriver,
		CacheTTL:          time.Duration(intOrDefault("CACHE_TTL_SECONDS", 60)) * time.Second,
		APIRateLimit:      intOrDefault("API_RATE_LIMIT", 600),
		APIRateWindow:     time.Duration(intOrDefault("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AuditDatabaseURL:  os.Getenv("AUDIT_DATABASE_URL"),
		PlaygroundEnabled: valueOrDefault("PLAYGROUND_ENABLED", "true") == "true",
	}
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
