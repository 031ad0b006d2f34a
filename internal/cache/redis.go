package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"transaction_api/internal/domain"

	redis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

const redisKeyPrefix = "transaction:"

// Redis shares the cache between instances. Values are stored as BSON so the
// round trip keeps ObjectIDs and timestamps intact.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (r *Redis) Get(ctx context.Context, id string) (*domain.Transaction, bool) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache get failed", "id", id, "error", err)
		}
		return nil, false
	}

	var tx domain.Transaction
	if err := bson.Unmarshal(raw, &tx); err != nil {
		r.logger.Warn("cache entry is corrupt", "id", id, "error", err)
		r.Invalidate(ctx, id)
		return nil, false
	}
	return &tx, true
}

func (r *Redis) Set(ctx context.Context, tx *domain.Transaction) {
	if tx == nil {
		return
	}

	raw, err := bson.Marshal(tx)
	if err != nil {
		r.logger.Warn("cache encode failed", "id", tx.ID.Hex(), "error", err)
		return
	}
	if err := r.client.Set(ctx, redisKeyPrefix+tx.ID.Hex(), raw, r.ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", "id", tx.ID.Hex(), "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		r.logger.Warn("cache invalidate failed", "id", id, "error", err)
	}
}
