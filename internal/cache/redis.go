package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gauthierbraillon/rivalfeed/internal/logger"
)

const (
	keyPrefix         = "rivalfeed:"
	connectionTimeout = 5 * time.Second
)

// ErrEmptyAddress is returned when Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// Redis is a cache shared between rivalfeed instances.
type Redis struct {
	client *redis.Client
	log    logger.Logger
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg RedisConfig, log logger.Logger) (*Redis, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Redis{client: client, log: log}, nil
}

// GetOrCompute reads key from Redis and falls back to produce on a miss.
// Backend errors degrade to a miss.
func (r *Redis) GetOrCompute(ctx context.Context, key string, ttl time.Duration, produce Producer) ([]byte, error) {
	k := keyPrefix + key
	value, err := r.client.Get(ctx, k).Bytes()
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.Nil) {
		r.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
	}

	value, err = produce(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, k, value, ttl).Err(); err != nil {
		r.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
	}
	return value, nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
