package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds connection settings for the Redis client
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
}

// ErrDisabled is returned by all operations when Redis is turned off in
// configuration. Callers decide how to degrade.
var ErrDisabled = errors.New("redis is disabled")

// Client is the Redis surface the rest of the service consumes. A disabled
// client still satisfies it so callers can degrade instead of branching on
// nil handles.
type Client interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	IsEnabled() bool
	Close() error
}

type redisClient struct {
	rdb     *goredis.Client
	enabled bool
	log     *zap.Logger
}

// NewClient builds a Redis client from configuration. Connection problems
// are logged, not fatal: the service stays up and ledger consumers fail
// open until Redis comes back.
func NewClient(cfg Config, log *zap.Logger) Client {
	if !cfg.Enabled {
		log.Warn("Redis is disabled, revocation checks will fail open")
		return &redisClient{enabled: false, log: log}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	client := &redisClient{rdb: rdb, enabled: true, log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		log.Error("Failed to connect to Redis",
			zap.String("address", addr),
			zap.Error(err),
		)
	} else {
		log.Info("Successfully connected to Redis",
			zap.String("address", addr),
			zap.Int("database", cfg.DB),
		)
	}

	return client
}

func (c *redisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if !c.enabled {
		return ErrDisabled
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisClient) Exists(ctx context.Context, key string) (bool, error) {
	if !c.enabled {
		return false, ErrDisabled
	}

	result, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return result > 0, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	if !c.enabled {
		return ErrDisabled
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *redisClient) IsEnabled() bool {
	return c.enabled
}

func (c *redisClient) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
