package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger *logger.Logger
	config *Config
	rdb    redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

// ErrUnavailable is wrapped by every failed command so callers can retry them.
var ErrUnavailable = errors.NewTransient("redis unavailable")

func opError(code errors.ErrorCode, err error) error {
	return errors.NewTracer(code.String()).Wrap(fmt.Errorf("%w: %v", ErrUnavailable, err))
}

func newConfigError(fields []string) error {
	verr := errors.NewBaseError()
	for _, f := range fields {
		verr.Add(errors.RedisConfigError, f, "invalid redis "+strings.ReplaceAll(f, "_", " "))
	}
	return verr
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", errors.RedisConfigError.String(), "connect")
	}
	if err := c.config.validate(); err != nil {
		return err
	}

	opts := &redis.UniversalOptions{
		Addrs:           c.config.Addrs,
		Username:        c.config.Username,
		Password:        c.config.Password,
		MaxRetries:      c.config.MaxRetries,
		MinRetryBackoff: c.config.MinRetryBackoff,
		MaxRetryBackoff: c.config.MaxRetryBackoff,
		DialTimeout:     c.config.ConnectTimeout,
		ReadTimeout:     c.config.ConnectTimeout,
		WriteTimeout:    c.config.ConnectTimeout,
		PoolSize:        c.config.PoolSize,
		MinIdleConns:    c.config.MinIdleConns,
		MaxIdleConns:    c.config.MaxIdleConns,
		ConnMaxLifetime: c.config.ConnMaxLifetime,
		ConnMaxIdleTime: c.config.ConnMaxIdleTime,
		PoolTimeout:     c.config.PoolTimeout,
	}

	switch c.config.Mode {
	case Standalone:
		opts.Addrs = c.config.Addrs[:1]
		opts.DB = c.config.DB
		c.rdb = redis.NewClient(opts.Simple())
	case Cluster:
		c.rdb = redis.NewClusterClient(opts.Cluster())
	}

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return opError(errors.RedisConnectionError, err)
	}
	return nil
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		return errors.NewTracer(errors.RedisDisconnectionError.String()).Wrap(err)
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return errors.NewTracer(errors.RedisPingError.String()).Wrap(ErrUnavailable)
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return opError(errors.RedisPingError, err)
	}
	return nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", opError(errors.RedisGetError, err)
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		return opError(errors.RedisSetError, err)
	}
	return nil
}

func (c *client) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	affected, err := c.rdb.HSet(ctx, key, values).Result()
	if err != nil {
		return 0, opError(errors.RedisHSetError, err)
	}
	return affected, nil
}

func (c *client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	deleted, err := c.rdb.HDel(ctx, key, fields...).Result()
	if err != nil {
		return 0, opError(errors.RedisHDelError, err)
	}
	return deleted, nil
}

func (c *client) ZAdd(ctx context.Context, key string, members ...redis.Z) (int64, error) {
	added, err := c.rdb.ZAdd(ctx, key, members...).Result()
	if err != nil {
		return 0, opError(errors.RedisZAddError, err)
	}
	return added, nil
}

func (c *client) ZRem(ctx context.Context, key string, members ...any) (int64, error) {
	removed, err := c.rdb.ZRem(ctx, key, members...).Result()
	if err != nil {
		return 0, opError(errors.RedisZRemError, err)
	}
	return removed, nil
}

// Publish sends message to channel. Zero receivers is not an error: depth
// updates are published whether or not a UI is listening.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	receivers, err := c.rdb.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, opError(errors.RedisPublishError, err)
	}
	return receivers, nil
}
