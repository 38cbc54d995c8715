package redis

import (
	"context"
	"time"

	v9 "github.com/redis/go-redis/v9"
)

// Client is the set of Redis commands used by the snapshot store and the depth publisher.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=redis_mock
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	HSet(ctx context.Context, key string, values map[string]any) (int64, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)

	ZAdd(ctx context.Context, key string, members ...v9.Z) (int64, error)
	ZRem(ctx context.Context, key string, members ...any) (int64, error)

	Publish(ctx context.Context, channel string, message any) (int64, error)
}
