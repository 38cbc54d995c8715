package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	eventpublisherv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/event-publisher/v1"
	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	kafkaevents "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/kafka/events"
	kafkaorderlog "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/kafka/orderlog"
	memledger "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/memory/ledger"
	memorderlog "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/memory/orderlog"
	pebblesnapshot "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/pebble/snapshot"
	pgledger "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/postgresql/ledger"
	redissnapshot "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/redis/snapshot"
	"github.com/muhammadchandra19/spot-exchange/pkg/config"
	"github.com/muhammadchandra19/spot-exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/postgresql"
	"github.com/muhammadchandra19/spot-exchange/pkg/redis"
)

// resources holds every connection opened at startup so they can be closed in reverse order.
type resources struct {
	closers []func()
}

func (r *resources) add(fn func()) {
	r.closers = append(r.closers, fn)
}

func (r *resources) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// orderLog is the ordered command log and the per shard readers over it.
type orderLog struct {
	writer    orderlogv1.Writer
	newReader func(shard int) orderlogv1.Reader
}

func newOrderLog(cfg *config.Config, log *logger.Logger) (*orderLog, error) {
	switch cfg.App.OrderLog {
	case "kafka":
		return &orderLog{
			writer: kafkaorderlog.NewWriter(cfg.Kafka, log),
			newReader: func(shard int) orderlogv1.Reader {
				return kafkaorderlog.NewReader(cfg.Kafka, shard, log)
			},
		}, nil
	case "memory":
		l := memorderlog.NewLog()
		return &orderLog{
			writer:    l,
			newReader: func(shard int) orderlogv1.Reader { return l.NewReader(shard) },
		}, nil
	default:
		return nil, fmt.Errorf("unknown order log backend %q", cfg.App.OrderLog)
	}
}

func newRedis(ctx context.Context, cfg *config.Config, log *logger.Logger, res *resources, health *healthcheck.HealthCheck) (redis.Client, error) {
	redisConfig := cfg.Redis
	client := redis.NewClient(log, &redisConfig)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	res.add(func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error(err, logger.NewField("action", "disconnect_redis"))
		}
	})
	health.Register("redis", client.Ping)
	return client, nil
}

func newPostgres(ctx context.Context, cfg *config.Config, res *resources, health *healthcheck.HealthCheck) (postgresql.PostgreSQLClient, error) {
	client, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		return nil, err
	}
	res.add(client.Close)
	health.Register("postgres", client.Ping)
	if err := prometheus.Register(postgresql.NewPoolCollector(client, "ledger")); err != nil {
		return nil, err
	}
	return client, nil
}

func newLedgerStore(ctx context.Context, cfg *config.Config, log *logger.Logger, res *resources, health *healthcheck.HealthCheck) (ledgerv1.Store, error) {
	switch cfg.Ledger.Backend {
	case "postgres":
		client, err := newPostgres(ctx, cfg, res, health)
		if err != nil {
			return nil, err
		}
		return pgledger.NewRepository(client, log, cfg.PostgreSQL.SerializationRetries), nil
	case "memory":
		log.Warn("Ledger balances are kept in memory and lost on restart")
		return memledger.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

func newSnapshotStore(cfg *config.Config, rclient redis.Client, log *logger.Logger, res *resources) (snapshotv1.Store, error) {
	switch cfg.Snapshot.Backend {
	case "redis":
		return redissnapshot.NewSnapshotStore(rclient, cfg.Redis.PrefixKey, log), nil
	case "pebble":
		store, err := pebblesnapshot.NewStore(cfg.Snapshot.PebbleDir, log)
		if err != nil {
			return nil, err
		}
		res.add(func() {
			if err := store.Close(); err != nil {
				log.Error(err, logger.NewField("action", "close_pebble"))
			}
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}

// newEventPublisher returns nil when events are not published.
func newEventPublisher(cfg *config.Config, log *logger.Logger, res *resources) eventpublisherv1.Publisher {
	if !cfg.Kafka.PublishEvents {
		return nil
	}
	p := kafkaevents.NewPublisher(cfg.Kafka, log)
	res.add(func() {
		if err := p.Close(); err != nil {
			log.Error(err, logger.NewField("action", "close_event_publisher"))
		}
	})
	return p
}
