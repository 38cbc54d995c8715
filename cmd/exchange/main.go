package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muhammadchandra19/spot-exchange/internal/app/api"
	"github.com/muhammadchandra19/spot-exchange/internal/app/cluster"
	"github.com/muhammadchandra19/spot-exchange/internal/app/engine"
	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	redisdepth "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/redis/depth"
	"github.com/muhammadchandra19/spot-exchange/internal/infrastructure/websocket"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/aggregator"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/ledger"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/router"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/settings"
	"github.com/muhammadchandra19/spot-exchange/pkg/config"
	"github.com/muhammadchandra19/spot-exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
		logger.WithInitialFields(logger.NewField("service", "exchange")),
	)
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	defer func() { _ = log.Sync() }()

	if err := run(); err != nil {
		log.Error(err, logger.NewField("action", "run_exchange"))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res := &resources{}
	defer res.close()

	health := healthcheck.New(5 * time.Second)

	s, err := settings.LoadFile(cfg.SettingsFile)
	if err != nil {
		return err
	}
	registry := settings.NewRegistry(s, cfg.SettingsFile, log)

	rclient, err := newRedis(ctx, cfg, log, res, health)
	if err != nil {
		return err
	}
	ledgerStore, err := newLedgerStore(ctx, cfg, log, res, health)
	if err != nil {
		return err
	}
	snapshotStore, err := newSnapshotStore(cfg, rclient, log, res)
	if err != nil {
		return err
	}
	orders, err := newOrderLog(cfg, log)
	if err != nil {
		return err
	}
	events := newEventPublisher(cfg, log, res)

	feeAccount := cfg.Ledger.FeeAccount
	if feeAccount == "" {
		feeAccount = s.FeeAccount
	}
	ldg := ledger.NewLedger(ledgerStore, feeAccount, log)

	hub := websocket.NewHub(log, cfg.App.AllowedOrigins...)
	levels := depthv1.Publishers{
		redisdepth.NewPublisher(rclient, cfg.Redis.PrefixKey, log),
		hub,
	}

	engineOptions := &engine.Options{
		SnapshotInterval:    cfg.Snapshot.Interval,
		SnapshotOffsetDelta: cfg.Snapshot.OffsetDelta,
		PublishBuffer:       cfg.App.PublishBuffer,
		PublishMaxElapsed:   cfg.Kafka.PublishMaxElapsed,
		RetryMaxInterval:    engine.DefaultEngineOptions().RetryMaxInterval,
	}

	shards := make([]*cluster.Shard, 0, len(cfg.App.Shards))
	for _, id := range cfg.App.Shards {
		agg := aggregator.NewAggregator(registry, levels, log, aggregator.Options{
			QueueSize:         cfg.App.PublishBuffer,
			PublishMaxElapsed: cfg.Kafka.PublishMaxElapsed,
		})
		e, err := engine.NewEngine(id, orders.newReader(id), snapshotStore, ldg, registry, agg, events, log, engineOptions)
		if err != nil {
			return err
		}
		shards = append(shards, &cluster.Shard{ID: id, Engine: e, Aggregator: agg})
	}
	c := cluster.NewCluster(log, shards...)

	if err := c.Start(ctx); err != nil {
		return err
	}

	r, err := router.NewRouter(ctx, registry, orders.writer, c, c, log, router.Options{
		Shards:           c.IDs(),
		AppendMaxElapsed: cfg.Kafka.AppendMaxElapsed,
	})
	if err != nil {
		stopCluster(c)
		return err
	}

	books := cluster.NewBooks(c, r)
	handler := api.NewHandler(r, books, ldg, hub, log)
	server := api.NewServer(cfg.App.HTTPPort, api.NewRouter(handler, health, log), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(server.Start)

	log.Info("Exchange started",
		logger.NewField("shards", c.IDs()),
		logger.NewField("port", cfg.App.HTTPPort),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

wait:
	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				_ = registry.Reload()
				continue
			}
			log.Info("Received shutdown signal", logger.NewField("signal", sig.String()))
			break wait
		case <-gctx.Done():
			break wait
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_http_server"))
	}
	if err := c.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_cluster"))
	}
	if err := orders.writer.Close(); err != nil {
		log.Error(err, logger.NewField("action", "close_order_log"))
	}

	cancel()
	err = g.Wait()

	log.Info("Exchange shutdown complete")
	return err
}

func stopCluster(c *cluster.Cluster) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		log.Error(err, logger.NewField("action", "stop_cluster"))
	}
}
