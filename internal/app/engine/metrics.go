package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "commands_processed_total",
		Help:      "Commands processed by shard workers",
	},
	[]string{"shard", "code"},
)

var duplicateCommands = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "duplicate_commands_total",
		Help:      "Commands skipped because their sequence was already processed",
	},
	[]string{"shard"},
)

var tradesExecuted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "trades_total",
		Help:      "Trades executed",
	},
	[]string{"symbol"},
)

var rejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "rejections_total",
		Help:      "Orders rejected by the engine",
	},
	[]string{"reason"},
)

var breakerTrips = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "breaker_trips_total",
		Help:      "Circuit breaker trips",
	},
	[]string{"symbol"},
)

var invariantHalts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "invariant_halts_total",
		Help:      "Symbols halted after an invariant violation",
	},
	[]string{"symbol"},
)

var settlementLatency = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "settlement_seconds",
		Help:      "Time spent settling one trade in the ledger",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	},
)

var publishFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "event_publish_failures_total",
		Help:      "Event batches that could not be published after retries",
	},
)

var snapshotsStored = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "engine",
		Name:      "snapshots_stored_total",
		Help:      "Shard snapshots written",
	},
	[]string{"shard"},
)
