package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var coalescedBatches = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "aggregator",
		Name:      "coalesced_batches_total",
		Help:      "Level update batches merged into the overflow because the publish queue was full",
	},
)

var publishFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "aggregator",
		Name:      "publish_failures_total",
		Help:      "Level update batches that could not be published after retries",
	},
)

var publishRetries = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "aggregator",
		Name:      "publish_retries_total",
		Help:      "Failed publish attempts that were retried",
	},
)
