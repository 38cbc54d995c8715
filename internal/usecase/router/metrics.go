package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsAppended = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "router",
		Name:      "commands_appended_total",
		Help:      "Commands appended to a shard log",
	},
	[]string{"shard", "code"},
)

var validationRejections = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "router",
		Name:      "validation_rejections_total",
		Help:      "Commands rejected before reaching the log",
	},
)

var appendRetries = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "router",
		Name:      "append_retries_total",
		Help:      "Failed appends that were retried",
	},
)

var remaps = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "spot",
		Subsystem: "router",
		Name:      "remaps_total",
		Help:      "Symbols moved to another shard",
	},
)
