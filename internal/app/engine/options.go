package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	SnapshotInterval    time.Duration
	SnapshotOffsetDelta int64
	// PublishBuffer bounds the event batches waiting for the publisher.
	PublishBuffer int
	// PublishMaxElapsed bounds the retries of one event batch.
	PublishMaxElapsed time.Duration
	// RetryMaxInterval caps the wait between ledger retries. Ledger calls are
	// retried until they succeed since a command cannot be skipped.
	RetryMaxInterval time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: 1000,
		PublishBuffer:       4096,
		PublishMaxElapsed:   30 * time.Second,
		RetryMaxInterval:    5 * time.Second,
	}
}
