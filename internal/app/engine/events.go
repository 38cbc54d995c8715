package engine

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

type eventBatch struct {
	trades  []orderv1.Trade
	updates []orderv1.OrderUpdate
}

// publish hands a batch to the publisher goroutine. It blocks while the
// buffer is full.
func (e *Engine) publish(trades []orderv1.Trade, updates []orderv1.OrderUpdate) {
	if e.events == nil || (len(trades) == 0 && len(updates) == 0) {
		return
	}
	select {
	case e.events <- eventBatch{trades: trades, updates: updates}:
	case <-e.ctx.Done():
	}
}

func (e *Engine) runPublisher() {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			e.drainEvents()
			return
		case batch := <-e.events:
			e.publishBatch(e.ctx, batch)
		}
	}
}

// drainEvents makes one attempt to publish what is still buffered at shutdown.
func (e *Engine) drainEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case batch := <-e.events:
			if err := e.sendBatch(ctx, batch); err != nil {
				publishFailures.Inc()
				e.logger.Error(err, logger.NewField("action", "drain_events"))
			}
		default:
			return
		}
	}
}

func (e *Engine) publishBatch(ctx context.Context, batch eventBatch) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = e.options.PublishMaxElapsed

	err := backoff.RetryNotify(
		func() error { return e.sendBatch(ctx, batch) },
		backoff.WithContext(policy, ctx),
		func(err error, wait time.Duration) {
			e.logger.Warn("Retrying event publication",
				logger.NewField("error", err.Error()),
				logger.NewField("wait", wait.String()),
			)
		},
	)
	if err != nil && ctx.Err() == nil {
		publishFailures.Inc()
		e.logger.Error(err,
			logger.NewField("action", "publish_events"),
			logger.NewField("trades", len(batch.trades)),
			logger.NewField("updates", len(batch.updates)),
		)
	}
}

// sendBatch publishes trades before updates. A retry after the trades went
// out sends them again: consumers deduplicate by trade id.
func (e *Engine) sendBatch(ctx context.Context, batch eventBatch) error {
	if len(batch.trades) > 0 {
		if err := e.publisher.PublishTrades(ctx, batch.trades...); err != nil {
			return err
		}
	}
	if len(batch.updates) > 0 {
		return e.publisher.PublishOrderUpdates(ctx, batch.updates...)
	}
	return nil
}
