package router

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"

	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/settings"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/util"
)

var (
	// ErrSymbolPaused is returned when a command for a symbol being remapped gives up waiting.
	ErrSymbolPaused = errors.NewTransient("symbol is being moved to another shard")
	// ErrUnknownShard is returned when a symbol maps to a shard this router does not serve.
	ErrUnknownShard = errors.NewInvariant("shard is not served by this router")
)

// Options tunes the router.
type Options struct {
	// Shards are the shard ids with a log partition.
	Shards []int
	// AppendMaxElapsed bounds the retries of one append.
	AppendMaxElapsed time.Duration
	// Clock stamps every command at ingestion. Defaults to time.Now.
	Clock func() time.Time
}

// Receipt acknowledges a command written to its shard log.
type Receipt struct {
	OrderID   string `json:"orderId"`
	Symbol    string `json:"symbol"`
	Shard     int    `json:"shard"`
	Sequence  uint64 `json:"sequence"`
	RequestID string `json:"requestId,omitempty"`
}

type shardLog struct {
	shard int
	// mu keeps log order equal to sequence order.
	mu  sync.Mutex
	seq *Sequencer
	// written is the last sequence the log acknowledged.
	written uint64
}

// Router validates commands, assigns their shard and sequence and appends
// them to the shard log.
type Router struct {
	registry *settings.Registry
	writer   orderlogv1.Writer
	drainer  Drainer
	handOff  HandOff
	logger   logger.Interface
	opts     Options

	table  atomic.Pointer[Table]
	shards map[int]*shardLog

	// gate is held shared by every append and exclusively to pause a symbol.
	gate   sync.RWMutex
	paused map[string]chan struct{}

	remapMu sync.Mutex
}

// NewRouter creates a Router. Sequencers resume after the last command
// already written to each shard log.
func NewRouter(
	ctx context.Context,
	registry *settings.Registry,
	writer orderlogv1.Writer,
	drainer Drainer,
	handOff HandOff,
	log logger.Interface,
	opts Options,
) (*Router, error) {
	r := &Router{
		registry: registry,
		writer:   writer,
		drainer:  drainer,
		handOff:  handOff,
		logger:   log,
		opts:     opts,
		shards:   make(map[int]*shardLog, len(opts.Shards)),
		paused:   make(map[string]chan struct{}),
	}
	if r.opts.Clock == nil {
		r.opts.Clock = time.Now
	}

	for _, shard := range opts.Shards {
		last, err := writer.LastSequence(ctx, shard)
		if err != nil {
			return nil, errors.NewTracer(errors.RouterAppendError.String()).Wrap(err)
		}
		r.shards[shard] = &shardLog{shard: shard, seq: NewSequencer(last), written: last}
		log.Info("Shard sequencer ready",
			logger.NewField("shard", shard),
			logger.NewField("lastSequence", last),
		)
	}

	s := registry.Load()
	r.table.Store(NewTable(s.ShardTable(), s.DefaultShard))
	return r, nil
}

// Route returns the shard of cmd.
func (r *Router) Route(cmd orderv1.Command) int {
	return r.table.Load().Shard(cmd.Data.Symbol)
}

// Table returns the current assignment.
func (r *Router) Table() *Table {
	return r.table.Load()
}

// LastSequence returns the last sequence written to the log of shard.
func (r *Router) LastSequence(shard int) (uint64, bool) {
	l, ok := r.shards[shard]
	if !ok {
		return 0, false
	}
	return l.lastWritten(), true
}

// Submit validates cmd and appends it to the log of its shard.
func (r *Router) Submit(ctx context.Context, cmd orderv1.Command) (Receipt, error) {
	prepare(&cmd, r.opts.Clock())
	if cmd.RequestID == "" {
		cmd.RequestID = util.GetRequestID(ctx)
	}

	if err := Validate(&cmd, r.registry.Load()); err != nil {
		validationRejections.Inc()
		return Receipt{}, err
	}

	if err := r.enter(ctx, cmd.Data.Symbol); err != nil {
		return Receipt{}, err
	}
	defer r.gate.RUnlock()

	shard := r.table.Load().Shard(cmd.Data.Symbol)
	l, ok := r.shards[shard]
	if !ok {
		r.logger.ErrorContext(ctx, ErrUnknownShard,
			logger.NewField("symbol", cmd.Data.Symbol),
			logger.NewField("shard", shard),
		)
		return Receipt{}, errors.NewTracer(errors.RouterUnknownShard.String()).Wrap(ErrUnknownShard)
	}

	seq, err := r.append(ctx, l, cmd)
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{
		OrderID:   cmd.Data.ID,
		Symbol:    cmd.Data.Symbol,
		Shard:     shard,
		Sequence:  seq,
		RequestID: cmd.RequestID,
	}, nil
}

// enter takes the gate shared once symbol is not paused.
func (r *Router) enter(ctx context.Context, symbol string) error {
	for {
		r.gate.RLock()
		wait, paused := r.paused[symbol]
		if !paused {
			return nil
		}
		r.gate.RUnlock()

		select {
		case <-ctx.Done():
			return errors.NewTracer(errors.RouterSymbolPaused.String()).Wrap(ErrSymbolPaused)
		case <-wait:
		}
	}
}

func (r *Router) append(ctx context.Context, l *shardLog, cmd orderv1.Command) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// A failed append leaves a gap: it may have been written after all.
	cmd.Sequence = l.seq.Next()
	cmd.Shard = l.shard

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxElapsedTime = r.opts.AppendMaxElapsed

	err := backoff.RetryNotify(
		func() error { return r.writer.Append(ctx, l.shard, cmd) },
		backoff.WithContext(policy, ctx),
		func(err error, wait time.Duration) {
			appendRetries.Inc()
			r.logger.WarnContext(ctx, "Retrying append",
				logger.NewField("error", err.Error()),
				logger.NewField("shard", l.shard),
				logger.NewField("sequence", cmd.Sequence),
				logger.NewField("wait", wait.String()),
			)
		},
	)
	if err != nil {
		r.logger.ErrorContext(ctx, err,
			logger.NewField("shard", l.shard),
			logger.NewField("sequence", cmd.Sequence),
		)
		return 0, errors.NewTracer(errors.RouterAppendError.String()).Wrap(err)
	}

	l.written = cmd.Sequence
	commandsAppended.WithLabelValues(strconv.Itoa(l.shard), string(cmd.Code)).Inc()
	return cmd.Sequence, nil
}

func (l *shardLog) lastWritten() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written
}

// Remap moves symbol to shard. Commands for symbol wait until the move is
// complete. Every command already written for it is processed by the old
// shard before its book is handed over.
func (r *Router) Remap(ctx context.Context, symbol string, shard int) error {
	r.remapMu.Lock()
	defer r.remapMu.Unlock()

	from := r.table.Load().Shard(symbol)
	if from == shard {
		return nil
	}
	source, ok := r.shards[from]
	if !ok {
		return errors.NewTracer(errors.RouterUnknownShard.String()).Wrap(ErrUnknownShard)
	}
	if _, ok := r.shards[shard]; !ok {
		return errors.NewTracer(errors.RouterUnknownShard.String()).Wrap(ErrUnknownShard)
	}

	release := r.pause(symbol)
	defer release()

	last := source.lastWritten()
	if err := r.drainer.WaitProcessed(ctx, from, last); err != nil {
		return fmt.Errorf("drain shard %d: %w", from, err)
	}

	state, err := r.handOff.Detach(ctx, from, symbol)
	if err != nil {
		return fmt.Errorf("detach %s from shard %d: %w", symbol, from, err)
	}
	if err := r.handOff.Attach(ctx, shard, state); err != nil {
		if rerr := r.handOff.Attach(ctx, from, state); rerr != nil {
			r.logger.ErrorContext(ctx, rerr,
				logger.NewField("operation", "RestoreAfterFailedRemap"),
				logger.NewField("symbol", symbol),
				logger.NewField("shard", from),
			)
		}
		return fmt.Errorf("attach %s to shard %d: %w", symbol, shard, err)
	}

	r.table.Store(r.table.Load().With(symbol, shard))
	remaps.Inc()
	r.logger.InfoContext(ctx, "Symbol remapped",
		logger.NewField("symbol", symbol),
		logger.NewField("from", from),
		logger.NewField("to", shard),
		logger.NewField("drainedSequence", last),
	)
	return nil
}

// pause blocks new commands for symbol and waits for in flight appends.
func (r *Router) pause(symbol string) func() {
	wait := make(chan struct{})
	r.gate.Lock()
	r.paused[symbol] = wait
	r.gate.Unlock()

	return func() {
		r.gate.Lock()
		delete(r.paused, symbol)
		r.gate.Unlock()
		close(wait)
	}
}

// prepare stamps cmd and fills the defaults a client may omit. A client
// timestamp is always replaced: it drives expiry and the circuit breaker.
func prepare(cmd *orderv1.Command, now time.Time) {
	cmd.Data.Timestamp = now.UnixMilli()
	if cmd.Code != orderv1.PlaceOrder {
		return
	}
	if cmd.Data.ID == "" {
		cmd.Data.ID = ulid.Make().String()
	}
	if cmd.Data.TimeInForce == "" {
		cmd.Data.TimeInForce = orderv1.GTC
	}
	if cmd.Data.Type.IsStop() && cmd.Data.StopCondition == "" {
		cmd.Data.StopCondition = orderv1.StopLTE
		if cmd.Data.Side == orderv1.SideBuy {
			cmd.Data.StopCondition = orderv1.StopGTE
		}
	}
}
