package engine

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	eventpublisherv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/event-publisher/v1"
	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/aggregator"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/circuitbreaker"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/orderbook"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/settings"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

// ErrEngineStopped is returned by requests made to a stopped engine.
var ErrEngineStopped = errors.NewTransient("shard engine stopped")

type message struct {
	msg kafka.Message
	cmd *orderv1.Command
}

type request struct {
	fn   func(ctx context.Context)
	done chan struct{}
}

// Engine is the worker of one shard. A single goroutine reads the shard log
// and owns every book, the breaker and the halted set of the shard.
type Engine struct {
	shard         int
	reader        orderlogv1.Reader
	snapshotStore snapshotv1.Store
	ledger        ledgerv1.Ledger
	registry      *settings.Registry
	aggregator    *aggregator.Aggregator
	publisher     eventpublisherv1.Publisher
	breaker       *circuitbreaker.Breaker
	logger        logger.Interface
	options       *Options

	// Owned by the worker goroutine.
	books  map[string]*orderbook.Orderbook
	halted map[string]struct{}
	// clock is the latest command time seen. Matching time never goes back.
	clock time.Time
	// replayUntil is the last log offset written before Start.
	replayUntil int64
	// interrupted is set when shutdown cut a command short. The final
	// snapshot is skipped so the command is replayed in full.
	interrupted bool

	// snapshotMu keeps snapshots stored in the order they were taken.
	snapshotMu sync.Mutex

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64
	sequence           uint64
	// progress is closed and replaced whenever sequence advances.
	progress chan struct{}

	messages chan message
	requests chan request
	events   chan eventBatch

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewEngine creates the engine of shard and restores its latest snapshot.
// A nil publisher disables outbound events.
func NewEngine(
	shard int,
	reader orderlogv1.Reader,
	snapshotStore snapshotv1.Store,
	ledger ledgerv1.Ledger,
	registry *settings.Registry,
	agg *aggregator.Aggregator,
	publisher eventpublisherv1.Publisher,
	log logger.Interface,
	options *Options,
) (*Engine, error) {
	if options == nil {
		options = DefaultEngineOptions()
	}
	log = log.WithFields(logger.NewField("shard", shard))

	e := &Engine{
		shard:         shard,
		reader:        reader,
		snapshotStore: snapshotStore,
		ledger:        ledger,
		registry:      registry,
		aggregator:    agg,
		publisher:     publisher,
		breaker:       circuitbreaker.NewBreaker(registry, log),
		logger:        log,
		options:       options,

		books:              make(map[string]*orderbook.Orderbook),
		halted:             make(map[string]struct{}),
		orderOffset:        -1,
		lastSnapshotOffset: -1,
		replayUntil:        -1,
		progress:           make(chan struct{}),
		messages:           make(chan message),
		requests:           make(chan request),
	}
	if publisher != nil {
		e.events = make(chan eventBatch, options.PublishBuffer)
	}

	if err := e.loadSnapshot(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

// Shard returns the shard id of the engine.
func (e *Engine) Shard() int {
	return e.shard
}

// Start positions the reader after the restored snapshot and starts the
// worker. Commands logged before Start are replayed first.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	last, err := e.reader.LastOffset(ctx)
	if err != nil {
		return errors.TracerFromError(err)
	}
	e.replayUntil = last

	if err := e.reader.SetOffset(e.GetOrderOffset() + 1); err != nil {
		return errors.TracerFromError(err)
	}

	e.wg.Add(4)
	go e.runReader()
	go e.runWorker()
	go e.runSnapshotManager()
	go e.runAggregator()
	if e.events != nil {
		e.wg.Add(1)
		go e.runPublisher()
	}
	e.running.Store(true)

	e.logger.Info("Shard engine started",
		logger.NewField("orderOffset", e.GetOrderOffset()),
		logger.NewField("replayUntil", last),
		logger.NewField("books", len(e.books)),
	)
	return nil
}

// Stop shuts the engine down and stores a final snapshot.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}

	if e.running.Swap(false) && !e.interrupted && e.shouldCreateSnapshot(1) {
		e.snapshotMu.Lock()
		_ = e.storeSnapshot(ctx, e.createSnapshot())
		e.snapshotMu.Unlock()
	}
	if err := e.reader.Close(); err != nil {
		e.logger.Error(err, logger.NewField("action", "close_order_reader"))
	}

	e.logger.Info("Shard engine stopped gracefully")
	return nil
}

// runReader feeds log messages to the worker.
func (e *Engine) runReader() {
	defer e.wg.Done()

	for {
		msg, cmd, err := e.reader.ReadMessage(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			if cmd == nil && len(msg.Value) > 0 {
				// undecodable command: hand it over so its offset is consumed
				e.logger.ErrorContext(e.ctx, err,
					logger.NewField("action", "decode_command"),
					logger.NewField("offset", msg.Offset),
				)
			} else {
				e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "read_order_message"))
				time.Sleep(100 * time.Millisecond)
				continue
			}
		}

		if err := e.reader.CommitMessages(e.ctx, msg); err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "commit_order_message"))
		}

		select {
		case e.messages <- message{msg: msg, cmd: cmd}:
		case <-e.ctx.Done():
			return
		}
	}
}

// runWorker owns the shard state: it processes commands and requests one at a time.
func (e *Engine) runWorker() {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case m := <-e.messages:
			e.handleMessage(m)
		case req := <-e.requests:
			req.fn(e.ctx)
			close(req.done)
		}
	}
}

// runSnapshotManager handles periodic snapshots
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot(e.options.SnapshotOffsetDelta) {
				if err := e.Snapshot(e.ctx); err != nil && e.ctx.Err() == nil {
					e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "periodic_snapshot"))
				}
			}
		}
	}
}

func (e *Engine) runAggregator() {
	defer e.wg.Done()
	if e.aggregator == nil {
		return
	}
	_ = e.aggregator.Run(e.ctx)
}

// do runs fn on the worker goroutine and waits for it.
func (e *Engine) do(ctx context.Context, fn func(ctx context.Context)) error {
	if !e.running.Load() {
		return ErrEngineStopped
	}
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case e.requests <- req:
	case <-e.ctx.Done():
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// the worker always completes a request it accepted
	<-req.done
	return nil
}

// Snapshot stores a snapshot of the shard at the last processed offset.
func (e *Engine) Snapshot(ctx context.Context) error {
	e.snapshotMu.Lock()
	defer e.snapshotMu.Unlock()

	var snap *snapshotv1.Snapshot
	if err := e.do(ctx, func(context.Context) { snap = e.createSnapshot() }); err != nil {
		return err
	}
	return e.storeSnapshot(ctx, snap)
}

// shouldCreateSnapshot reports whether at least delta offsets were processed since the last snapshot.
func (e *Engine) shouldCreateSnapshot(delta int64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.orderOffset < 0 {
		return false
	}
	return e.orderOffset-e.lastSnapshotOffset >= delta
}

// createSnapshot must run on the worker goroutine or after it stopped.
func (e *Engine) createSnapshot() *snapshotv1.Snapshot {
	e.mu.RLock()
	snap := &snapshotv1.Snapshot{
		Shard:       e.shard,
		OrderOffset: e.orderOffset,
		Sequence:    e.sequence,
	}
	e.mu.RUnlock()
	if !e.clock.IsZero() {
		snap.Clock = e.clock.UnixMilli()
	}

	for _, symbol := range e.symbols() {
		snap.Books = append(snap.Books, e.books[symbol].Snapshot())
	}
	snap.Breakers = e.breaker.States()
	for symbol := range e.halted {
		snap.Halted = append(snap.Halted, symbol)
	}
	sort.Strings(snap.Halted)
	return snap
}

func (e *Engine) storeSnapshot(ctx context.Context, snap *snapshotv1.Snapshot) error {
	e.logger.Info("Creating snapshot", logger.NewField("currentOffset", snap.OrderOffset))

	if err := e.snapshotStore.Store(ctx, snap); err != nil {
		e.logger.ErrorContext(ctx, err, logger.NewField("action", "store_snapshot"))
		return err
	}

	e.mu.Lock()
	if snap.OrderOffset > e.lastSnapshotOffset {
		e.lastSnapshotOffset = snap.OrderOffset
	}
	e.mu.Unlock()
	snapshotsStored.WithLabelValues(strconv.Itoa(e.shard)).Inc()

	e.logger.Info("Snapshot stored successfully",
		logger.NewField("offset", snap.OrderOffset),
		logger.NewField("sequence", snap.Sequence),
		logger.NewField("books", len(snap.Books)),
	)
	return nil
}

// loadSnapshot restores the books, breakers and halted symbols of the shard.
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snap, err := e.snapshotStore.LoadStore(ctx, e.shard)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	for _, bs := range snap.Books {
		book := e.newBook(bs.Symbol)
		if err := book.Restore(bs); err != nil {
			return errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
		}
		e.books[bs.Symbol] = book
	}
	e.breaker.Restore(snap.Breakers...)
	for _, symbol := range snap.Halted {
		e.halted[symbol] = struct{}{}
	}
	if snap.Clock > 0 {
		e.clock = time.UnixMilli(snap.Clock).UTC()
	}

	now := time.Now().UTC()
	if e.aggregator != nil {
		for _, symbol := range e.symbols() {
			e.aggregator.Rebuild(symbol, e.books[symbol].RestingOrders(), now)
		}
	}

	e.mu.Lock()
	e.orderOffset = snap.OrderOffset
	e.lastSnapshotOffset = snap.OrderOffset
	e.sequence = snap.Sequence
	e.mu.Unlock()

	e.logger.Info("Orderbooks restored from snapshot",
		logger.NewField("orderOffset", snap.OrderOffset),
		logger.NewField("sequence", snap.Sequence),
		logger.NewField("books", len(snap.Books)),
		logger.NewField("halted", len(snap.Halted)),
	)
	return nil
}

func (e *Engine) symbols() []string {
	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// advance records a processed message.
func (e *Engine) advance(offset int64, sequence uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
	if sequence > e.sequence {
		e.sequence = sequence
		close(e.progress)
		e.progress = make(chan struct{})
	}
}

// WaitProcessed blocks until every command up to sequence was processed.
func (e *Engine) WaitProcessed(ctx context.Context, sequence uint64) error {
	for {
		e.mu.RLock()
		done := e.sequence >= sequence
		progress := e.progress
		e.mu.RUnlock()
		if done {
			return nil
		}

		var stopped <-chan struct{}
		if e.ctx != nil {
			stopped = e.ctx.Done()
		}
		select {
		case <-progress:
		case <-stopped:
			return ErrEngineStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// GetOrderOffset returns the last processed log offset
func (e *Engine) GetOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

// GetLastSnapshotOffset returns the last snapshot offset
func (e *Engine) GetLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

// GetSequence returns the last processed command sequence.
func (e *Engine) GetSequence() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sequence
}
