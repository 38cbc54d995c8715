package aggregator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/shopspring/decimal"
)

// BucketSource returns the tick sizes depth of a symbol is aggregated at.
type BucketSource interface {
	Buckets(symbol string) []decimal.Decimal
}

// Options tunes publication.
type Options struct {
	// QueueSize bounds the batches waiting for the publisher.
	QueueSize int
	// PublishMaxElapsed bounds the retries of one batch.
	PublishMaxElapsed time.Duration
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{QueueSize: 4096, PublishMaxElapsed: 30 * time.Second}
}

type rowKey struct {
	side   orderv1.Side
	bucket string
	price  string
}

type userRowKey struct {
	userID string
	rowKey
}

type symbolLevels struct {
	coin, currency string
	global         map[rowKey]*depthv1.Level
	users          map[userRowKey]*depthv1.Level
}

// Aggregator keeps bucketed price levels derived from book deltas. It is
// eventually consistent with the books and can always be rebuilt from them.
type Aggregator struct {
	mu      sync.RWMutex
	symbols map[string]*symbolLevels

	buckets   BucketSource
	publisher depthv1.Publisher
	queue     chan []depthv1.Update
	opts      Options
	logger    logger.Interface

	// overflow holds updates that did not fit in the queue, one per row.
	// While it is not empty every new batch joins it, so rows keep their
	// order. Run flushes it once the queue is drained.
	overflowMu sync.Mutex
	overflow   *backlog
}

// NewAggregator creates an Aggregator. A nil publisher disables publication.
func NewAggregator(buckets BucketSource, publisher depthv1.Publisher, log logger.Interface, opts Options) *Aggregator {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultOptions().QueueSize
	}
	a := &Aggregator{
		symbols:   make(map[string]*symbolLevels),
		buckets:   buckets,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
	if publisher != nil {
		a.queue = make(chan []depthv1.Update, opts.QueueSize)
	}
	return a
}

// OnDelta applies deltas to every bucket of their symbol and queues the
// resulting updates for publication.
func (a *Aggregator) OnDelta(deltas ...orderv1.BookDelta) []depthv1.Update {
	if len(deltas) == 0 {
		return nil
	}

	a.mu.Lock()
	var updates []depthv1.Update
	for _, d := range deltas {
		levels := a.levels(d.Symbol)
		for _, bucket := range a.buckets.Buckets(d.Symbol) {
			key := rowKey{side: d.Side, bucket: bucket.String(), price: BucketPrice(d.Side, d.Price, bucket).String()}
			updates = append(updates, levels.apply(d, bucket, key, ""))
			if d.UserID != "" {
				updates = append(updates, levels.apply(d, bucket, key, d.UserID))
			}
		}
	}
	a.mu.Unlock()

	a.enqueue(updates)
	return updates
}

// Rebuild replaces every row of symbol with rows derived from its resting
// orders. The updates delete the old rows first, then add the new ones.
func (a *Aggregator) Rebuild(symbol string, resting []*orderv1.Order, at time.Time) []depthv1.Update {
	updates := a.Forget(symbol, at)

	deltas := make([]orderv1.BookDelta, 0, len(resting))
	for _, o := range resting {
		if !o.Remaining().IsPositive() {
			continue
		}
		deltas = append(deltas, orderv1.BookDelta{
			Symbol:        symbol,
			Side:          o.Side,
			Price:         o.Price,
			QuantityDelta: o.Remaining(),
			CountDelta:    1,
			UserID:        o.UserID,
			UpdatedAt:     at,
		})
	}
	return append(updates, a.OnDelta(deltas...)...)
}

// Forget drops every row of symbol and publishes their deletion.
func (a *Aggregator) Forget(symbol string, at time.Time) []depthv1.Update {
	a.mu.Lock()
	levels, ok := a.symbols[symbol]
	delete(a.symbols, symbol)
	a.mu.Unlock()
	if !ok {
		return nil
	}

	updates := make([]depthv1.Update, 0, len(levels.global)+len(levels.users))
	for _, l := range levels.global {
		updates = append(updates, deletion(*l, at))
	}
	for _, l := range levels.users {
		updates = append(updates, deletion(*l, at))
	}
	sortUpdates(updates)

	a.enqueue(updates)
	return updates
}

// Depth returns up to limit rows of one side of symbol at bucket, best price first.
// limit <= 0 returns every row.
func (a *Aggregator) Depth(symbol string, side orderv1.Side, bucket decimal.Decimal, limit int) []depthv1.Level {
	a.mu.RLock()
	var out []depthv1.Level
	if levels, ok := a.symbols[symbol]; ok {
		b := bucket.String()
		for key, l := range levels.global {
			if key.side == side && key.bucket == b {
				out = append(out, *l)
			}
		}
	}
	a.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if side == orderv1.SideBuy {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// UserLevels returns the raw price rows of userID in symbol, bids first.
func (a *Aggregator) UserLevels(userID, symbol string) []depthv1.Level {
	a.mu.RLock()
	var out []depthv1.Level
	if levels, ok := a.symbols[symbol]; ok {
		for key, l := range levels.users {
			if key.userID == userID && key.bucket == decimal.Zero.String() {
				out = append(out, *l)
			}
		}
	}
	a.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Side != out[j].Side {
			return out[i].Side == orderv1.SideBuy
		}
		if out[i].Side == orderv1.SideBuy {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

// Run publishes queued updates until ctx is done.
func (a *Aggregator) Run(ctx context.Context) error {
	if a.queue == nil {
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-a.queue:
			a.publish(ctx, batch)
			if len(a.queue) == 0 {
				if pending := a.takeOverflow(); len(pending) > 0 {
					a.publish(ctx, pending)
				}
			}
		}
	}
}

func (a *Aggregator) publish(ctx context.Context, batch []depthv1.Update) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = a.opts.PublishMaxElapsed

	err := backoff.RetryNotify(
		func() error { return a.publisher.Publish(ctx, batch) },
		backoff.WithContext(policy, ctx),
		func(err error, wait time.Duration) {
			publishRetries.Inc()
			a.logger.Warn("Retrying level publication",
				logger.NewField("error", err.Error()),
				logger.NewField("wait", wait.String()),
			)
		},
	)
	if err != nil && ctx.Err() == nil {
		publishFailures.Inc()
		a.logger.Error(err, logger.NewField("updates", len(batch)))
	}
}

// enqueue never blocks the caller. A full queue coalesces updates per row
// into the overflow: every update carries the absolute row, so only the
// latest one of a row has to reach the publisher.
func (a *Aggregator) enqueue(updates []depthv1.Update) {
	if a.queue == nil || len(updates) == 0 {
		return
	}

	a.overflowMu.Lock()
	defer a.overflowMu.Unlock()
	if a.overflow == nil {
		select {
		case a.queue <- updates:
			return
		default:
			a.overflow = newBacklog()
			a.logger.Warn("Level publish queue full, coalescing updates", logger.NewField("updates", len(updates)))
		}
	}
	coalescedBatches.Inc()
	a.overflow.add(updates)
}

func (a *Aggregator) takeOverflow() []depthv1.Update {
	a.overflowMu.Lock()
	defer a.overflowMu.Unlock()
	if a.overflow == nil {
		return nil
	}
	pending := a.overflow.updates
	a.overflow = nil
	return pending
}

type updateKey struct {
	symbol string
	userID string
	rowKey
}

// backlog keeps one update per row in first-seen order.
type backlog struct {
	index   map[updateKey]int
	updates []depthv1.Update
}

func newBacklog() *backlog {
	return &backlog{index: make(map[updateKey]int)}
}

func (b *backlog) add(updates []depthv1.Update) {
	for _, u := range updates {
		key := updateKey{
			symbol: u.Symbol,
			userID: u.UserID,
			rowKey: rowKey{side: u.Side, bucket: u.Bucket.String(), price: u.Price.String()},
		}
		i, ok := b.index[key]
		if !ok {
			b.index[key] = len(b.updates)
			b.updates = append(b.updates, u)
			continue
		}
		merged := u
		merged.QuantityDelta = b.updates[i].QuantityDelta.Add(u.QuantityDelta)
		merged.CountDelta = b.updates[i].CountDelta + u.CountDelta
		b.updates[i] = merged
	}
}

func (a *Aggregator) levels(symbol string) *symbolLevels {
	if l, ok := a.symbols[symbol]; ok {
		return l
	}
	coin, currency, _ := orderv1.ParseSymbol(symbol)
	l := &symbolLevels{
		coin:     coin,
		currency: currency,
		global:   make(map[rowKey]*depthv1.Level),
		users:    make(map[userRowKey]*depthv1.Level),
	}
	a.symbols[symbol] = l
	return l
}

func (s *symbolLevels) apply(d orderv1.BookDelta, bucket decimal.Decimal, key rowKey, userID string) depthv1.Update {
	var (
		row    *depthv1.Level
		exists bool
	)
	if userID == "" {
		row, exists = s.global[key]
	} else {
		row, exists = s.users[userRowKey{userID: userID, rowKey: key}]
	}
	if !exists {
		row = &depthv1.Level{
			Symbol:   d.Symbol,
			Side:     d.Side,
			Coin:     s.coin,
			Currency: s.currency,
			Bucket:   bucket,
			Price:    BucketPrice(d.Side, d.Price, bucket),
			UserID:   userID,
		}
	}

	row.Quantity = row.Quantity.Add(d.QuantityDelta)
	row.Count += d.CountDelta
	row.UpdatedAt = d.UpdatedAt

	update := depthv1.Update{Level: *row, QuantityDelta: d.QuantityDelta, CountDelta: d.CountDelta}
	if !row.Quantity.IsPositive() || row.Count <= 0 {
		update.Deleted = true
		if userID == "" {
			delete(s.global, key)
		} else {
			delete(s.users, userRowKey{userID: userID, rowKey: key})
		}
		return update
	}

	if !exists {
		if userID == "" {
			s.global[key] = row
		} else {
			s.users[userRowKey{userID: userID, rowKey: key}] = row
		}
	}
	return update
}

// BucketPrice maps price to its bucket: bids round down, asks round up.
// A zero bucket is the raw price.
func BucketPrice(side orderv1.Side, price, bucket decimal.Decimal) decimal.Decimal {
	if !bucket.IsPositive() {
		return price
	}
	steps := price.Div(bucket)
	if side == orderv1.SideBuy {
		return steps.Floor().Mul(bucket)
	}
	return steps.Ceil().Mul(bucket)
}

func deletion(l depthv1.Level, at time.Time) depthv1.Update {
	u := depthv1.Update{
		Level:         l,
		QuantityDelta: l.Quantity.Neg(),
		CountDelta:    -l.Count,
		Deleted:       true,
	}
	u.Quantity = decimal.Zero
	u.Count = 0
	u.UpdatedAt = at
	return u
}

func sortUpdates(updates []depthv1.Update) {
	sort.Slice(updates, func(i, j int) bool {
		a, b := updates[i], updates[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if a.Side != b.Side {
			return a.Side < b.Side
		}
		if !a.Bucket.Equal(b.Bucket) {
			return a.Bucket.LessThan(b.Bucket)
		}
		return a.Price.LessThan(b.Price)
	})
}
