package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	eventpublisherv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/event-publisher/v1"
	eventpublisherv1_mock "github.com/muhammadchandra19/spot-exchange/internal/domain/event-publisher/v1/mock"
	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	ledgerv1_mock "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1/mock"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	memledger "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/memory/ledger"
	memorderlog "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/memory/orderlog"
	pebblesnapshot "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/pebble/snapshot"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/aggregator"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/ledger"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/orderbook"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/settings"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

const btc = "BTC/USDT"

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func testSettings() *settings.Settings {
	market := func(symbol, coin string, shard int) settings.Market {
		return settings.Market{
			Symbol:            symbol,
			Coin:              coin,
			Currency:          "USDT",
			Shard:             shard,
			PricePrecision:    2,
			QuantityPrecision: 8,
			MinQuantity:       d("0.0001"),
			Buckets:           []decimal.Decimal{decimal.Zero, d("10")},
			TradingEnabled:    true,
			Breaker:           circuitbreakerv1.Settings{Disabled: true},
		}
	}
	return &settings.Settings{
		FeeAccount:        "fees",
		MarketBuySlippage: d("0.05"),
		StopTriggerPolicy: orderbookv1.TriggerLastPrice,
		Breaker:           circuitbreakerv1.Settings{Disabled: true},
		FeeTiers:          map[string]settings.FeeTier{settings.DefaultTier: {}},
		Markets: map[string]settings.Market{
			btc:        market(btc, "BTC", 0),
			"ETH/USDT": market("ETH/USDT", "ETH", 0),
		},
	}
}

type fixture struct {
	t         *testing.T
	log       *memorderlog.Log
	ledger    *ledger.Ledger
	registry  *settings.Registry
	snapshots *pebblesnapshot.Store
	aggs      map[int]*aggregator.Aggregator
	sequences map[int]uint64
	clock     time.Time
}

func newFixture(t *testing.T, s *settings.Settings) *fixture {
	snapshots, err := pebblesnapshot.NewStore(t.TempDir(), logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = snapshots.Close() })

	f := &fixture{
		t:         t,
		log:       memorderlog.NewLog(),
		ledger:    ledger.NewLedger(memledger.NewStore(), "fees", logger.NewNopLogger()),
		registry:  settings.NewRegistry(s, "", logger.NewNopLogger()),
		snapshots: snapshots,
		aggs:      make(map[int]*aggregator.Aggregator),
		sequences: make(map[int]uint64),
		clock:     base,
	}
	f.deposit("alice", "USDT", "10000")
	f.deposit("bob", "BTC", "10")
	return f
}

func (f *fixture) deposit(user, asset, amount string) {
	require.NoError(f.t, f.ledger.Deposit(context.Background(), user, asset, d(amount)))
}

func (f *fixture) balance(user, asset string) ledgerv1.Balance {
	b, err := f.ledger.Balance(context.Background(), user, asset)
	require.NoError(f.t, err)
	return b
}

func (f *fixture) newEngine(shard int, l ledgerv1.Ledger, publisher eventpublisherv1.Publisher) *Engine {
	agg := aggregator.NewAggregator(f.registry, nil, logger.NewNopLogger(), aggregator.DefaultOptions())
	f.aggs[shard] = agg

	e, err := NewEngine(shard, f.log.NewReader(shard), f.snapshots, l, f.registry, agg, publisher,
		logger.NewNopLogger(), &Options{
			SnapshotInterval:    time.Hour,
			SnapshotOffsetDelta: 1000,
			PublishBuffer:       64,
			PublishMaxElapsed:   time.Second,
			RetryMaxInterval:    100 * time.Millisecond,
		})
	require.NoError(f.t, err)
	return e
}

func (f *fixture) start(e *Engine) *Engine {
	require.NoError(f.t, e.Start(context.Background()))
	f.t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Stop(ctx)
	})
	return e
}

// crash stops e without the final snapshot a graceful stop stores.
func (f *fixture) crash(e *Engine) {
	e.running.Store(false)
	e.cancel()
	e.wg.Wait()
}

func (f *fixture) append(shard int, cmd orderv1.Command) uint64 {
	f.clock = f.clock.Add(time.Second)
	return f.appendAt(shard, cmd, f.clock)
}

// appendAt writes cmd stamped with at, leaving the fixture clock alone.
func (f *fixture) appendAt(shard int, cmd orderv1.Command, at time.Time) uint64 {
	f.sequences[shard]++
	cmd.Sequence = f.sequences[shard]
	cmd.Data.Timestamp = at.UnixMilli()
	require.NoError(f.t, f.log.Append(context.Background(), shard, cmd))
	return cmd.Sequence
}

func (f *fixture) place(shard int, id, user string, side orderv1.Side, qty, price string) uint64 {
	data := orderv1.CommandData{
		ID:       id,
		Symbol:   btc,
		Side:     side,
		Type:     orderv1.KindLimit,
		Quantity: d(qty),
		UserID:   user,
	}
	if price == "" {
		data.Type = orderv1.KindMarket
	} else {
		data.Price = dp(price)
	}
	return f.append(shard, orderv1.Command{Code: orderv1.PlaceOrder, Data: data})
}

func (f *fixture) cancel(shard int, id, user string) uint64 {
	return f.append(shard, orderv1.Command{
		Code: orderv1.CancelOrder,
		Data: orderv1.CommandData{ID: id, Symbol: btc, UserID: user},
	})
}

func (f *fixture) wait(e *Engine, sequence uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(f.t, e.WaitProcessed(ctx, sequence))
}

func (f *fixture) depth(e *Engine) orderbookv1.Depth {
	depth, err := e.Depth(context.Background(), btc, 10)
	require.NoError(f.t, err)
	return depth
}

type recorder struct {
	mu      sync.Mutex
	trades  []orderv1.Trade
	updates []orderv1.OrderUpdate
}

func (r *recorder) update(orderID string, status orderv1.Status) (orderv1.OrderUpdate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.updates {
		if u.ID == orderID && u.Status == status {
			return u, true
		}
	}
	return orderv1.OrderUpdate{}, false
}

func (r *recorder) tradeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trades)
}

func (r *recorder) lastTrade() orderv1.Trade {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trades[len(r.trades)-1]
}

func recordingPublisher(ctrl *gomock.Controller) (*eventpublisherv1_mock.MockPublisher, *recorder) {
	r := &recorder{}
	p := eventpublisherv1_mock.NewMockPublisher(ctrl)
	p.EXPECT().PublishTrades(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, trades ...orderv1.Trade) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.trades = append(r.trades, trades...)
			return nil
		}).AnyTimes()
	p.EXPECT().PublishOrderUpdates(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, updates ...orderv1.OrderUpdate) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.updates = append(r.updates, updates...)
			return nil
		}).AnyTimes()
	return p, r
}

func TestEngine_PlaceMatchAndSettle(t *testing.T) {
	ctrl := gomock.NewController(t)

	f := newFixture(t, testSettings())
	publisher, events := recordingPublisher(ctrl)
	e := f.start(f.newEngine(0, f.ledger, publisher))

	f.place(0, "s1", "bob", orderv1.SideSell, "2", "100")
	seq := f.place(0, "b1", "alice", orderv1.SideBuy, "3", "101")
	f.wait(e, seq)

	usdt := f.balance("alice", "USDT")
	assert.Equal(t, "9800", usdt.Balance.String())
	assert.Equal(t, "9697", usdt.Available.String())
	assert.Equal(t, "2", f.balance("alice", "BTC").Balance.String())
	assert.Equal(t, "8", f.balance("bob", "BTC").Balance.String())
	assert.Equal(t, "8", f.balance("bob", "BTC").Available.String())
	assert.Equal(t, "200", f.balance("bob", "USDT").Available.String())

	depth := f.depth(e)
	require.Len(t, depth.Bids, 1)
	assert.Empty(t, depth.Asks)
	assert.Equal(t, "101", depth.Bids[0].Price.String())
	assert.Equal(t, "1", depth.Bids[0].Quantity.String())

	levels := f.aggs[0].Depth(btc, orderv1.SideBuy, d("10"), 5)
	require.Len(t, levels, 1)
	assert.Equal(t, "100", levels[0].Price.String())
	assert.Equal(t, "1", levels[0].Quantity.String())

	seq = f.cancel(0, "b1", "alice")
	f.wait(e, seq)

	usdt = f.balance("alice", "USDT")
	assert.Equal(t, "9800", usdt.Available.String())
	assert.Empty(t, f.depth(e).Bids)
	assert.Empty(t, f.aggs[0].Depth(btc, orderv1.SideBuy, d("10"), 5))

	assert.Eventually(t, func() bool {
		_, canceled := events.update("b1", orderv1.StatusCanceled)
		return events.tradeCount() == 1 && canceled
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEngine_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(f *fixture) (orderID string, seq uint64)
		assertFn func(t *testing.T, f *fixture, u orderv1.OrderUpdate)
		status   orderv1.Status
	}{
		{
			name: "reservation exceeds available balance",
			mockFn: func(f *fixture) (string, uint64) {
				return "c1", f.place(0, "c1", "carol", orderv1.SideBuy, "1", "100")
			},
			status: orderv1.StatusRejected,
			assertFn: func(t *testing.T, f *fixture, u orderv1.OrderUpdate) {
				assert.Equal(t, ReasonInsufficientBalance, u.Reason)
			},
		},
		{
			name: "market buy without asks",
			mockFn: func(f *fixture) (string, uint64) {
				return "m1", f.place(0, "m1", "alice", orderv1.SideBuy, "1", "")
			},
			status: orderv1.StatusCanceled,
			assertFn: func(t *testing.T, f *fixture, u orderv1.OrderUpdate) {
				assert.Equal(t, orderbook.ReasonNoLiquidity, u.Reason)
				usdt := f.balance("alice", "USDT")
				assert.Equal(t, "10000", usdt.Available.String())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			f := newFixture(t, testSettings())
			publisher, events := recordingPublisher(ctrl)
			e := f.start(f.newEngine(0, f.ledger, publisher))

			orderID, seq := tc.mockFn(f)
			f.wait(e, seq)

			_, found, err := e.Order(context.Background(), btc, orderID)
			require.NoError(t, err)
			assert.False(t, found)

			var update orderv1.OrderUpdate
			require.Eventually(t, func() bool {
				var ok bool
				update, ok = events.update(orderID, tc.status)
				return ok
			}, 2*time.Second, 10*time.Millisecond)
			tc.assertFn(t, f, update)
		})
	}
}

func TestEngine_MarketBuyReservesQuoteWithSlippage(t *testing.T) {
	f := newFixture(t, testSettings())
	e := f.start(f.newEngine(0, f.ledger, nil))

	f.place(0, "s1", "bob", orderv1.SideSell, "1", "100")
	seq := f.place(0, "m1", "alice", orderv1.SideBuy, "1", "")
	f.wait(e, seq)

	usdt := f.balance("alice", "USDT")
	assert.Equal(t, "9900", usdt.Balance.String())
	assert.Equal(t, "9900", usdt.Available.String())
	assert.Equal(t, "1", f.balance("alice", "BTC").Balance.String())
}

func TestEngine_SkipsProcessedSequences(t *testing.T) {
	f := newFixture(t, testSettings())
	e := f.start(f.newEngine(0, f.ledger, nil))

	f.place(0, "b1", "alice", orderv1.SideBuy, "1", "90")
	require.NoError(t, f.log.Append(context.Background(), 0, orderv1.Command{
		Code:     orderv1.PlaceOrder,
		Sequence: 1,
		Data: orderv1.CommandData{
			ID: "b2", Symbol: btc, Side: orderv1.SideBuy, Type: orderv1.KindLimit,
			Quantity: d("1"), Price: dp("91"), UserID: "alice", Timestamp: base.UnixMilli(),
		},
	}))
	seq := f.place(0, "b3", "alice", orderv1.SideBuy, "1", "92")
	f.wait(e, seq)

	for id, want := range map[string]bool{"b1": true, "b2": false, "b3": true} {
		_, found, err := e.Order(context.Background(), btc, id)
		require.NoError(t, err)
		assert.Equal(t, want, found, id)
	}
	assert.Equal(t, int64(2), e.GetOrderOffset())
	assert.Equal(t, "9818", f.balance("alice", "USDT").Available.String())
}

func TestEngine_CancelByAnotherUserIgnored(t *testing.T) {
	f := newFixture(t, testSettings())
	e := f.start(f.newEngine(0, f.ledger, nil))

	f.place(0, "b1", "alice", orderv1.SideBuy, "1", "90")
	seq := f.cancel(0, "b1", "bob")
	f.wait(e, seq)

	order, found, err := e.Order(context.Background(), btc, "b1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, orderv1.StatusPending, order.Status)
	assert.Equal(t, "9910", f.balance("alice", "USDT").Available.String())
}

func TestEngine_HaltsSymbolOnLedgerInvariant(t *testing.T) {
	ctrl := gomock.NewController(t)

	f := newFixture(t, testSettings())
	mockLedger := ledgerv1_mock.NewMockLedger(ctrl)
	// two BTC orders and one ETH order; the refused BTC order never reserves
	mockLedger.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	mockLedger.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("trade debits too much: %w", ledgerv1.ErrReservationViolated))

	e := f.start(f.newEngine(0, mockLedger, nil))

	f.place(0, "s1", "bob", orderv1.SideSell, "1", "100")
	f.place(0, "b1", "alice", orderv1.SideBuy, "1", "100")
	f.place(0, "b2", "alice", orderv1.SideBuy, "1", "100")
	seq := f.append(0, orderv1.Command{
		Code: orderv1.PlaceOrder,
		Data: orderv1.CommandData{
			ID: "e1", Symbol: "ETH/USDT", Side: orderv1.SideBuy, Type: orderv1.KindLimit,
			Quantity: d("1"), Price: dp("10"), UserID: "alice",
		},
	})
	f.wait(e, seq)

	halted, err := e.Halted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{btc}, halted)

	_, found, err := e.Order(context.Background(), "ETH/USDT", "e1")
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, e.Snapshot(context.Background()))
	snap, err := f.snapshots.LoadStore(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{btc}, snap.Halted)
	assert.Equal(t, seq, snap.Sequence)
}

func TestEngine_RestoresAndReplays(t *testing.T) {
	f := newFixture(t, testSettings())
	e1 := f.start(f.newEngine(0, f.ledger, nil))

	f.place(0, "s1", "bob", orderv1.SideSell, "2", "100")
	seq := f.place(0, "b1", "alice", orderv1.SideBuy, "1", "100")
	f.wait(e1, seq)
	require.NoError(t, e1.Snapshot(context.Background()))
	assert.Equal(t, int64(1), e1.GetLastSnapshotOffset())

	seq = f.place(0, "b2", "alice", orderv1.SideBuy, "1", "100")
	f.wait(e1, seq)
	f.crash(e1)

	accounts := []ledgerv1.AccountKey{
		{UserID: "alice", Asset: "USDT"},
		{UserID: "alice", Asset: "BTC"},
		{UserID: "bob", Asset: "USDT"},
		{UserID: "bob", Asset: "BTC"},
	}
	balances := make(map[ledgerv1.AccountKey]ledgerv1.Balance)
	for _, key := range accounts {
		balances[key] = f.balance(key.UserID, key.Asset)
	}
	assert.Equal(t, "9800", balances[accounts[0]].Available.String())

	e2 := f.newEngine(0, f.ledger, nil)
	assert.Equal(t, int64(1), e2.GetOrderOffset())
	assert.Equal(t, uint64(2), e2.GetSequence())
	f.start(e2)
	f.wait(e2, seq)

	for key, want := range balances {
		got := f.balance(key.UserID, key.Asset)
		assert.True(t, want.Balance.Equal(got.Balance), key)
		assert.True(t, want.Available.Equal(got.Available), key)
	}
	depth := f.depth(e2)
	assert.Empty(t, depth.Bids)
	assert.Empty(t, depth.Asks)

	seq = f.place(0, "s2", "bob", orderv1.SideSell, "1", "99")
	f.wait(e2, seq)
	depth = f.depth(e2)
	require.Len(t, depth.Asks, 1)
	assert.Equal(t, "99", depth.Asks[0].Price.String())
}

func TestEngine_DetachAttach(t *testing.T) {
	f := newFixture(t, testSettings())
	e0 := f.start(f.newEngine(0, f.ledger, nil))
	e1 := f.start(f.newEngine(1, f.ledger, nil))
	ctx := context.Background()

	f.place(0, "s1", "bob", orderv1.SideSell, "1", "105")
	seq := f.place(0, "b1", "alice", orderv1.SideBuy, "1", "95")
	f.wait(e0, seq)

	state, err := e0.Detach(ctx, btc)
	require.NoError(t, err)
	assert.Len(t, state.Book.Orders, 2)
	assert.False(t, state.Halted)
	assert.Empty(t, f.depth(e0).Bids)
	assert.Empty(t, f.aggs[0].Depth(btc, orderv1.SideBuy, decimal.Zero, 5))

	snap, err := f.snapshots.LoadStore(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Books)

	require.NoError(t, e1.Attach(ctx, state))
	depth := f.depth(e1)
	assert.Len(t, depth.Bids, 1)
	assert.Len(t, depth.Asks, 1)
	assert.Len(t, f.aggs[1].Depth(btc, orderv1.SideSell, decimal.Zero, 5), 1)

	seq = f.cancel(1, "b1", "alice")
	f.wait(e1, seq)
	assert.Equal(t, "10000", f.balance("alice", "USDT").Available.String())
	assert.Empty(t, f.depth(e1).Bids)
}

func TestEngine_CircuitBreakerParksOrders(t *testing.T) {
	ctrl := gomock.NewController(t)

	s := testSettings()
	market := s.Markets[btc]
	market.Breaker = circuitbreakerv1.Settings{Percent: d("10"), ListenWindow: time.Hour, BlockTime: time.Minute}
	s.Markets[btc] = market

	f := newFixture(t, s)
	publisher, events := recordingPublisher(ctrl)
	e := f.start(f.newEngine(0, f.ledger, publisher))

	f.place(0, "s1", "bob", orderv1.SideSell, "1", "100")
	f.place(0, "b1", "alice", orderv1.SideBuy, "1", "100")
	f.place(0, "s2", "bob", orderv1.SideSell, "1", "120")
	f.place(0, "b2", "alice", orderv1.SideBuy, "1", "120")
	seq := f.place(0, "b3", "alice", orderv1.SideBuy, "1", "121")
	f.wait(e, seq)

	_, found, err := e.Order(context.Background(), btc, "b3")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, f.depth(e).Bids)
	require.Eventually(t, func() bool {
		u, ok := events.update("b3", orderv1.StatusPending)
		return ok && u.Reason == orderbook.ReasonParked
	}, 2*time.Second, 10*time.Millisecond)

	f.clock = f.clock.Add(2 * time.Minute)
	seq = f.place(0, "s3", "bob", orderv1.SideSell, "1", "121")
	f.wait(e, seq)

	assert.Equal(t, "3", f.balance("alice", "BTC").Balance.String())
	_, found, err = e.Order(context.Background(), btc, "b3")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEngine_WaitProcessedHonoursContext(t *testing.T) {
	f := newFixture(t, testSettings())
	e := f.start(f.newEngine(0, f.ledger, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.WaitProcessed(ctx, 5), context.DeadlineExceeded)
}

func TestEngine_RequestsAfterStop(t *testing.T) {
	f := newFixture(t, testSettings())
	e := f.start(f.newEngine(0, f.ledger, nil))
	require.NoError(t, e.Stop(context.Background()))

	_, err := e.Depth(context.Background(), btc, 10)
	assert.ErrorIs(t, err, ErrEngineStopped)
}

func TestEngine_ClockNeverRunsBackwards(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	f := newFixture(t, testSettings())
	publisher, events := recordingPublisher(ctrl)
	e := f.start(f.newEngine(0, f.ledger, publisher))

	stale := base.Add(-time.Hour)
	buy := func(id string) orderv1.Command {
		return orderv1.Command{Code: orderv1.PlaceOrder, Data: orderv1.CommandData{
			ID: id, Symbol: btc, Side: orderv1.SideBuy, Type: orderv1.KindLimit,
			Price: dp("100"), Quantity: d("1"), UserID: "alice",
		}}
	}

	f.place(0, "s1", "bob", orderv1.SideSell, "1", "100")
	latest := f.clock
	seq := f.appendAt(0, buy("b1"), stale)
	f.wait(e, seq)

	require.Eventually(t, func() bool { return events.tradeCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, events.lastTrade().ExecutedAt.Equal(latest), "a stale command runs at the shard clock")

	require.NoError(t, e.Snapshot(ctx))
	snap, err := f.snapshots.LoadStore(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, latest.UnixMilli(), snap.Clock)

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, e.Stop(stopCtx))

	restored := f.start(f.newEngine(0, f.ledger, publisher))
	f.appendAt(0, orderv1.Command{Code: orderv1.PlaceOrder, Data: orderv1.CommandData{
		ID: "s2", Symbol: btc, Side: orderv1.SideSell, Type: orderv1.KindLimit,
		Price: dp("100"), Quantity: d("1"), UserID: "bob",
	}}, stale)
	seq = f.appendAt(0, buy("b2"), stale)
	f.wait(restored, seq)

	require.Eventually(t, func() bool { return events.tradeCount() == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, events.lastTrade().ExecutedAt.Equal(latest), "the clock survives a restart")
}

func TestEngine_OrderIDHeldOnAnotherSymbol(t *testing.T) {
	ctx := context.Background()
	const eth = "ETH/USDT"

	order := func(id, user string, side orderv1.Side, qty, price string) orderv1.Command {
		return orderv1.Command{Code: orderv1.PlaceOrder, Data: orderv1.CommandData{
			ID: id, Symbol: eth, Side: side, Type: orderv1.KindLimit,
			Price: dp(price), Quantity: d(qty), UserID: user,
		}}
	}

	testCases := []struct {
		name     string
		ethShard int
	}{
		{name: "same shard", ethShard: 0},
		{name: "another shard", ethShard: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := testSettings()
			market := s.Markets[eth]
			market.Shard = tc.ethShard
			s.Markets[eth] = market

			f := newFixture(t, s)
			btcEngine := f.start(f.newEngine(0, f.ledger, nil))
			ethEngine := btcEngine
			if tc.ethShard != 0 {
				ethEngine = f.start(f.newEngine(tc.ethShard, f.ledger, nil))
			}

			f.wait(btcEngine, f.place(0, "dup", "bob", orderv1.SideSell, "1", "100"))

			f.append(tc.ethShard, order("dup", "mallory", orderv1.SideSell, "5", "100"))
			f.wait(ethEngine, f.append(tc.ethShard, order("a1", "alice", orderv1.SideBuy, "5", "100")))

			for _, e := range []*Engine{btcEngine, ethEngine} {
				halted, err := e.Halted(ctx)
				require.NoError(t, err)
				assert.Empty(t, halted)
			}

			depth, err := ethEngine.Depth(ctx, eth, 10)
			require.NoError(t, err)
			assert.Empty(t, depth.Asks, "the colliding order never rests")
			require.Len(t, depth.Bids, 1)
			assert.Equal(t, "5", depth.Bids[0].Quantity.String())

			held, found, err := btcEngine.Order(ctx, btc, "dup")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "bob", held.UserID)
			assert.Equal(t, "9", f.balance("bob", "BTC").Available.String())
			assert.Equal(t, "9500", f.balance("alice", "USDT").Available.String())
			assert.True(t, f.balance("mallory", "ETH").Balance.IsZero())
		})
	}
}
