package cluster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadchandra19/spot-exchange/internal/app/engine"
	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderlogv1_mock "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1/mock"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	memledger "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/memory/ledger"
	memorderlog "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/memory/orderlog"
	pebblesnapshot "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/pebble/snapshot"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/aggregator"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/ledger"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/router"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/settings"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

const btc = "BTC/USDT"

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

type testCluster struct {
	log      *memorderlog.Log
	ledger   *ledger.Ledger
	registry *settings.Registry
	store    *pebblesnapshot.Store
}

func newTestCluster(t *testing.T) *testCluster {
	store, err := pebblesnapshot.NewStore(t.TempDir(), logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := &settings.Settings{
		FeeAccount:        "fees",
		MarketBuySlippage: decimal.RequireFromString("0.05"),
		FeeTiers:          map[string]settings.FeeTier{settings.DefaultTier: {}},
		Markets: map[string]settings.Market{
			btc: {
				Symbol:            btc,
				Coin:              "BTC",
				Currency:          "USDT",
				Shard:             0,
				PricePrecision:    2,
				QuantityPrecision: 8,
				MinQuantity:       decimal.RequireFromString("0.001"),
				TradingEnabled:    true,
				Breaker:           circuitbreakerv1.Settings{Disabled: true},
			},
		},
	}

	tc := &testCluster{
		log:      memorderlog.NewLog(),
		ledger:   ledger.NewLedger(memledger.NewStore(), "fees", logger.NewNopLogger()),
		registry: settings.NewRegistry(s, "", logger.NewNopLogger()),
		store:    store,
	}
	ctx := context.Background()
	require.NoError(t, tc.ledger.Deposit(ctx, "alice", "USDT", decimal.RequireFromString("10000")))
	require.NoError(t, tc.ledger.Deposit(ctx, "bob", "BTC", decimal.RequireFromString("10")))
	return tc
}

func (tc *testCluster) shard(t *testing.T, id int, reader orderlogv1.Reader) *Shard {
	agg := aggregator.NewAggregator(tc.registry, nil, logger.NewNopLogger(), aggregator.DefaultOptions())
	e, err := engine.NewEngine(id, reader, tc.store, tc.ledger, tc.registry, agg, nil, logger.NewNopLogger(), nil)
	require.NoError(t, err)
	return &Shard{ID: id, Engine: e, Aggregator: agg}
}

func place(id, user string, side orderv1.Side, price string) orderv1.Command {
	return orderv1.Command{
		Code: orderv1.PlaceOrder,
		Data: orderv1.CommandData{
			ID:       id,
			Symbol:   btc,
			Side:     side,
			Type:     orderv1.KindLimit,
			Price:    d(price),
			Quantity: decimal.RequireFromString("1"),
			UserID:   user,
		},
	}
}

func TestCluster_RemapMovesBookBetweenShards(t *testing.T) {
	tc := newTestCluster(t)
	ctx := context.Background()

	c := NewCluster(logger.NewNopLogger(),
		tc.shard(t, 0, tc.log.NewReader(0)),
		tc.shard(t, 1, tc.log.NewReader(1)),
	)
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	r, err := router.NewRouter(ctx, tc.registry, tc.log, c, c, logger.NewNopLogger(), router.Options{
		Shards:           c.IDs(),
		AppendMaxElapsed: time.Second,
	})
	require.NoError(t, err)

	_, err = r.Submit(ctx, place("s1", "bob", orderv1.SideSell, "105"))
	require.NoError(t, err)
	receipt, err := r.Submit(ctx, place("b1", "alice", orderv1.SideBuy, "95"))
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.Shard)

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	require.NoError(t, r.Remap(waitCtx, btc, 1))
	assert.Equal(t, 1, r.Table().Shard(btc))

	receipt, err = r.Submit(ctx, orderv1.Command{
		Code: orderv1.CancelOrder,
		Data: orderv1.CommandData{ID: "b1", Symbol: btc, UserID: "alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Shard)
	assert.Equal(t, uint64(1), receipt.Sequence)
	require.NoError(t, c.WaitProcessed(waitCtx, 1, receipt.Sequence))

	balance, err := tc.ledger.Balance(ctx, "alice", "USDT")
	require.NoError(t, err)
	assert.Equal(t, "10000", balance.Available.String())

	s0, err := c.Shard(0)
	require.NoError(t, err)
	s1, err := c.Shard(1)
	require.NoError(t, err)

	depth, err := s0.Engine.Depth(ctx, btc, 10)
	require.NoError(t, err)
	assert.Empty(t, depth.Asks)

	depth, err = s1.Engine.Depth(ctx, btc, 10)
	require.NoError(t, err)
	assert.Empty(t, depth.Bids)
	require.Len(t, depth.Asks, 1)
	assert.Equal(t, "105", depth.Asks[0].Price.String())
	assert.Len(t, s1.Aggregator.Depth(btc, orderv1.SideSell, decimal.Zero, 10), 1)
	assert.Empty(t, s0.Aggregator.Depth(btc, orderv1.SideSell, decimal.Zero, 10))

	halted, err := c.Halted(ctx)
	require.NoError(t, err)
	assert.Empty(t, halted)

	books := NewBooks(c, r)
	depth, err = books.Depth(ctx, btc, 10)
	require.NoError(t, err)
	assert.Len(t, depth.Asks, 1)

	levels, err := books.Levels(ctx, btc, orderv1.SideSell, decimal.Zero, 10)
	require.NoError(t, err)
	assert.Len(t, levels, 1)

	levels, err = books.UserLevels(ctx, "bob", btc)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "bob", levels[0].UserID)

	order, found, err := books.Order(ctx, btc, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "bob", order.UserID)
}

func TestCluster_UnknownShard(t *testing.T) {
	tc := newTestCluster(t)
	c := NewCluster(logger.NewNopLogger(), tc.shard(t, 0, tc.log.NewReader(0)))
	ctx := context.Background()

	testCases := []struct {
		name string
		call func() error
	}{
		{
			name: "wait processed",
			call: func() error { return c.WaitProcessed(ctx, 7, 1) },
		},
		{
			name: "detach",
			call: func() error {
				_, err := c.Detach(ctx, 7, btc)
				return err
			},
		},
		{
			name: "attach",
			call: func() error {
				return c.Attach(ctx, 7, &snapshotv1.SymbolState{Book: snapshotv1.BookSnapshot{Symbol: btc}})
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), router.ErrUnknownShard)
		})
	}
}

func TestCluster_StartStopsStartedShardsOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	tc := newTestCluster(t)

	broken := orderlogv1_mock.NewMockReader(ctrl)
	broken.EXPECT().LastOffset(gomock.Any()).Return(int64(0), errors.New("broker unavailable"))

	c := NewCluster(logger.NewNopLogger(),
		tc.shard(t, 0, tc.log.NewReader(0)),
		tc.shard(t, 1, broken),
	)
	assert.Error(t, c.Start(context.Background()))
	assert.Equal(t, []int{0, 1}, c.IDs())

	s0, err := c.Shard(0)
	require.NoError(t, err)
	_, err = s0.Engine.Depth(context.Background(), btc, 10)
	assert.ErrorIs(t, err, engine.ErrEngineStopped)
}

func TestCluster_RouterClockDrivesBreaker(t *testing.T) {
	tc := newTestCluster(t)
	ctx := context.Background()

	s := *tc.registry.Load()
	market := s.Markets[btc]
	market.Breaker = circuitbreakerv1.Settings{
		Percent:      decimal.RequireFromString("10"),
		ListenWindow: time.Hour,
		BlockTime:    time.Hour,
	}
	s.Markets = map[string]settings.Market{btc: market}
	tc.registry.Swap(&s)

	c := NewCluster(logger.NewNopLogger(), tc.shard(t, 0, tc.log.NewReader(0)))
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { _ = c.Stop(context.Background()) })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r, err := router.NewRouter(ctx, tc.registry, tc.log, c, c, logger.NewNopLogger(), router.Options{
		Shards:           c.IDs(),
		AppendMaxElapsed: time.Second,
		Clock:            func() time.Time { return now },
	})
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	submit := func(cmd orderv1.Command) {
		now = now.Add(time.Second)
		receipt, err := r.Submit(ctx, cmd)
		require.NoError(t, err)
		require.NoError(t, c.WaitProcessed(waitCtx, 0, receipt.Sequence))
	}
	btcBalance := func() string {
		b, err := tc.ledger.Balance(ctx, "alice", "BTC")
		require.NoError(t, err)
		return b.Balance.String()
	}

	submit(place("s1", "bob", orderv1.SideSell, "100"))
	submit(place("b1", "alice", orderv1.SideBuy, "100"))
	submit(place("s2", "bob", orderv1.SideSell, "120"))
	submit(place("b2", "alice", orderv1.SideBuy, "120"))
	require.Equal(t, "2", btcBalance())

	submit(place("s3", "bob", orderv1.SideSell, "121"))
	forged := place("b3", "alice", orderv1.SideBuy, "121")
	forged.Data.Timestamp = now.Add(2 * time.Hour).UnixMilli()
	submit(forged)
	assert.Equal(t, "2", btcBalance(), "a client timestamp cannot lift the block")

	now = now.Add(2 * time.Hour)
	submit(place("s4", "bob", orderv1.SideSell, "200"))
	assert.Equal(t, "3", btcBalance(), "parked orders match once the block expires")
}
