package snapshot

import (
	"context"
	"testing"

	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir, logger.NewNopLogger())
	require.NoError(t, err)

	missing, err := store.LoadStore(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, missing)

	snap := &snapshotv1.Snapshot{
		Shard:       3,
		OrderOffset: 99,
		Sequence:    120,
		Books: []snapshotv1.BookSnapshot{{
			Symbol: "ETH/USDT",
			Orders: []orderv1.Order{{
				ID: "o1", UserID: "alice", Symbol: "ETH/USDT", Side: orderv1.SideBuy,
				Kind: orderv1.KindLimit, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(3000),
				Status: orderv1.StatusPending, Sequence: 12,
			}},
			LastPrice: decimal.NewFromInt(3001),
		}},
		Breakers: []circuitbreakerv1.State{{Symbol: "ETH/USDT", ReferencePrice: decimal.NewFromInt(3000)}},
	}
	require.NoError(t, store.Store(ctx, snap))
	require.NoError(t, store.Store(ctx, &snapshotv1.Snapshot{Shard: 10}))

	shards, err := store.Shards()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 10}, shards)

	require.NoError(t, store.Close())

	// Snapshots survive reopening the database.
	store, err = NewStore(dir, logger.NewNopLogger())
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.LoadStore(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(99), loaded.OrderOffset)
	require.Len(t, loaded.Books, 1)
	require.Len(t, loaded.Books[0].Orders, 1)
	assert.Equal(t, "o1", loaded.Books[0].Orders[0].ID)
	assert.True(t, loaded.Books[0].Orders[0].Price.Equal(decimal.NewFromInt(3000)))
	require.Len(t, loaded.Breakers, 1)
	assert.True(t, loaded.Breakers[0].ReferencePrice.Equal(decimal.NewFromInt(3000)))
}
