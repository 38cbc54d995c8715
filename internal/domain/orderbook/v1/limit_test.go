package orderbookv1

import (
	"testing"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Helper function to create a test order
func createTestOrder(userID, qty, price string, seq uint64) *orderv1.Order {
	return &orderv1.Order{
		ID:       userID + "-order",
		UserID:   userID,
		Symbol:   "BTC/USDT",
		Side:     orderv1.SideSell,
		Kind:     orderv1.KindLimit,
		Quantity: d(qty),
		Price:    d(price),
		Status:   orderv1.StatusPending,
		Sequence: seq,
	}
}

func TestNewLimit(t *testing.T) {
	limit := NewLimit(d("100"))

	assert.NotNil(t, limit)
	assert.True(t, limit.Price.Equal(d("100")))
	assert.True(t, limit.TotalVolume.IsZero())
	assert.Empty(t, limit.Orders)
	assert.True(t, limit.IsEmpty())
	assert.Nil(t, limit.Front())
}

func TestLimit_AddOrder(t *testing.T) {
	limit := NewLimit(d("100"))

	t.Run("Add valid order", func(t *testing.T) {
		order := createTestOrder("user1", "10", "100", 1)
		err := limit.AddOrder(order)

		require.NoError(t, err)
		assert.Equal(t, 1, limit.OrderCount())
		assert.True(t, limit.TotalVolume.Equal(d("10")))
		assert.False(t, limit.IsEmpty())
	})

	t.Run("Add nil order", func(t *testing.T) {
		err := limit.AddOrder(nil)
		assert.ErrorIs(t, err, ErrNilOrder)
	})

	t.Run("Add order with nothing remaining", func(t *testing.T) {
		order := createTestOrder("user1", "0", "100", 2)
		err := limit.AddOrder(order)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("Add order at another price", func(t *testing.T) {
		order := createTestOrder("user1", "1", "101", 3)
		err := limit.AddOrder(order)
		assert.ErrorIs(t, err, ErrPriceMismatch)
	})

	t.Run("Partially filled order adds its remaining quantity", func(t *testing.T) {
		limit := NewLimit(d("100"))
		order := createTestOrder("user2", "10", "100", 4)
		order.ExecutedQuantity = d("4")

		require.NoError(t, limit.AddOrder(order))
		assert.True(t, limit.TotalVolume.Equal(d("6")))
	})
}

func TestLimit_RemoveOrder(t *testing.T) {
	limit := NewLimit(d("100"))
	order1 := createTestOrder("user1", "10", "100", 1)
	order2 := createTestOrder("user2", "5", "100", 2)
	require.NoError(t, limit.AddOrder(order1))
	require.NoError(t, limit.AddOrder(order2))

	t.Run("Remove existing order", func(t *testing.T) {
		err := limit.RemoveOrder(order1)

		require.NoError(t, err)
		assert.Equal(t, 1, limit.OrderCount())
		assert.True(t, limit.TotalVolume.Equal(d("5")))
		assert.Equal(t, order2, limit.Front())
	})

	t.Run("Remove unknown order", func(t *testing.T) {
		err := limit.RemoveOrder(order1)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Remove nil order", func(t *testing.T) {
		err := limit.RemoveOrder(nil)
		assert.ErrorIs(t, err, ErrNilOrder)
	})
}

func TestLimit_FIFO(t *testing.T) {
	limit := NewLimit(d("100"))
	order1 := createTestOrder("user1", "10", "100", 1)
	order2 := createTestOrder("user2", "15", "100", 2)
	require.NoError(t, limit.AddOrder(order1))
	require.NoError(t, limit.AddOrder(order2))

	assert.Equal(t, order1, limit.Front())

	limit.Reduce(d("10"))
	limit.PopFront()

	assert.Equal(t, order2, limit.Front())
	assert.True(t, limit.TotalVolume.Equal(d("15")))
}

func TestLimits_Search(t *testing.T) {
	t.Run("bids are kept highest first", func(t *testing.T) {
		var bids Limits
		for _, p := range []string{"100", "102", "101"} {
			i, found := bids.Search(d(p), true)
			require.False(t, found)
			bids = bids.Insert(i, NewLimit(d(p)))
		}

		require.Len(t, bids, 3)
		assert.True(t, bids[0].Price.Equal(d("102")))
		assert.True(t, bids[2].Price.Equal(d("100")))

		i, found := bids.Search(d("101"), true)
		assert.True(t, found)
		assert.Equal(t, 1, i)

		bids = bids.Delete(i)
		assert.Len(t, bids, 2)
		assert.True(t, bids[1].Price.Equal(d("100")))
	})

	t.Run("asks are kept lowest first", func(t *testing.T) {
		var asks Limits
		for _, p := range []string{"100", "98", "99.5"} {
			i, _ := asks.Search(d(p), false)
			asks = asks.Insert(i, NewLimit(d(p)))
		}

		assert.True(t, asks[0].Price.Equal(d("98")))
		assert.True(t, asks[1].Price.Equal(d("99.5")))
		assert.True(t, asks[2].Price.Equal(d("100")))

		_, found := asks.Search(d("99"), false)
		assert.False(t, found)
	})
}
