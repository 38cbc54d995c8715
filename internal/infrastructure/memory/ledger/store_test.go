package ledger

import (
	"context"
	"errors"
	"testing"

	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	aliceUSDT = ledgerv1.AccountKey{UserID: "alice", Asset: "USDT"}
	bobBTC    = ledgerv1.AccountKey{UserID: "bob", Asset: "BTC"}
)

func TestStore_UpdateCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Update(ctx, []ledgerv1.AccountKey{aliceUSDT}, func(tx ledgerv1.Tx) error {
		b, err := tx.Balance(aliceUSDT)
		require.NoError(t, err)
		assert.True(t, b.Balance.IsZero())

		b.Balance, b.Available = decimal.NewFromInt(10), decimal.NewFromInt(4)
		require.NoError(t, tx.PutBalance(b))
		require.NoError(t, tx.PutReservation(ledgerv1.Reservation{OrderID: "o1", UserID: "alice", Asset: "USDT", Amount: decimal.NewFromInt(6), Remaining: decimal.NewFromInt(6)}))
		return tx.MarkTradeSettled(orderv1.Trade{ID: "t1"})
	})
	require.NoError(t, err)

	b, err := s.Balance(ctx, aliceUSDT)
	require.NoError(t, err)
	assert.Equal(t, "10", b.Balance.String())
	assert.Equal(t, "6", b.Reserved().String())

	r, ok, err := s.Reservation(ctx, "o1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "6", r.Remaining.String())

	_ = s.Update(ctx, nil, func(tx ledgerv1.Tx) error {
		settled, err := tx.TradeSettled("t1")
		require.NoError(t, err)
		assert.True(t, settled)
		return nil
	})
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.Update(ctx, []ledgerv1.AccountKey{aliceUSDT}, func(tx ledgerv1.Tx) error {
		require.NoError(t, tx.PutBalance(ledgerv1.Balance{UserID: "alice", Asset: "USDT", Balance: decimal.NewFromInt(1)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b, err := s.Balance(ctx, aliceUSDT)
	require.NoError(t, err)
	assert.True(t, b.Balance.IsZero())
	assert.Empty(t, s.Balances())
}

func TestStore_TxRejectsUnlockedAccounts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	testCases := []struct {
		name string
		fn   func(tx ledgerv1.Tx) error
	}{
		{
			name: "read",
			fn: func(tx ledgerv1.Tx) error {
				_, err := tx.Balance(bobBTC)
				return err
			},
		},
		{
			name: "write",
			fn: func(tx ledgerv1.Tx) error {
				return tx.PutBalance(ledgerv1.Balance{UserID: "bob", Asset: "BTC"})
			},
		},
		{
			name: "reservation",
			fn: func(tx ledgerv1.Tx) error {
				return tx.PutReservation(ledgerv1.Reservation{OrderID: "o2", UserID: "bob", Asset: "BTC"})
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Update(ctx, []ledgerv1.AccountKey{aliceUSDT}, tc.fn)
			assert.ErrorIs(t, err, ErrAccountNotLocked)
		})
	}
}

func TestStore_DeleteReservation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	res := ledgerv1.Reservation{OrderID: "o1", UserID: "alice", Asset: "USDT", Amount: decimal.NewFromInt(1), Remaining: decimal.NewFromInt(1)}

	require.NoError(t, s.Update(ctx, []ledgerv1.AccountKey{aliceUSDT}, func(tx ledgerv1.Tx) error {
		return tx.PutReservation(res)
	}))
	require.NoError(t, s.Update(ctx, []ledgerv1.AccountKey{aliceUSDT}, func(tx ledgerv1.Tx) error {
		if err := tx.DeleteReservation("o1"); err != nil {
			return err
		}
		_, ok, err := tx.Reservation("o1")
		assert.False(t, ok)
		return err
	}))

	_, ok, err := s.Reservation(ctx, "o1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpdateHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().Update(ctx, []ledgerv1.AccountKey{aliceUSDT}, func(ledgerv1.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_CommitRejectsOrderIDHeldByAnotherAccount(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	held := ledgerv1.Reservation{OrderID: "o1", UserID: "alice", Asset: "USDT", Amount: decimal.NewFromInt(6), Remaining: decimal.NewFromInt(6)}
	require.NoError(t, s.Update(ctx, []ledgerv1.AccountKey{aliceUSDT}, func(tx ledgerv1.Tx) error {
		return tx.PutReservation(held)
	}))

	err := s.Update(ctx, []ledgerv1.AccountKey{bobBTC}, func(tx ledgerv1.Tx) error {
		b, err := tx.Balance(bobBTC)
		require.NoError(t, err)
		b.Balance = decimal.NewFromInt(1)
		require.NoError(t, tx.PutBalance(b))
		return tx.PutReservation(ledgerv1.Reservation{OrderID: "o1", UserID: "bob", Asset: "BTC", Amount: decimal.NewFromInt(1), Remaining: decimal.NewFromInt(1)})
	})
	assert.ErrorIs(t, err, ledgerv1.ErrOrderIDInUse)

	b, err := s.Balance(ctx, bobBTC)
	require.NoError(t, err)
	assert.True(t, b.Balance.IsZero(), "a rejected commit writes nothing")

	r, ok, err := s.Reservation(ctx, "o1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", r.UserID)
}
