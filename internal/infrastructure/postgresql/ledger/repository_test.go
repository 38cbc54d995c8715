package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	mockPg "github.com/muhammadchandra19/spot-exchange/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow scans fixed text values, or returns err.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *bool:
			*p = r.values[i].(bool)
		}
	}
	return nil
}

func TestRepository_Balance(t *testing.T) {
	ctx := context.Background()
	key := ledgerv1.AccountKey{UserID: "alice", Asset: "USDT"}

	testCases := []struct {
		name     string
		mockFn   func(db *mockPg.MockPostgreSQLClient)
		assertFn func(t *testing.T, b ledgerv1.Balance, err error)
	}{
		{
			name: "existing account",
			mockFn: func(db *mockPg.MockPostgreSQLClient) {
				db.EXPECT().QueryRow(ctx, balanceQuery, "alice", "USDT").
					Return(fakeRow{values: []any{"alice", "USDT", "100.500000000000000000", "40.000000000000000000"}})
			},
			assertFn: func(t *testing.T, b ledgerv1.Balance, err error) {
				require.NoError(t, err)
				assert.Equal(t, "100.5", b.Balance.String())
				assert.Equal(t, "60.5", b.Reserved().String())
			},
		},
		{
			name: "unknown account is zero",
			mockFn: func(db *mockPg.MockPostgreSQLClient) {
				db.EXPECT().QueryRow(ctx, balanceQuery, "alice", "USDT").Return(fakeRow{err: pgx.ErrNoRows})
			},
			assertFn: func(t *testing.T, b ledgerv1.Balance, err error) {
				require.NoError(t, err)
				assert.Equal(t, key, b.Key())
				assert.True(t, b.Balance.IsZero())
			},
		},
		{
			name: "query error",
			mockFn: func(db *mockPg.MockPostgreSQLClient) {
				db.EXPECT().QueryRow(ctx, balanceQuery, "alice", "USDT").Return(fakeRow{err: errors.New("conn closed")})
			},
			assertFn: func(t *testing.T, b ledgerv1.Balance, err error) {
				assert.ErrorContains(t, err, "conn closed")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			db := mockPg.NewMockPostgreSQLClient(ctrl)
			tc.mockFn(db)

			repo := NewRepository(db, logger.NewNopLogger(), 3)
			b, err := repo.Balance(ctx, key)
			tc.assertFn(t, b, err)
		})
	}
}

func TestRepository_Reservation(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := mockPg.NewMockPostgreSQLClient(ctrl)
	gomock.InOrder(
		db.EXPECT().QueryRow(ctx, reservationQuery, "o1").
			Return(fakeRow{values: []any{"o1", "alice", "BTC/USDT", "USDT", "10", "2.5"}}),
		db.EXPECT().QueryRow(ctx, reservationQuery, "o2").Return(fakeRow{err: pgx.ErrNoRows}),
	)

	repo := NewRepository(db, logger.NewNopLogger(), 3)

	r, ok, err := repo.Reservation(ctx, "o1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2.5", r.Remaining.String())
	assert.Equal(t, "BTC/USDT", r.Symbol)
	assert.Equal(t, ledgerv1.AccountKey{UserID: "alice", Asset: "USDT"}, r.Key())

	_, ok, err = repo.Reservation(ctx, "o2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_UpdateBeginError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	db := mockPg.NewMockPostgreSQLClient(ctrl)
	db.EXPECT().BeginTx(ctx, gomock.Any()).Return(nil, errors.New("pool exhausted"))

	repo := NewRepository(db, logger.NewNopLogger(), 3)
	err := repo.Update(ctx, []ledgerv1.AccountKey{{UserID: "alice", Asset: "USDT"}}, func(ledgerv1.Tx) error {
		t.Fatal("fn must not run without a transaction")
		return nil
	})
	assert.ErrorContains(t, err, "pool exhausted")
}
