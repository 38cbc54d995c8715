package ledger

import (
	"context"
	"sync"
	"testing"

	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/infrastructure/postgresql/migrations"
	ledgeruc "github.com/muhammadchandra19/spot-exchange/internal/usecase/ledger"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	helper *postgresql.TestHelper
	repo   ledgerv1.Store
	ledger *ledgeruc.Ledger
	ctx    context.Context
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()

	s.helper = postgresql.NewTestHelperWithMigrations(s.T(), migrations.FS)
	s.repo = NewRepository(s.helper.GetClient(), logger.NewNopLogger(), 16)
	s.ledger = ledgeruc.NewLedger(s.repo, "exchange-fees", logger.NewNopLogger())
}

func (s *RepositoryTestSuite) SetupTest() {
	s.helper.CleanupTables(Tables...)
}

func (s *RepositoryTestSuite) fund() {
	t := s.T()
	require.NoError(t, s.ledger.Deposit(s.ctx, "alice", "USDT", decimal.NewFromInt(1000)))
	require.NoError(t, s.ledger.Deposit(s.ctx, "bob", "BTC", decimal.NewFromInt(10)))
	require.NoError(t, s.ledger.Reserve(s.ctx, ledgerv1.Reservation{OrderID: "b1", UserID: "alice", Asset: "USDT", Amount: decimal.NewFromInt(1000)}))
	require.NoError(t, s.ledger.Reserve(s.ctx, ledgerv1.Reservation{OrderID: "s1", UserID: "bob", Asset: "BTC", Amount: decimal.NewFromInt(10)}))
}

func (s *RepositoryTestSuite) trade(id string) orderv1.Trade {
	return orderv1.Trade{
		ID:          id,
		Symbol:      "BTC/USDT",
		BuyOrderID:  "b1",
		SellOrderID: "s1",
		BuyerID:     "alice",
		SellerID:    "bob",
		Price:       decimal.NewFromInt(50),
		Quantity:    decimal.NewFromInt(1),
		Amount:      decimal.NewFromInt(50),
		BuyFee:      decimal.RequireFromString("0.001"),
		SellFee:     decimal.RequireFromString("0.1"),
	}
}

func (s *RepositoryTestSuite) assertBalance(userID, asset, balance, available string) {
	b, err := s.ledger.Balance(s.ctx, userID, asset)
	require.NoError(s.T(), err)
	assert.True(s.T(), b.Balance.Equal(decimal.RequireFromString(balance)), "%s %s balance %s", userID, asset, b.Balance)
	assert.True(s.T(), b.Available.Equal(decimal.RequireFromString(available)), "%s %s available %s", userID, asset, b.Available)
}

func (s *RepositoryTestSuite) TestApplyAndRelease() {
	s.fund()

	require.NoError(s.T(), s.ledger.Apply(s.ctx, s.trade("BTC/USDT-1")))
	s.assertBalance("alice", "USDT", "950", "0")
	s.assertBalance("alice", "BTC", "0.999", "0.999")
	s.assertBalance("bob", "BTC", "9", "0")
	s.assertBalance("bob", "USDT", "49.9", "49.9")
	s.assertBalance("exchange-fees", "USDT", "0.1", "0.1")

	err := s.ledger.Apply(s.ctx, s.trade("BTC/USDT-1"))
	assert.ErrorIs(s.T(), err, ledgerv1.ErrDuplicateTrade)

	released, err := s.ledger.Release(s.ctx, "b1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "950", released.String())
	s.assertBalance("alice", "USDT", "950", "950")

	_, ok, err := s.repo.Reservation(s.ctx, "b1")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *RepositoryTestSuite) TestReserveInsufficient() {
	s.fund()

	err := s.ledger.Reserve(s.ctx, ledgerv1.Reservation{OrderID: "b2", UserID: "alice", Asset: "USDT", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(s.T(), err, ledgerv1.ErrInsufficientAvailable)
}

func (s *RepositoryTestSuite) TestConcurrentApply() {
	s.fund()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(s.T(), s.ledger.Apply(s.ctx, s.trade(orderv1.TradeID("BTC/USDT", uint64(i)))))
		}(i)
	}
	wg.Wait()

	s.assertBalance("alice", "USDT", "600", "0")
	s.assertBalance("bob", "BTC", "2", "0")
	s.assertBalance("exchange-fees", "BTC", "0.008", "0.008")
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
