package api

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/router"
)

// OrderRouter accepts commands for the order log.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=api_mock
type OrderRouter interface {
	Submit(ctx context.Context, cmd orderv1.Command) (router.Receipt, error)
	Remap(ctx context.Context, symbol string, shard int) error
}

// BookReader serves book queries.
type BookReader interface {
	Depth(ctx context.Context, symbol string, limit int) (orderbookv1.Depth, error)
	Levels(ctx context.Context, symbol string, side orderv1.Side, bucket decimal.Decimal, limit int) ([]depthv1.Level, error)
	UserLevels(ctx context.Context, userID, symbol string) ([]depthv1.Level, error)
	Order(ctx context.Context, symbol, orderID string) (*orderv1.Order, bool, error)
}

// Accounts serves and funds account balances.
type Accounts interface {
	Balance(ctx context.Context, userID, asset string) (ledgerv1.Balance, error)
	Deposit(ctx context.Context, userID, asset string, amount decimal.Decimal) error
}

// Streamer upgrades a request to a level update stream.
type Streamer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, symbol string) error
}
