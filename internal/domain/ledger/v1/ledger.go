package ledgerv1

import (
	"context"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientAvailable rejects an order whose reservation exceeds the available balance.
	ErrInsufficientAvailable = errors.NewBusiness("insufficient available balance")
	// ErrOrderIDInUse rejects an order whose id already holds a reservation for another order.
	ErrOrderIDInUse = errors.NewBusiness("order id is already in use")
	// ErrInvalidAmount is returned for non-positive deposits and reservations.
	ErrInvalidAmount = errors.NewBusiness("amount must be positive")
	// ErrReservationViolated means a trade debits more than was reserved for it.
	ErrReservationViolated = errors.NewInvariant("reservation violated")
	// ErrDuplicateTrade means a trade id was settled before.
	ErrDuplicateTrade = errors.NewInvariant("duplicate trade")
)

// AccountKey identifies one balance row.
type AccountKey struct {
	UserID string
	Asset  string
}

// Less orders keys by user id then asset, the order accounts are locked in.
func (k AccountKey) Less(other AccountKey) bool {
	if k.UserID != other.UserID {
		return k.UserID < other.UserID
	}
	return k.Asset < other.Asset
}

// Balance is the holding of one user in one asset.
// Balance - Available is the amount reserved by open orders.
type Balance struct {
	UserID    string          `json:"userId"`
	Asset     string          `json:"asset"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
}

// Key returns the account the balance belongs to.
func (b Balance) Key() AccountKey {
	return AccountKey{UserID: b.UserID, Asset: b.Asset}
}

// Reserved returns the part of the balance held by open orders.
func (b Balance) Reserved() decimal.Decimal {
	return b.Balance.Sub(b.Available)
}

// Reservation holds funds for one open order.
type Reservation struct {
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Symbol    string          `json:"symbol"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Matches reports whether other describes the same order hold as r.
// Remaining is ignored: it shrinks as the order fills.
func (r Reservation) Matches(other Reservation) bool {
	return r.OrderID == other.OrderID &&
		r.UserID == other.UserID &&
		r.Symbol == other.Symbol &&
		r.Asset == other.Asset &&
		r.Amount.Equal(other.Amount)
}

// Key returns the account the reservation is held on.
func (r Reservation) Key() AccountKey {
	return AccountKey{UserID: r.UserID, Asset: r.Asset}
}

// Ledger settles trades against account balances.
//
//go:generate mockgen -source ledger.go -destination=mock/ledger_mock.go -package=ledgerv1_mock
type Ledger interface {
	Reserve(ctx context.Context, reservation Reservation) error
	Apply(ctx context.Context, trade orderv1.Trade) error
	Release(ctx context.Context, orderID string) (decimal.Decimal, error)
	Deposit(ctx context.Context, userID, asset string, amount decimal.Decimal) error
	Balance(ctx context.Context, userID, asset string) (Balance, error)
}

// Store persists balances, reservations and settled trade ids.
type Store interface {
	// Update runs fn with exclusive access to the listed accounts. Writes made
	// through the Tx become visible together when fn returns nil.
	Update(ctx context.Context, accounts []AccountKey, fn func(tx Tx) error) error
	Balance(ctx context.Context, key AccountKey) (Balance, error)
	Reservation(ctx context.Context, orderID string) (Reservation, bool, error)
}

// Tx is the view of a Store inside Update. Only the locked accounts may be read or written.
type Tx interface {
	Balance(key AccountKey) (Balance, error)
	PutBalance(balance Balance) error
	Reservation(orderID string) (Reservation, bool, error)
	PutReservation(reservation Reservation) error
	DeleteReservation(orderID string) error
	TradeSettled(tradeID string) (bool, error)
	MarkTradeSettled(trade orderv1.Trade) error
}
