package orderbookv1

import (
	"time"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/shopspring/decimal"
)

// TriggerPolicy selects the prices stop orders are evaluated against.
type TriggerPolicy string

const (
	// TriggerLastPrice evaluates stops against the last trade price only.
	TriggerLastPrice TriggerPolicy = "last_price"
	// TriggerLastPriceOrQuote also evaluates stops against the best bid and ask.
	TriggerLastPriceOrQuote TriggerPolicy = "last_price_or_quote"
)

// TradingGuard decides whether a symbol may match. It is the circuit breaker.
//
//go:generate mockgen -source orderbook.go -destination=mock/orderbook_mock.go -package=orderbookv1_mock
type TradingGuard interface {
	Allow(symbol string, at time.Time) bool
	// Observe records a trade price and reports whether trading got blocked.
	Observe(trade orderv1.Trade) bool
}

// FeeSchedule returns the maker and taker fee rates of a user.
type FeeSchedule interface {
	Rates(userID string) (maker, taker decimal.Decimal)
}

// Result collects everything one book operation produced, in order.
type Result struct {
	Trades  []orderv1.Trade
	Deltas  []orderv1.BookDelta
	Updates []orderv1.OrderUpdate
	// Terminal lists orders that reached a final status and whose reservation must be released.
	Terminal []string
	// Tripped is set when a trade of this operation blocked the symbol.
	Tripped bool
	// Err reports a broken book invariant. The symbol must be halted.
	Err error
}

// Merge appends other to r.
func (r *Result) Merge(other Result) {
	r.Trades = append(r.Trades, other.Trades...)
	r.Deltas = append(r.Deltas, other.Deltas...)
	r.Updates = append(r.Updates, other.Updates...)
	r.Terminal = append(r.Terminal, other.Terminal...)
	r.Tripped = r.Tripped || other.Tripped
	if r.Err == nil {
		r.Err = other.Err
	}
}

// Empty reports whether the operation had no visible effect.
func (r *Result) Empty() bool {
	return len(r.Trades) == 0 && len(r.Deltas) == 0 && len(r.Updates) == 0
}

// DepthLevel is the aggregate of one raw price level.
type DepthLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Count    int             `json:"count"`
}

// Depth is the per level view of a book, best prices first.
type Depth struct {
	Symbol string       `json:"symbol"`
	Bids   []DepthLevel `json:"bids"`
	Asks   []DepthLevel `json:"asks"`
}

// Orderbook is the matching book of one symbol.
type Orderbook interface {
	Symbol() string
	Place(order *orderv1.Order, at time.Time) Result
	Cancel(orderID string, at time.Time) (Result, error)
	Remove(orderID string, at time.Time) (Result, error)
	// ActivateTriggered runs stop orders triggered by earlier operations, in sequence order.
	ActivateTriggered(at time.Time) Result
	// Resume releases parked orders once the guard allows trading again.
	Resume(at time.Time) Result
	HasPending() bool

	Order(orderID string) (*orderv1.Order, bool)
	RestingOrders() []*orderv1.Order
	Depth(limit int) Depth
	BestBid() (decimal.Decimal, bool)
	BestAsk() (decimal.Decimal, bool)
	LastPrice() decimal.Decimal
	// QuoteBuy returns the cost of buying qty from the current asks and whether the asks cover it.
	QuoteBuy(qty decimal.Decimal) (decimal.Decimal, bool)

	Snapshot() snapshotv1.BookSnapshot
	Restore(snapshot snapshotv1.BookSnapshot) error
}
