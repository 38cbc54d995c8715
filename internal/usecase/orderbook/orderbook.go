package orderbook

import (
	"errors"
	"fmt"
	"time"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already in book")
	ErrSymbolMismatch = errors.New("order symbol does not match book")
)

// Reasons attached to order updates.
const (
	ReasonFOKInfeasible = "fok_infeasible"
	ReasonNoLiquidity   = "no_liquidity"
	ReasonIOCExpired    = "ioc_expired"
	ReasonParked        = "trading_blocked"
	ReasonTriggered     = "stop_triggered"
	ReasonCanceled      = "canceled"
	ReasonRemoved       = "removed"
)

type location int

const (
	locResting location = iota + 1
	locStop
	locParked
	locTriggered
)

type entry struct {
	order *orderv1.Order
	loc   location
}

// Options configure a book.
type Options struct {
	// QuantityPrecision is the number of decimals a quantity may have.
	QuantityPrecision int32
	TriggerPolicy     orderbookv1.TriggerPolicy
}

// Orderbook matches the orders of one symbol with price-time priority.
// It is owned by one shard worker and is not safe for concurrent use.
type Orderbook struct {
	symbol string
	opts   Options
	guard  orderbookv1.TradingGuard
	fees   orderbookv1.FeeSchedule

	bids orderbookv1.Limits // best (highest) first
	asks orderbookv1.Limits // best (lowest) first

	orders map[string]*entry

	gteStops  []*orderv1.Order // ascending stop price
	lteStops  []*orderv1.Order // descending stop price
	parked    []*orderv1.Order
	triggered []*orderv1.Order

	lastPrice decimal.Decimal
	tradeSeq  uint64
}

var _ orderbookv1.Orderbook = (*Orderbook)(nil)

// openGuard never blocks trading.
type openGuard struct{}

func (openGuard) Allow(string, time.Time) bool { return true }
func (openGuard) Observe(orderv1.Trade) bool   { return false }

// NewOrderbook creates a new orderbook. A nil guard never blocks, nil fees charge nothing.
func NewOrderbook(symbol string, guard orderbookv1.TradingGuard, fees orderbookv1.FeeSchedule, opts Options) *Orderbook {
	if guard == nil {
		guard = openGuard{}
	}
	if opts.TriggerPolicy == "" {
		opts.TriggerPolicy = orderbookv1.TriggerLastPrice
	}
	return &Orderbook{
		symbol: symbol,
		opts:   opts,
		guard:  guard,
		fees:   fees,
		orders: make(map[string]*entry),
	}
}

// Symbol returns the symbol the book matches.
func (ob *Orderbook) Symbol() string {
	return ob.symbol
}

// Order returns a live order of the book, wherever it waits.
func (ob *Orderbook) Order(orderID string) (*orderv1.Order, bool) {
	e, ok := ob.orders[orderID]
	if !ok {
		return nil, false
	}
	return e.order, true
}

// HasPending reports whether parked or triggered orders wait for processing.
func (ob *Orderbook) HasPending() bool {
	return len(ob.parked) > 0 || len(ob.triggered) > 0
}

// LastPrice returns the price of the last trade, zero before the first one.
func (ob *Orderbook) LastPrice() decimal.Decimal {
	return ob.lastPrice
}

// BestBid returns the highest bid price.
func (ob *Orderbook) BestBid() (decimal.Decimal, bool) {
	if len(ob.bids) == 0 {
		return decimal.Zero, false
	}
	return ob.bids[0].Price, true
}

// BestAsk returns the lowest ask price.
func (ob *Orderbook) BestAsk() (decimal.Decimal, bool) {
	if len(ob.asks) == 0 {
		return decimal.Zero, false
	}
	return ob.asks[0].Price, true
}

// QuoteBuy returns what buying qty from the current asks costs and whether the asks cover it.
func (ob *Orderbook) QuoteBuy(qty decimal.Decimal) (decimal.Decimal, bool) {
	cost := decimal.Zero
	remaining := qty
	for _, limit := range ob.asks {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, limit.TotalVolume)
		cost = cost.Add(take.Mul(limit.Price))
		remaining = remaining.Sub(take)
	}
	return cost, !remaining.IsPositive()
}

// Depth returns up to limit levels per side, limit <= 0 returns every level.
func (ob *Orderbook) Depth(limit int) orderbookv1.Depth {
	return orderbookv1.Depth{
		Symbol: ob.symbol,
		Bids:   depthLevels(ob.bids, limit),
		Asks:   depthLevels(ob.asks, limit),
	}
}

func depthLevels(limits orderbookv1.Limits, limit int) []orderbookv1.DepthLevel {
	n := len(limits)
	if limit > 0 && limit < n {
		n = limit
	}
	levels := make([]orderbookv1.DepthLevel, 0, n)
	for _, l := range limits[:n] {
		levels = append(levels, orderbookv1.DepthLevel{
			Price:    l.Price,
			Quantity: l.TotalVolume,
			Count:    l.OrderCount(),
		})
	}
	return levels
}

// RestingOrders returns the resting orders, bids best first then asks best first.
func (ob *Orderbook) RestingOrders() []*orderv1.Order {
	var orders []*orderv1.Order
	for _, limits := range []orderbookv1.Limits{ob.bids, ob.asks} {
		for _, l := range limits {
			orders = append(orders, l.Orders...)
		}
	}
	return orders
}

// Cancel cancels a live order on behalf of its owner.
func (ob *Orderbook) Cancel(orderID string, at time.Time) (orderbookv1.Result, error) {
	return ob.evict(orderID, orderv1.StatusCanceled, ReasonCanceled, at)
}

// Remove evicts a live order administratively.
func (ob *Orderbook) Remove(orderID string, at time.Time) (orderbookv1.Result, error) {
	return ob.evict(orderID, orderv1.StatusRemoved, ReasonRemoved, at)
}

func (ob *Orderbook) evict(orderID string, status orderv1.Status, reason string, at time.Time) (orderbookv1.Result, error) {
	e, ok := ob.orders[orderID]
	if !ok {
		return orderbookv1.Result{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	o := e.order
	if !o.Status.CanTransition(status) {
		return orderbookv1.Result{}, fmt.Errorf("%w: %s -> %s", orderv1.ErrInvalidTransition, o.Status, status)
	}

	p := newPass(at)
	switch e.loc {
	case locResting:
		ob.unrest(o, p)
	case locStop:
		ob.removeStop(o)
	case locParked:
		ob.parked = removeOrder(ob.parked, o)
	case locTriggered:
		ob.triggered = removeOrder(ob.triggered, o)
	}
	delete(ob.orders, o.ID)

	if err := o.Transition(status, at); err != nil {
		return orderbookv1.Result{}, err
	}
	p.finish(o, reason)
	return p.result(), nil
}

// Snapshot returns the full state of the book.
func (ob *Orderbook) Snapshot() snapshotv1.BookSnapshot {
	snap := snapshotv1.BookSnapshot{
		Symbol:        ob.symbol,
		Orders:        copyOrders(ob.RestingOrders()),
		Stops:         copyOrders(append(append([]*orderv1.Order{}, ob.gteStops...), ob.lteStops...)),
		Parked:        copyOrders(ob.parked),
		Triggered:     copyOrders(ob.triggered),
		LastPrice:     ob.lastPrice,
		TradeSequence: ob.tradeSeq,
	}
	return snap
}

// Restore replaces the book state with snapshot.
func (ob *Orderbook) Restore(snapshot snapshotv1.BookSnapshot) error {
	if snapshot.Symbol != ob.symbol {
		return fmt.Errorf("%w: %s != %s", ErrSymbolMismatch, snapshot.Symbol, ob.symbol)
	}

	ob.bids, ob.asks = nil, nil
	ob.gteStops, ob.lteStops, ob.parked, ob.triggered = nil, nil, nil, nil
	ob.orders = make(map[string]*entry)

	for i := range snapshot.Orders {
		o := snapshot.Orders[i]
		if err := ob.rest(&o); err != nil {
			return err
		}
	}
	for i := range snapshot.Stops {
		o := snapshot.Stops[i]
		if err := ob.track(&o, locStop); err != nil {
			return err
		}
		ob.insertStop(&o)
	}
	for i := range snapshot.Parked {
		o := snapshot.Parked[i]
		if err := ob.track(&o, locParked); err != nil {
			return err
		}
		ob.parked = append(ob.parked, &o)
	}
	for i := range snapshot.Triggered {
		o := snapshot.Triggered[i]
		if err := ob.track(&o, locTriggered); err != nil {
			return err
		}
		ob.triggered = append(ob.triggered, &o)
	}

	ob.lastPrice = snapshot.LastPrice
	ob.tradeSeq = snapshot.TradeSequence
	return nil
}

func (ob *Orderbook) track(o *orderv1.Order, loc location) error {
	if o.Symbol != ob.symbol {
		return fmt.Errorf("%w: %s != %s", ErrSymbolMismatch, o.Symbol, ob.symbol)
	}
	if _, exists := ob.orders[o.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID)
	}
	ob.orders[o.ID] = &entry{order: o, loc: loc}
	return nil
}

func (ob *Orderbook) side(s orderv1.Side) *orderbookv1.Limits {
	if s == orderv1.SideBuy {
		return &ob.bids
	}
	return &ob.asks
}

// rest adds o at the back of its price level.
func (ob *Orderbook) rest(o *orderv1.Order) error {
	if err := ob.track(o, locResting); err != nil {
		return err
	}

	limits := ob.side(o.Side)
	i, found := limits.Search(o.Price, o.IsBuy())
	if !found {
		*limits = limits.Insert(i, orderbookv1.NewLimit(o.Price))
	}
	if err := (*limits)[i].AddOrder(o); err != nil {
		delete(ob.orders, o.ID)
		return err
	}
	return nil
}

// unrest takes a resting order off its level and records the delta.
func (ob *Orderbook) unrest(o *orderv1.Order, p *pass) {
	limits := ob.side(o.Side)
	i, found := limits.Search(o.Price, o.IsBuy())
	if !found {
		return
	}
	limit := (*limits)[i]
	if err := limit.RemoveOrder(o); err != nil {
		return
	}
	if limit.IsEmpty() {
		*limits = limits.Delete(i)
	}
	p.delta(ob.symbol, o, o.Price, o.Remaining().Neg(), -1)
}

func copyOrders(orders []*orderv1.Order) []orderv1.Order {
	out := make([]orderv1.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, *o)
	}
	return out
}

func removeOrder(orders []*orderv1.Order, o *orderv1.Order) []*orderv1.Order {
	for i, candidate := range orders {
		if candidate == o {
			return append(orders[:i], orders[i+1:]...)
		}
	}
	return orders
}
