package orderv1

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOverfill          = errors.New("fill exceeds remaining quantity")
	ErrInvalidFill       = errors.New("fill quantity and price must be positive")
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the side an order of s matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Valid reports whether s is buy or sell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Kind represents the type of order.
type Kind string

const (
	KindLimit      Kind = "limit"
	KindMarket     Kind = "market"
	KindStopLimit  Kind = "stop_limit"
	KindStopMarket Kind = "stop_market"
)

// Valid reports whether k is a supported order kind.
func (k Kind) Valid() bool {
	switch k {
	case KindLimit, KindMarket, KindStopLimit, KindStopMarket:
		return true
	}
	return false
}

// IsStop reports whether orders of kind k wait in the trigger index.
func (k Kind) IsStop() bool {
	return k == KindStopLimit || k == KindStopMarket
}

// HasLimitPrice reports whether orders of kind k carry a limit price.
func (k Kind) HasLimitPrice() bool {
	return k == KindLimit || k == KindStopLimit
}

// TimeInForce controls what happens to the unfilled part of an order.
type TimeInForce string

const (
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

// Valid reports whether t is GTC, IOC or FOK.
func (t TimeInForce) Valid() bool {
	return t == GTC || t == IOC || t == FOK
}

// StopCondition compares the trigger price with the stop price.
type StopCondition string

const (
	// StopGTE triggers once the price rises to or above the stop price.
	StopGTE StopCondition = "gte"
	// StopLTE triggers once the price falls to or below the stop price.
	StopLTE StopCondition = "lte"
)

// Valid reports whether c is gte or lte.
func (c StopCondition) Valid() bool {
	return c == StopGTE || c == StopLTE
}

// Holds reports whether price satisfies the condition against stop.
func (c StopCondition) Holds(price, stop decimal.Decimal) bool {
	switch c {
	case StopGTE:
		return price.GreaterThanOrEqual(stop)
	case StopLTE:
		return price.LessThanOrEqual(stop)
	}
	return false
}

// Order is a single order owned by one shard.
type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Symbol           string          `json:"symbol"`
	Side             Side            `json:"side"`
	Kind             Kind            `json:"type"`
	TimeInForce      TimeInForce     `json:"timeInForce"`
	Quantity         decimal.Decimal `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	StopPrice        decimal.Decimal `json:"stopPrice"`
	StopCondition    StopCondition   `json:"stopCondition,omitempty"`
	ExecutedQuantity decimal.Decimal `json:"executedQuantity"`
	ExecutedPrice    decimal.Decimal `json:"executedPrice"`
	Fee              decimal.Decimal `json:"fee"`
	Status           Status          `json:"status"`
	// ReversePrice is the last price that triggered a stop order.
	ReversePrice decimal.Decimal `json:"reversePrice"`
	Sequence     uint64          `json:"sequence"`
	// Reserved is the part of the ledger reservation not yet consumed by fills.
	Reserved  decimal.Decimal `json:"reserved"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IsBuy checks if the order is a bid (buy) order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsMarket reports whether the order executes without a limit price.
// Activated stop-market orders count as market orders.
func (o *Order) IsMarket() bool {
	return o.Kind == KindMarket || o.Kind == KindStopMarket
}

// Remaining returns the quantity still to be filled.
func (o *Order) Remaining() decimal.Decimal {
	return o.Quantity.Sub(o.ExecutedQuantity)
}

// IsFilled checks if nothing remains to be filled.
func (o *Order) IsFilled() bool {
	return !o.Remaining().IsPositive()
}

// IsTerminal reports whether the order reached a final status.
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// Crosses reports whether the order accepts price as execution price.
func (o *Order) Crosses(price decimal.Decimal) bool {
	if o.IsMarket() {
		return true
	}
	if o.IsBuy() {
		return o.Price.GreaterThanOrEqual(price)
	}
	return o.Price.LessThanOrEqual(price)
}

// Transition moves the order to status to.
func (o *Order) Transition(to Status, at time.Time) error {
	if !o.Status.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = at
	return nil
}

// Fill records an execution of qty at price and charges fee.
// The executed price is the volume weighted average of every fill.
// An executing order stays executing until it is filled or its pass ends.
func (o *Order) Fill(qty, price, fee decimal.Decimal, at time.Time) error {
	if !qty.IsPositive() || !price.IsPositive() {
		return ErrInvalidFill
	}
	if qty.GreaterThan(o.Remaining()) {
		return fmt.Errorf("%w: order %s remaining %s, fill %s", ErrOverfill, o.ID, o.Remaining(), qty)
	}

	next := StatusPartiallyFilled
	if o.Status == StatusExecuting {
		next = StatusExecuting
	}
	if qty.Equal(o.Remaining()) {
		next = StatusExecuted
	}
	if o.Status != next && !o.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	total := o.ExecutedQuantity.Add(qty)
	o.ExecutedPrice = o.ExecutedQuantity.Mul(o.ExecutedPrice).Add(qty.Mul(price)).Div(total)
	o.ExecutedQuantity = total
	o.Fee = o.Fee.Add(fee)
	o.Status = next
	o.UpdatedAt = at
	return nil
}

// Clone returns a copy safe to hand to another goroutine.
func (o *Order) Clone() *Order {
	c := *o
	return &c
}

// Update returns the outbound view of the order.
func (o *Order) Update(reason string) OrderUpdate {
	return OrderUpdate{
		ID:               o.ID,
		UserID:           o.UserID,
		Symbol:           o.Symbol,
		Side:             o.Side,
		Status:           o.Status,
		Quantity:         o.Quantity,
		ExecutedQuantity: o.ExecutedQuantity,
		ExecutedPrice:    o.ExecutedPrice,
		Fee:              o.Fee,
		Reason:           reason,
		UpdatedAt:        o.UpdatedAt,
	}
}
