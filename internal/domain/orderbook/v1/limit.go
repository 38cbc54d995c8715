package orderbookv1

import (
	"errors"
	"fmt"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/shopspring/decimal"
)

var (
	ErrNilOrder      = errors.New("order cannot be nil")
	ErrInvalidSize   = errors.New("remaining quantity must be positive")
	ErrPriceMismatch = errors.New("order price does not match limit price")
	ErrOrderNotFound = errors.New("order not found in limit")
)

// Limit represents a price level in the order book with associated orders.
// Orders are kept in arrival sequence, the front order is matched first.
// A Limit is owned by a single shard worker and is not safe for concurrent use.
type Limit struct {
	Price       decimal.Decimal  `json:"price"`
	Orders      []*orderv1.Order `json:"orders"`
	TotalVolume decimal.Decimal  `json:"totalVolume"`
}

// NewLimit creates a new Limit with the specified price.
func NewLimit(price decimal.Decimal) *Limit {
	return &Limit{
		Price:  price,
		Orders: make([]*orderv1.Order, 0),
	}
}

// AddOrder appends an order at the back of the queue and updates the total volume.
func (l *Limit) AddOrder(order *orderv1.Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if !order.Remaining().IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidSize, order.Remaining())
	}
	if !order.Price.Equal(l.Price) {
		return fmt.Errorf("%w: %s != %s", ErrPriceMismatch, order.Price, l.Price)
	}

	l.Orders = append(l.Orders, order)
	l.TotalVolume = l.TotalVolume.Add(order.Remaining())
	return nil
}

// RemoveOrder removes an order from the limit and updates the total volume.
func (l *Limit) RemoveOrder(order *orderv1.Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalVolume = l.TotalVolume.Sub(order.Remaining())
			return nil
		}
	}

	return ErrOrderNotFound
}

// Reduce lowers the total volume after the front order was filled by qty.
func (l *Limit) Reduce(qty decimal.Decimal) {
	l.TotalVolume = l.TotalVolume.Sub(qty)
}

// Front returns the oldest order of the level.
func (l *Limit) Front() *orderv1.Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// PopFront drops the oldest order, which must be fully filled.
func (l *Limit) PopFront() {
	if len(l.Orders) == 0 {
		return
	}
	l.Orders[0] = nil
	l.Orders = l.Orders[1:]
}

// IsEmpty checks if the limit has no orders.
func (l *Limit) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders in the limit.
func (l *Limit) OrderCount() int {
	return len(l.Orders)
}
