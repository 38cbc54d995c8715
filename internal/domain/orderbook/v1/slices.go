package orderbookv1

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Limits represents a slice of Limit pointers, representing multiple price levels.
type Limits []*Limit

// ByBestAsk sorts Limits by the best ask price (lowest price).
type ByBestAsk struct {
	Limits
}

func (a ByBestAsk) Len() int {
	return len(a.Limits)
}

func (a ByBestAsk) Less(i, j int) bool {
	return a.Limits[i].Price.LessThan(a.Limits[j].Price)
}

func (a ByBestAsk) Swap(i, j int) {
	a.Limits[i], a.Limits[j] = a.Limits[j], a.Limits[i]
}

// ByBestBid sorts Limits by the best bid price (highest price).
type ByBestBid struct {
	Limits
}

func (a ByBestBid) Len() int {
	return len(a.Limits)
}
func (a ByBestBid) Less(i, j int) bool {
	return a.Limits[i].Price.GreaterThan(a.Limits[j].Price)
}
func (a ByBestBid) Swap(i, j int) {
	a.Limits[i], a.Limits[j] = a.Limits[j], a.Limits[i]
}

// Search returns the index of price in limits sorted best first, or the
// index it would be inserted at, and whether the level exists.
func (l Limits) Search(price decimal.Decimal, bids bool) (int, bool) {
	i := sort.Search(len(l), func(i int) bool {
		if bids {
			return l[i].Price.LessThanOrEqual(price)
		}
		return l[i].Price.GreaterThanOrEqual(price)
	})
	return i, i < len(l) && l[i].Price.Equal(price)
}

// Insert places limit at index i.
func (l Limits) Insert(i int, limit *Limit) Limits {
	l = append(l, nil)
	copy(l[i+1:], l[i:])
	l[i] = limit
	return l
}

// Delete drops the level at index i.
func (l Limits) Delete(i int) Limits {
	copy(l[i:], l[i+1:])
	l[len(l)-1] = nil
	return l[:len(l)-1]
}
