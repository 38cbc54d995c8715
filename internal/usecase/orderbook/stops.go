package orderbook

import (
	"sort"
	"time"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// placeStop puts a stopping order into the trigger index, or runs it at once
// when its condition already holds.
func (ob *Orderbook) placeStop(o *orderv1.Order, p *pass) {
	if !ob.guard.Allow(ob.symbol, p.at) {
		ob.park(o, p)
		return
	}

	if price, ok := ob.holds(o); ok {
		if err := o.Transition(orderv1.StatusPending, p.at); err != nil {
			p.fail(err)
			return
		}
		o.ReversePrice = price
		p.touch(o, ReasonTriggered)
		ob.execute(o, p)
		return
	}

	if err := ob.track(o, locStop); err != nil {
		p.fail(err)
		return
	}
	ob.insertStop(o)
	p.touch(o, "")
}

// ActivateTriggered runs the stops triggered by earlier operations, in sequence order.
// Stops triggered by these runs are processed in the same call.
func (ob *Orderbook) ActivateTriggered(at time.Time) orderbookv1.Result {
	if len(ob.triggered) == 0 {
		return orderbookv1.Result{}
	}
	p := newPass(at)
	ob.activate(p)
	return p.result()
}

func (ob *Orderbook) activate(p *pass) {
	for len(ob.triggered) > 0 {
		o := ob.triggered[0]
		ob.triggered = ob.triggered[1:]
		delete(ob.orders, o.ID)
		ob.process(o, p)
	}
}

// checkStops moves every stop whose condition holds to the triggered queue.
func (ob *Orderbook) checkStops(p *pass) {
	for len(ob.gteStops) > 0 {
		o := ob.gteStops[0]
		price, ok := ob.holds(o)
		if !ok {
			break
		}
		ob.gteStops = ob.gteStops[1:]
		ob.trigger(o, price, p)
	}
	for len(ob.lteStops) > 0 {
		o := ob.lteStops[0]
		price, ok := ob.holds(o)
		if !ok {
			break
		}
		ob.lteStops = ob.lteStops[1:]
		ob.trigger(o, price, p)
	}
}

func (ob *Orderbook) trigger(o *orderv1.Order, price decimal.Decimal, p *pass) {
	if err := o.Transition(orderv1.StatusPending, p.at); err != nil {
		p.fail(err)
		return
	}
	o.ReversePrice = price
	if e, ok := ob.orders[o.ID]; ok {
		e.loc = locTriggered
	}
	ob.triggered = insertBySequence(ob.triggered, o)
	p.touch(o, ReasonTriggered)
}

// holds returns the first reference price satisfying the stop condition of o.
func (ob *Orderbook) holds(o *orderv1.Order) (decimal.Decimal, bool) {
	for _, price := range ob.triggerPrices() {
		if o.StopCondition.Holds(price, o.StopPrice) {
			return price, true
		}
	}
	return decimal.Zero, false
}

func (ob *Orderbook) triggerPrices() []decimal.Decimal {
	prices := make([]decimal.Decimal, 0, 3)
	if ob.lastPrice.IsPositive() {
		prices = append(prices, ob.lastPrice)
	}
	if ob.opts.TriggerPolicy == orderbookv1.TriggerLastPriceOrQuote {
		if bid, ok := ob.BestBid(); ok {
			prices = append(prices, bid)
		}
		if ask, ok := ob.BestAsk(); ok {
			prices = append(prices, ask)
		}
	}
	return prices
}

// insertStop keeps gte stops ascending and lte stops descending by stop
// price, the earliest sequence first on equal prices.
func (ob *Orderbook) insertStop(o *orderv1.Order) {
	if o.StopCondition == orderv1.StopGTE {
		i := sort.Search(len(ob.gteStops), func(i int) bool {
			s := ob.gteStops[i]
			return s.StopPrice.GreaterThan(o.StopPrice) ||
				(s.StopPrice.Equal(o.StopPrice) && s.Sequence > o.Sequence)
		})
		ob.gteStops = insertAt(ob.gteStops, i, o)
		return
	}

	i := sort.Search(len(ob.lteStops), func(i int) bool {
		s := ob.lteStops[i]
		return s.StopPrice.LessThan(o.StopPrice) ||
			(s.StopPrice.Equal(o.StopPrice) && s.Sequence > o.Sequence)
	})
	ob.lteStops = insertAt(ob.lteStops, i, o)
}

func (ob *Orderbook) removeStop(o *orderv1.Order) {
	if o.StopCondition == orderv1.StopGTE {
		ob.gteStops = removeOrder(ob.gteStops, o)
		return
	}
	ob.lteStops = removeOrder(ob.lteStops, o)
}

func insertBySequence(orders []*orderv1.Order, o *orderv1.Order) []*orderv1.Order {
	i := sort.Search(len(orders), func(i int) bool {
		return orders[i].Sequence > o.Sequence
	})
	return insertAt(orders, i, o)
}

func insertAt(orders []*orderv1.Order, i int, o *orderv1.Order) []*orderv1.Order {
	orders = append(orders, nil)
	copy(orders[i+1:], orders[i:])
	orders[i] = o
	return orders
}
