package orderbook

import (
	"time"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// Place accepts a new order: it is parked while trading is blocked, waits in
// the trigger index when it is a stop, otherwise it matches immediately.
func (ob *Orderbook) Place(o *orderv1.Order, at time.Time) orderbookv1.Result {
	p := newPass(at)
	if o.Symbol != ob.symbol {
		p.fail(ErrSymbolMismatch)
		return p.result()
	}
	if _, exists := ob.orders[o.ID]; exists {
		p.fail(ErrDuplicateOrder)
		return p.result()
	}

	next := orderv1.StatusPending
	if o.Kind.IsStop() {
		next = orderv1.StatusStopping
	}
	if err := o.Transition(next, at); err != nil {
		p.fail(err)
		return p.result()
	}
	p.touch(o, "")

	if o.Kind.IsStop() {
		ob.placeStop(o, p)
	} else {
		ob.process(o, p)
	}
	return p.result()
}

// process matches o unless trading is blocked.
func (ob *Orderbook) process(o *orderv1.Order, p *pass) {
	if !ob.guard.Allow(ob.symbol, p.at) {
		ob.park(o, p)
		return
	}
	ob.execute(o, p)
}

// execute runs one matching pass of o against the opposite side and settles
// what remains according to its kind and time in force.
func (ob *Orderbook) execute(o *orderv1.Order, p *pass) {
	if o.TimeInForce == orderv1.FOK && !ob.fillable(o) {
		ob.terminate(o, orderv1.StatusRejected, ReasonFOKInfeasible, p)
		return
	}

	budgeted := o.IsBuy() && o.IsMarket() && o.Reserved.IsPositive()
	against := ob.side(o.Side.Opposite())
	trades := len(p.res.Trades)
	tripped := false

	for o.Remaining().IsPositive() && len(*against) > 0 {
		limit := (*against)[0]
		if !o.Crosses(limit.Price) {
			break
		}

		qty := decimal.Min(o.Remaining(), limit.Front().Remaining())
		if budgeted {
			qty = decimal.Min(qty, ob.affordable(o.Reserved, limit.Price))
			if !qty.IsPositive() {
				break
			}
		}

		if o.Status != orderv1.StatusExecuting {
			if err := o.Transition(orderv1.StatusExecuting, p.at); err != nil {
				p.fail(err)
				return
			}
		}

		trade, err := ob.match(o, limit, qty, p)
		if err != nil {
			p.fail(err)
			return
		}
		if ob.guard.Observe(trade) {
			tripped = true
			p.res.Tripped = true
			// a fill-or-kill order was found fillable, it completes
			if o.TimeInForce != orderv1.FOK {
				break
			}
		}
	}

	if o.Status == orderv1.StatusExecuting && !o.IsFilled() {
		if err := o.Transition(orderv1.StatusPartiallyFilled, p.at); err != nil {
			p.fail(err)
			return
		}
	}

	switch {
	case o.IsFilled():
		p.touch(o, "")
	case o.IsMarket():
		ob.terminate(o, orderv1.StatusCanceled, ReasonNoLiquidity, p)
	case o.TimeInForce == orderv1.IOC, o.TimeInForce == orderv1.FOK:
		ob.terminate(o, orderv1.StatusCanceled, ReasonIOCExpired, p)
	case tripped:
		ob.park(o, p)
	default:
		if err := ob.rest(o); err != nil {
			p.fail(err)
			return
		}
		p.delta(ob.symbol, o, o.Price, o.Remaining(), 1)
		p.touch(o, "")
	}

	if len(p.res.Trades) > trades {
		ob.checkStops(p)
	}
}

// match fills the front order of limit against the taker o by qty.
func (ob *Orderbook) match(o *orderv1.Order, limit *orderbookv1.Limit, qty decimal.Decimal, p *pass) (orderv1.Trade, error) {
	maker := limit.Front()
	price := limit.Price
	amount := price.Mul(qty)

	makerRate, _ := ob.rates(maker.UserID)
	_, takerRate := ob.rates(o.UserID)

	buyer, seller := o, maker
	buyRate, sellRate := takerRate, makerRate
	if !o.IsBuy() {
		buyer, seller = maker, o
		buyRate, sellRate = makerRate, takerRate
	}
	buyFee := qty.Mul(buyRate)
	sellFee := amount.Mul(sellRate)

	ob.tradeSeq++
	trade := orderv1.Trade{
		ID:          orderv1.TradeID(ob.symbol, ob.tradeSeq),
		Sequence:    ob.tradeSeq,
		Symbol:      ob.symbol,
		BuyOrderID:  buyer.ID,
		SellOrderID: seller.ID,
		BuyerID:     buyer.UserID,
		SellerID:    seller.UserID,
		MakerSide:   maker.Side,
		Price:       price,
		Quantity:    qty,
		Amount:      amount,
		BuyFee:      buyFee,
		SellFee:     sellFee,
		ExecutedAt:  p.at,
	}

	if err := buyer.Fill(qty, price, buyFee, p.at); err != nil {
		return orderv1.Trade{}, err
	}
	if err := seller.Fill(qty, price, sellFee, p.at); err != nil {
		return orderv1.Trade{}, err
	}
	buyer.Reserved = decimal.Max(decimal.Zero, buyer.Reserved.Sub(amount))
	seller.Reserved = decimal.Max(decimal.Zero, seller.Reserved.Sub(qty))

	limit.Reduce(qty)
	count := int64(0)
	if maker.IsFilled() {
		count = -1
		limit.PopFront()
		delete(ob.orders, maker.ID)
		if limit.IsEmpty() {
			against := ob.side(maker.Side)
			*against = against.Delete(0)
		}
	}

	p.delta(ob.symbol, maker, price, qty.Neg(), count)
	p.touch(maker, "")
	p.trade(trade)
	ob.lastPrice = price
	return trade, nil
}

// fillable reports whether the crossing liquidity covers all of o.
func (ob *Orderbook) fillable(o *orderv1.Order) bool {
	need := o.Remaining()
	budget := o.Reserved
	budgeted := o.IsBuy() && o.IsMarket() && budget.IsPositive()

	for _, limit := range *ob.side(o.Side.Opposite()) {
		if !need.IsPositive() || !o.Crosses(limit.Price) {
			break
		}
		take := decimal.Min(need, limit.TotalVolume)
		if budgeted {
			affordable := ob.affordable(budget, limit.Price)
			if affordable.LessThan(take) {
				return false
			}
			budget = budget.Sub(take.Mul(limit.Price))
		}
		need = need.Sub(take)
	}
	return !need.IsPositive()
}

// affordable returns the largest quantity, at the market precision, budget buys at price.
func (ob *Orderbook) affordable(budget, price decimal.Decimal) decimal.Decimal {
	qty := budget.Div(price).Truncate(ob.opts.QuantityPrecision)
	if qty.Mul(price).GreaterThan(budget) {
		qty = qty.Sub(decimal.New(1, -ob.opts.QuantityPrecision))
	}
	return decimal.Max(decimal.Zero, qty)
}

func (ob *Orderbook) rates(userID string) (maker, taker decimal.Decimal) {
	if ob.fees == nil {
		return decimal.Zero, decimal.Zero
	}
	return ob.fees.Rates(userID)
}

// terminate ends an order that is not in any queue of the book.
func (ob *Orderbook) terminate(o *orderv1.Order, status orderv1.Status, reason string, p *pass) {
	if err := o.Transition(status, p.at); err != nil {
		p.fail(err)
		return
	}
	p.touch(o, reason)
}

// park holds o until trading is allowed again.
func (ob *Orderbook) park(o *orderv1.Order, p *pass) {
	if err := ob.track(o, locParked); err != nil {
		p.fail(err)
		return
	}
	ob.parked = insertBySequence(ob.parked, o)
	p.touch(o, ReasonParked)
}

// Resume releases the parked orders in sequence order once trading is allowed.
func (ob *Orderbook) Resume(at time.Time) orderbookv1.Result {
	if len(ob.parked) == 0 || !ob.guard.Allow(ob.symbol, at) {
		return orderbookv1.Result{}
	}

	p := newPass(at)
	parked := ob.parked
	ob.parked = nil
	for _, o := range parked {
		delete(ob.orders, o.ID)
		if o.Status == orderv1.StatusStopping {
			ob.placeStop(o, p)
			continue
		}
		ob.process(o, p)
	}
	ob.activate(p)
	return p.result()
}
