package orderbook

import (
	"time"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// pass accumulates the effects of one book operation.
type pass struct {
	at      time.Time
	res     orderbookv1.Result
	touched []*orderv1.Order
	reasons map[*orderv1.Order]string
}

func newPass(at time.Time) *pass {
	return &pass{at: at, reasons: make(map[*orderv1.Order]string)}
}

// touch marks o as changed. The last non empty reason wins.
func (p *pass) touch(o *orderv1.Order, reason string) {
	if _, seen := p.reasons[o]; !seen {
		p.touched = append(p.touched, o)
		p.reasons[o] = ""
	}
	if reason != "" {
		p.reasons[o] = reason
	}
}

func (p *pass) finish(o *orderv1.Order, reason string) {
	p.touch(o, reason)
}

func (p *pass) trade(t orderv1.Trade) {
	p.res.Trades = append(p.res.Trades, t)
}

func (p *pass) delta(symbol string, o *orderv1.Order, price, qty decimal.Decimal, count int64) {
	p.res.Deltas = append(p.res.Deltas, orderv1.BookDelta{
		Symbol:        symbol,
		Side:          o.Side,
		Price:         price,
		QuantityDelta: qty,
		CountDelta:    count,
		UserID:        o.UserID,
		UpdatedAt:     p.at,
	})
}

func (p *pass) fail(err error) {
	if p.res.Err == nil {
		p.res.Err = err
	}
}

// result emits one update per touched order with its final state.
func (p *pass) result() orderbookv1.Result {
	res := p.res
	for _, o := range p.touched {
		res.Updates = append(res.Updates, o.Update(p.reasons[o]))
		if o.IsTerminal() {
			res.Terminal = append(res.Terminal, o.ID)
		}
	}
	return res
}
