package engine

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/orderbook"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/util"
)

// ReasonInsufficientBalance is attached to orders whose reservation failed.
const ReasonInsufficientBalance = "insufficient_balance"

// errInterrupted marks a command whose processing was cut short by shutdown.
var errInterrupted = stderrors.New("command processing interrupted")

func (e *Engine) handleMessage(m message) {
	if m.cmd == nil {
		e.advance(m.msg.Offset, 0)
		return
	}

	cmd := m.cmd
	if cmd.Sequence != 0 && cmd.Sequence <= e.GetSequence() {
		duplicateCommands.WithLabelValues(strconv.Itoa(e.shard)).Inc()
		e.logger.Warn("Skipping already processed command",
			logger.NewField("sequence", cmd.Sequence),
			logger.NewField("offset", m.msg.Offset),
		)
		e.advance(m.msg.Offset, 0)
		return
	}

	if err := e.processCommand(cmd, m.msg.Offset <= e.replayUntil); err != nil {
		// The offset stays unprocessed so the command is replayed after restart.
		e.interrupted = true
		e.logger.Warn("Command interrupted",
			logger.NewField("sequence", cmd.Sequence),
			logger.NewField("offset", m.msg.Offset),
		)
		return
	}

	commandsProcessed.WithLabelValues(strconv.Itoa(e.shard), string(cmd.Code)).Inc()
	e.advance(m.msg.Offset, cmd.Sequence)
}

// processCommand applies one command to the book of its symbol. During
// replay outbound events are not published again.
func (e *Engine) processCommand(cmd *orderv1.Command, replaying bool) error {
	ctx := util.WithRequestID(e.ctx, cmd.RequestID)
	symbol := cmd.Data.Symbol

	if e.isHalted(symbol) {
		e.logger.WarnContext(ctx, "Command refused for halted symbol",
			logger.NewField("symbol", symbol),
			logger.NewField("sequence", cmd.Sequence),
			logger.NewField("code", cmd.Code),
		)
		return nil
	}
	if _, _, err := orderv1.ParseSymbol(symbol); err != nil {
		e.logger.ErrorContext(ctx, err, logger.NewField("sequence", cmd.Sequence))
		return nil
	}

	book := e.book(symbol)
	at := e.advanceClock(cmd.Time())

	if err := e.settle(ctx, book, book.Resume(at), replaying); err != nil {
		return err
	}
	if e.isHalted(symbol) {
		return nil
	}

	var err error
	switch cmd.Code {
	case orderv1.PlaceOrder:
		err = e.place(ctx, book, cmd, at, replaying)
	case orderv1.CancelOrder, orderv1.RemoveOrder:
		err = e.evict(ctx, book, cmd, at, replaying)
	default:
		e.logger.WarnContext(ctx, "Unknown command",
			logger.NewField("code", cmd.Code),
			logger.NewField("sequence", cmd.Sequence),
		)
	}
	if err != nil || e.isHalted(symbol) {
		return err
	}

	return e.settle(ctx, book, book.ActivateTriggered(at), replaying)
}

func (e *Engine) place(ctx context.Context, book *orderbook.Orderbook, cmd *orderv1.Command, at time.Time, replaying bool) error {
	order := cmd.NewOrder()
	if e.liveOrder(order.ID) {
		e.dropDuplicate(ctx, cmd)
		return nil
	}

	reservation, ok := e.reservation(book, order)
	if !ok {
		// nothing to buy: a market buy needs asks to price its reservation
		e.reject(ctx, order, orderv1.StatusCanceled, orderbook.ReasonNoLiquidity, at, replaying)
		return nil
	}

	err := e.retryLedger(ctx, "reserve", func() error { return e.ledger.Reserve(ctx, reservation) })
	switch {
	case err == nil:
		order.Reserved = reservation.Amount
	case e.ctx.Err() != nil:
		return errInterrupted
	case stderrors.Is(err, ledgerv1.ErrOrderIDInUse):
		// the id is held on another shard: no update is emitted for an id this user does not own
		e.dropDuplicate(ctx, cmd)
		return nil
	case errors.Classify(err) == errors.CategoryBusiness:
		e.logger.InfoContext(ctx, "Order rejected",
			logger.NewField("orderID", order.ID),
			logger.NewField("userID", order.UserID),
			logger.NewField("error", err.Error()),
		)
		e.reject(ctx, order, orderv1.StatusRejected, ReasonInsufficientBalance, at, replaying)
		return nil
	default:
		e.halt(ctx, book.Symbol(), err)
		return nil
	}

	return e.settle(ctx, book, book.Place(order, at), replaying)
}

func (e *Engine) evict(ctx context.Context, book *orderbook.Orderbook, cmd *orderv1.Command, at time.Time, replaying bool) error {
	order, ok := book.Order(cmd.Data.ID)
	if !ok {
		e.logger.DebugContext(ctx, "Order to evict not found",
			logger.NewField("orderID", cmd.Data.ID),
			logger.NewField("code", cmd.Code),
		)
		return nil
	}
	if cmd.Code == orderv1.CancelOrder && order.UserID != cmd.Data.UserID {
		e.logger.WarnContext(ctx, "Cancel by another user ignored",
			logger.NewField("orderID", order.ID),
			logger.NewField("owner", order.UserID),
			logger.NewField("userID", cmd.Data.UserID),
		)
		return nil
	}

	var (
		res orderbookv1.Result
		err error
	)
	if cmd.Code == orderv1.CancelOrder {
		res, err = book.Cancel(order.ID, at)
	} else {
		res, err = book.Remove(order.ID, at)
	}
	if err != nil {
		e.logger.WarnContext(ctx, "Order not evicted",
			logger.NewField("orderID", order.ID),
			logger.NewField("error", err.Error()),
		)
		return nil
	}
	return e.settle(ctx, book, res, replaying)
}

// liveOrder reports whether id is an open order of any book on the shard.
func (e *Engine) liveOrder(id string) bool {
	for _, book := range e.books {
		if _, ok := book.Order(id); ok {
			return true
		}
	}
	return false
}

func (e *Engine) dropDuplicate(ctx context.Context, cmd *orderv1.Command) {
	rejections.WithLabelValues("duplicate_order").Inc()
	e.logger.WarnContext(ctx, "Duplicate order id",
		logger.NewField("orderID", cmd.Data.ID),
		logger.NewField("userID", cmd.Data.UserID),
		logger.NewField("symbol", cmd.Data.Symbol),
		logger.NewField("sequence", cmd.Sequence),
	)
}

// reservation returns what order must hold before it enters the book.
// Sells hold the coin quantity, limit buys the quantity at the limit price.
// Market buys hold the cost of the current asks plus the slippage margin.
func (e *Engine) reservation(book *orderbook.Orderbook, o *orderv1.Order) (ledgerv1.Reservation, bool) {
	coin, currency := orderv1.MustParseSymbol(o.Symbol)
	r := ledgerv1.Reservation{OrderID: o.ID, UserID: o.UserID, Symbol: o.Symbol}

	if !o.IsBuy() {
		r.Asset = coin
		r.Amount = o.Quantity
		return r, r.Amount.IsPositive()
	}

	r.Asset = currency
	margin := decimal.NewFromInt(1).Add(e.registry.Load().MarketBuySlippage)
	switch o.Kind {
	case orderv1.KindLimit, orderv1.KindStopLimit:
		r.Amount = o.Quantity.Mul(o.Price)
	case orderv1.KindStopMarket:
		r.Amount = o.Quantity.Mul(o.StopPrice).Mul(margin)
	case orderv1.KindMarket:
		cost, _ := book.QuoteBuy(o.Quantity)
		r.Amount = cost.Mul(margin)
	}
	return r, r.Amount.IsPositive()
}

// reject ends an order that never reached the book.
func (e *Engine) reject(ctx context.Context, o *orderv1.Order, status orderv1.Status, reason string, at time.Time, replaying bool) {
	if err := o.Transition(status, at); err != nil {
		e.logger.ErrorContext(ctx, err, logger.NewField("orderID", o.ID))
		return
	}
	rejections.WithLabelValues(reason).Inc()
	if !replaying {
		e.publish(nil, []orderv1.OrderUpdate{o.Update(reason)})
	}
}

// settle applies the effects of one book operation in order: trades are
// settled, terminal orders release what they still hold, depth follows the
// deltas and the events are published.
func (e *Engine) settle(ctx context.Context, book *orderbook.Orderbook, res orderbookv1.Result, replaying bool) error {
	symbol := book.Symbol()

	if err := e.settleLedger(ctx, symbol, res, replaying); err != nil {
		return err
	}

	if e.aggregator != nil {
		e.aggregator.OnDelta(res.Deltas...)
	}
	if res.Tripped {
		breakerTrips.WithLabelValues(symbol).Inc()
		e.logger.InfoContext(ctx, "Trading blocked by circuit breaker", logger.NewField("symbol", symbol))
	}
	if res.Err != nil {
		e.halt(ctx, symbol, res.Err)
	}
	if !replaying {
		e.publish(res.Trades, res.Updates)
	}
	return nil
}

func (e *Engine) settleLedger(ctx context.Context, symbol string, res orderbookv1.Result, replaying bool) error {
	for _, trade := range res.Trades {
		start := time.Now()
		err := e.retryLedger(ctx, "apply", func() error { return e.ledger.Apply(ctx, trade) })
		settlementLatency.Observe(time.Since(start).Seconds())

		switch {
		case err == nil:
			tradesExecuted.WithLabelValues(symbol).Inc()
		case e.ctx.Err() != nil:
			return errInterrupted
		case replaying && stderrors.Is(err, ledgerv1.ErrDuplicateTrade):
			e.logger.DebugContext(ctx, "Trade already settled", logger.NewField("tradeID", trade.ID))
		default:
			e.halt(ctx, symbol, err)
			return nil
		}
	}

	for _, orderID := range res.Terminal {
		var released decimal.Decimal
		err := e.retryLedger(ctx, "release", func() error {
			var err error
			released, err = e.ledger.Release(ctx, orderID)
			return err
		})
		switch {
		case err == nil:
			if released.IsPositive() {
				e.logger.DebugContext(ctx, "Reservation released",
					logger.NewField("orderID", orderID),
					logger.NewField("amount", released.String()),
				)
			}
		case e.ctx.Err() != nil:
			return errInterrupted
		default:
			e.halt(ctx, symbol, err)
			return nil
		}
	}
	return nil
}

// retryLedger retries fn while it fails with an unclassified or transient
// error. Business and invariant errors are returned at once.
func (e *Engine) retryLedger(ctx context.Context, operation string, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = e.options.RetryMaxInterval
	policy.MaxElapsedTime = 0

	return backoff.RetryNotify(
		func() error {
			err := fn()
			switch errors.Classify(err) {
			case errors.CategoryBusiness, errors.CategoryInvariant, errors.CategoryValidation:
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(policy, e.ctx),
		func(err error, wait time.Duration) {
			e.logger.WarnContext(ctx, "Retrying ledger call",
				logger.NewField("operation", operation),
				logger.NewField("error", err.Error()),
				logger.NewField("wait", wait.String()),
			)
		},
	)
}

// halt refuses every further command of symbol.
func (e *Engine) halt(ctx context.Context, symbol string, err error) {
	if e.isHalted(symbol) {
		return
	}
	e.halted[symbol] = struct{}{}
	invariantHalts.WithLabelValues(symbol).Inc()
	e.logger.ErrorContext(ctx, err,
		logger.NewField("action", "halt_symbol"),
		logger.NewField("symbol", symbol),
	)
}

// advanceClock returns at, or the shard clock when at is behind it.
func (e *Engine) advanceClock(at time.Time) time.Time {
	if at.Before(e.clock) {
		return e.clock
	}
	e.clock = at
	return at
}

func (e *Engine) isHalted(symbol string) bool {
	_, halted := e.halted[symbol]
	return halted
}

// book returns the book of symbol, creating it on first use.
func (e *Engine) book(symbol string) *orderbook.Orderbook {
	if book, ok := e.books[symbol]; ok {
		return book
	}
	book := e.newBook(symbol)
	e.books[symbol] = book
	return book
}

func (e *Engine) newBook(symbol string) *orderbook.Orderbook {
	s := e.registry.Load()
	market, _ := s.Market(symbol)
	return orderbook.NewOrderbook(symbol, e.breaker, e.registry, orderbook.Options{
		QuantityPrecision: market.QuantityPrecision,
		TriggerPolicy:     s.StopTriggerPolicy,
	})
}
