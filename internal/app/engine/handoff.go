package engine

import (
	"context"
	"sort"
	"time"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

// Detach removes symbol from the shard and returns everything needed to
// serve it elsewhere. A shard snapshot is stored right after so a restart
// does not bring the symbol back.
func (e *Engine) Detach(ctx context.Context, symbol string) (*snapshotv1.SymbolState, error) {
	e.snapshotMu.Lock()
	defer e.snapshotMu.Unlock()

	var (
		state *snapshotv1.SymbolState
		snap  *snapshotv1.Snapshot
	)
	err := e.do(ctx, func(context.Context) {
		state = &snapshotv1.SymbolState{Book: snapshotv1.BookSnapshot{Symbol: symbol}}
		if book, ok := e.books[symbol]; ok {
			state.Book = book.Snapshot()
		}
		if st, ok := e.breaker.State(symbol); ok {
			state.Breaker = &st
		}
		state.Halted = e.isHalted(symbol)

		delete(e.books, symbol)
		delete(e.halted, symbol)
		e.breaker.Forget(symbol)
		if e.aggregator != nil {
			e.aggregator.Forget(symbol, time.Now().UTC())
		}
		snap = e.createSnapshot()
	})
	if err != nil {
		return nil, err
	}

	if err := e.storeSnapshot(ctx, snap); err != nil {
		return state, err
	}
	e.logger.InfoContext(ctx, "Symbol detached",
		logger.NewField("symbol", symbol),
		logger.NewField("orders", len(state.Book.Orders)),
	)
	return state, nil
}

// Attach installs a symbol detached from another shard.
func (e *Engine) Attach(ctx context.Context, state *snapshotv1.SymbolState) error {
	e.snapshotMu.Lock()
	defer e.snapshotMu.Unlock()

	var (
		restoreErr error
		snap       *snapshotv1.Snapshot
	)
	symbol := state.Book.Symbol
	err := e.do(ctx, func(context.Context) {
		book := e.newBook(symbol)
		if restoreErr = book.Restore(state.Book); restoreErr != nil {
			return
		}
		e.books[symbol] = book
		if state.Breaker != nil {
			e.breaker.Restore(*state.Breaker)
		}
		if state.Halted {
			e.halted[symbol] = struct{}{}
		}
		if e.aggregator != nil {
			e.aggregator.Rebuild(symbol, book.RestingOrders(), time.Now().UTC())
		}
		snap = e.createSnapshot()
	})
	if err != nil {
		return err
	}
	if restoreErr != nil {
		return restoreErr
	}

	if err := e.storeSnapshot(ctx, snap); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "Symbol attached",
		logger.NewField("symbol", symbol),
		logger.NewField("orders", len(state.Book.Orders)),
	)
	return nil
}

// Depth returns the raw price levels of symbol, best first.
func (e *Engine) Depth(ctx context.Context, symbol string, limit int) (orderbookv1.Depth, error) {
	depth := orderbookv1.Depth{Symbol: symbol}
	err := e.do(ctx, func(context.Context) {
		if book, ok := e.books[symbol]; ok {
			depth = book.Depth(limit)
		}
	})
	return depth, err
}

// Order returns a copy of a live order of symbol.
func (e *Engine) Order(ctx context.Context, symbol, orderID string) (*orderv1.Order, bool, error) {
	var (
		order *orderv1.Order
		found bool
	)
	err := e.do(ctx, func(context.Context) {
		if book, ok := e.books[symbol]; ok {
			if o, ok := book.Order(orderID); ok {
				order, found = o.Clone(), true
			}
		}
	})
	return order, found, err
}

// Halted returns the symbols refused after an invariant violation.
func (e *Engine) Halted(ctx context.Context) ([]string, error) {
	var halted []string
	err := e.do(ctx, func(context.Context) {
		for symbol := range e.halted {
			halted = append(halted, symbol)
		}
	})
	sort.Strings(halted)
	return halted, err
}

// Symbols returns the symbols with a book on the shard.
func (e *Engine) Symbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := e.do(ctx, func(context.Context) { symbols = e.symbols() })
	return symbols, err
}
