package ledger

import (
	"context"
	"fmt"
	"sort"

	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/shopspring/decimal"
)

var _ ledgerv1.Ledger = (*Ledger)(nil)

// Ledger settles trades against account balances held in a Store.
// Every mutation runs in one Store.Update over the accounts it touches.
type Ledger struct {
	store      ledgerv1.Store
	feeAccount string
	logger     logger.Interface
}

// NewLedger creates a Ledger. Fees are credited to feeAccount, or dropped when it is empty.
func NewLedger(store ledgerv1.Store, feeAccount string, log logger.Interface) *Ledger {
	return &Ledger{store: store, feeAccount: feeAccount, logger: log}
}

// Reserve holds reservation.Amount of the available balance for an order.
// Reserving the same order twice is a no-op. An order id already reserved
// for another user, symbol, asset or amount is rejected with ErrOrderIDInUse.
func (l *Ledger) Reserve(ctx context.Context, reservation ledgerv1.Reservation) error {
	if !reservation.Amount.IsPositive() {
		return fmt.Errorf("%w: reservation of order %s is %s", ledgerv1.ErrInvalidAmount, reservation.OrderID, reservation.Amount)
	}

	key := reservation.Key()
	return l.store.Update(ctx, []ledgerv1.AccountKey{key}, func(tx ledgerv1.Tx) error {
		existing, exists, err := tx.Reservation(reservation.OrderID)
		if err != nil {
			return err
		}
		if exists {
			if existing.Matches(reservation) {
				return nil
			}
			return fmt.Errorf("%w: %s", ledgerv1.ErrOrderIDInUse, reservation.OrderID)
		}

		balance, err := tx.Balance(key)
		if err != nil {
			return err
		}
		if balance.Available.LessThan(reservation.Amount) {
			return fmt.Errorf("%w: %s %s available %s, required %s", ledgerv1.ErrInsufficientAvailable,
				key.UserID, key.Asset, balance.Available, reservation.Amount)
		}

		balance.Available = balance.Available.Sub(reservation.Amount)
		if err := tx.PutBalance(balance); err != nil {
			return err
		}
		reservation.Remaining = reservation.Amount
		return tx.PutReservation(reservation)
	})
}

// Apply settles trade in one atomic mutation: the buyer pays amount in
// currency from its reservation and receives the coin minus the buy fee,
// the seller delivers the coin from its reservation and receives amount minus
// the sell fee.
func (l *Ledger) Apply(ctx context.Context, trade orderv1.Trade) error {
	coin, currency, err := orderv1.ParseSymbol(trade.Symbol)
	if err != nil {
		return err
	}

	buyerCurrency := ledgerv1.AccountKey{UserID: trade.BuyerID, Asset: currency}
	buyerCoin := ledgerv1.AccountKey{UserID: trade.BuyerID, Asset: coin}
	sellerCoin := ledgerv1.AccountKey{UserID: trade.SellerID, Asset: coin}
	sellerCurrency := ledgerv1.AccountKey{UserID: trade.SellerID, Asset: currency}
	keys := []ledgerv1.AccountKey{buyerCurrency, buyerCoin, sellerCoin, sellerCurrency}
	if l.feeAccount != "" {
		keys = append(keys,
			ledgerv1.AccountKey{UserID: l.feeAccount, Asset: coin},
			ledgerv1.AccountKey{UserID: l.feeAccount, Asset: currency},
		)
	}

	return l.store.Update(ctx, SortKeys(keys), func(tx ledgerv1.Tx) error {
		settled, err := tx.TradeSettled(trade.ID)
		if err != nil {
			return err
		}
		if settled {
			return fmt.Errorf("%w: %s", ledgerv1.ErrDuplicateTrade, trade.ID)
		}

		buyRes, err := consume(tx, trade.BuyOrderID, currency, trade.Amount)
		if err != nil {
			return err
		}
		sellRes, err := consume(tx, trade.SellOrderID, coin, trade.Quantity)
		if err != nil {
			return err
		}

		b := newBatch(tx)
		if err := b.debitReserved(buyerCurrency, trade.Amount); err != nil {
			return err
		}
		if err := b.debitReserved(sellerCoin, trade.Quantity); err != nil {
			return err
		}
		if err := b.credit(buyerCoin, trade.Quantity.Sub(trade.BuyFee)); err != nil {
			return err
		}
		if err := b.credit(sellerCurrency, trade.Amount.Sub(trade.SellFee)); err != nil {
			return err
		}
		if l.feeAccount != "" {
			if err := b.credit(ledgerv1.AccountKey{UserID: l.feeAccount, Asset: coin}, trade.BuyFee); err != nil {
				return err
			}
			if err := b.credit(ledgerv1.AccountKey{UserID: l.feeAccount, Asset: currency}, trade.SellFee); err != nil {
				return err
			}
		}
		if err := b.flush(); err != nil {
			return err
		}

		if err := tx.PutReservation(buyRes); err != nil {
			return err
		}
		if err := tx.PutReservation(sellRes); err != nil {
			return err
		}
		return tx.MarkTradeSettled(trade)
	})
}

// Release returns what is left of the reservation of orderID to the
// available balance. Releasing an unknown or released order returns zero.
func (l *Ledger) Release(ctx context.Context, orderID string) (decimal.Decimal, error) {
	reservation, ok, err := l.store.Reservation(ctx, orderID)
	if err != nil || !ok {
		return decimal.Zero, err
	}

	released := decimal.Zero
	err = l.store.Update(ctx, []ledgerv1.AccountKey{reservation.Key()}, func(tx ledgerv1.Tx) error {
		current, ok, err := tx.Reservation(orderID)
		if err != nil || !ok {
			return err
		}

		balance, err := tx.Balance(current.Key())
		if err != nil {
			return err
		}
		balance.Available = balance.Available.Add(current.Remaining)
		if balance.Available.GreaterThan(balance.Balance) {
			return fmt.Errorf("%w: releasing %s of order %s exceeds the reserved balance of %s %s",
				ledgerv1.ErrReservationViolated, current.Remaining, orderID, current.UserID, current.Asset)
		}
		if err := tx.PutBalance(balance); err != nil {
			return err
		}
		released = current.Remaining
		return tx.DeleteReservation(orderID)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return released, nil
}

// Deposit credits amount to the balance of userID in asset.
func (l *Ledger) Deposit(ctx context.Context, userID, asset string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit of %s", ledgerv1.ErrInvalidAmount, amount)
	}
	key := ledgerv1.AccountKey{UserID: userID, Asset: asset}
	return l.store.Update(ctx, []ledgerv1.AccountKey{key}, func(tx ledgerv1.Tx) error {
		b := newBatch(tx)
		if err := b.credit(key, amount); err != nil {
			return err
		}
		return b.flush()
	})
}

// Balance returns the balance of userID in asset.
func (l *Ledger) Balance(ctx context.Context, userID, asset string) (ledgerv1.Balance, error) {
	return l.store.Balance(ctx, ledgerv1.AccountKey{UserID: userID, Asset: asset})
}

// SortKeys returns keys deduplicated in locking order.
func SortKeys(keys []ledgerv1.AccountKey) []ledgerv1.AccountKey {
	seen := make(map[ledgerv1.AccountKey]struct{}, len(keys))
	out := make([]ledgerv1.AccountKey, 0, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func consume(tx ledgerv1.Tx, orderID, asset string, amount decimal.Decimal) (ledgerv1.Reservation, error) {
	reservation, ok, err := tx.Reservation(orderID)
	if err != nil {
		return ledgerv1.Reservation{}, err
	}
	if !ok {
		return ledgerv1.Reservation{}, fmt.Errorf("%w: order %s has no reservation", ledgerv1.ErrReservationViolated, orderID)
	}
	if reservation.Asset != asset {
		return ledgerv1.Reservation{}, fmt.Errorf("%w: order %s reserved %s, trade debits %s",
			ledgerv1.ErrReservationViolated, orderID, reservation.Asset, asset)
	}
	if reservation.Remaining.LessThan(amount) {
		return ledgerv1.Reservation{}, fmt.Errorf("%w: order %s has %s reserved, trade debits %s",
			ledgerv1.ErrReservationViolated, orderID, reservation.Remaining, amount)
	}
	reservation.Remaining = reservation.Remaining.Sub(amount)
	return reservation, nil
}

// batch stages balance changes so several legs on one account compose.
type batch struct {
	tx       ledgerv1.Tx
	balances map[ledgerv1.AccountKey]ledgerv1.Balance
	order    []ledgerv1.AccountKey
}

func newBatch(tx ledgerv1.Tx) *batch {
	return &batch{tx: tx, balances: make(map[ledgerv1.AccountKey]ledgerv1.Balance)}
}

func (b *batch) get(key ledgerv1.AccountKey) (ledgerv1.Balance, error) {
	if balance, ok := b.balances[key]; ok {
		return balance, nil
	}
	balance, err := b.tx.Balance(key)
	if err != nil {
		return ledgerv1.Balance{}, err
	}
	balance.UserID, balance.Asset = key.UserID, key.Asset
	b.order = append(b.order, key)
	return balance, nil
}

// debitReserved takes amount out of the reserved part of the balance.
func (b *batch) debitReserved(key ledgerv1.AccountKey, amount decimal.Decimal) error {
	balance, err := b.get(key)
	if err != nil {
		return err
	}
	if balance.Reserved().LessThan(amount) {
		return fmt.Errorf("%w: %s %s has %s reserved, trade debits %s",
			ledgerv1.ErrReservationViolated, key.UserID, key.Asset, balance.Reserved(), amount)
	}
	balance.Balance = balance.Balance.Sub(amount)
	b.balances[key] = balance
	return nil
}

func (b *batch) credit(key ledgerv1.AccountKey, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative credit %s to %s %s", ledgerv1.ErrReservationViolated, amount, key.UserID, key.Asset)
	}
	balance, err := b.get(key)
	if err != nil {
		return err
	}
	balance.Balance = balance.Balance.Add(amount)
	balance.Available = balance.Available.Add(amount)
	b.balances[key] = balance
	return nil
}

func (b *batch) flush() error {
	for _, key := range b.order {
		if err := b.tx.PutBalance(b.balances[key]); err != nil {
			return err
		}
	}
	return nil
}
