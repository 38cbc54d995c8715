package ledger

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/postgresql"
)

// ErrAccountNotLocked is returned when a Tx touches an account Update did not lock.
var ErrAccountNotLocked = errors.NewInvariant("account not locked by the transaction")

const (
	ensureAccountsQuery = `INSERT INTO account_balances (user_id, asset, balance, available)
SELECT t.user_id, t.asset, 0, 0 FROM unnest($1::text[], $2::text[]) AS t(user_id, asset)
ON CONFLICT (user_id, asset) DO NOTHING`

	lockAccountsQuery = `SELECT user_id, asset, balance::text, available::text FROM account_balances
WHERE (user_id, asset) IN (SELECT * FROM unnest($1::text[], $2::text[]))
ORDER BY user_id, asset FOR UPDATE`

	balanceQuery = `SELECT user_id, asset, balance::text, available::text FROM account_balances WHERE user_id = $1 AND asset = $2`

	reservationQuery = `SELECT order_id, user_id, symbol, asset, amount::text, remaining::text FROM balance_reservations WHERE order_id = $1`

	deleteReservationQuery = `DELETE FROM balance_reservations WHERE order_id = $1`

	tradeSettledQuery = `SELECT EXISTS (SELECT 1 FROM settled_trades WHERE trade_id = $1)`
)

var _ ledgerv1.Store = (*repository)(nil)

// repository is the PostgreSQL balance store. Update runs in a SERIALIZABLE
// transaction holding row locks on the listed accounts.
type repository struct {
	db      postgresql.PostgreSQLClient
	logger  logger.Interface
	retries int
}

// NewRepository creates a new repository. retries bounds the re-runs of a
// transaction aborted by a serialization failure.
func NewRepository(db postgresql.PostgreSQLClient, log logger.Interface, retries int) *repository {
	return &repository{db: db, logger: log, retries: retries}
}

// Update locks accounts, runs fn and writes what fn staged in the same transaction.
// fn may run more than once when the transaction is retried.
func (r *repository) Update(ctx context.Context, accounts []ledgerv1.AccountKey, fn func(tx ledgerv1.Tx) error) error {
	keys := sortedKeys(accounts)
	users := make([]string, len(keys))
	assets := make([]string, len(keys))
	for i, k := range keys {
		users[i], assets[i] = k.UserID, k.Asset
	}

	attempt := 0
	err := postgresql.WithSerializableRetry(ctx, r.db, r.retries, func(txCtx context.Context) error {
		attempt++
		if attempt > 1 {
			r.logger.Debug("Retrying ledger transaction", logger.NewField("attempt", attempt))
		}

		t := newTx(txCtx, r.db)
		if len(keys) > 0 {
			if _, err := r.db.Exec(txCtx, ensureAccountsQuery, users, assets); err != nil {
				return err
			}
			if err := t.lock(users, assets); err != nil {
				return err
			}
		}

		if err := fn(t); err != nil {
			return err
		}
		return t.flush()
	})
	if err != nil {
		if errors.Classify(err) != errors.CategoryUnknown {
			return err
		}
		return errors.NewTracer(errors.LedgerStoreError.String()).Wrap(err)
	}
	return nil
}

// Balance returns the committed balance of key. Unknown accounts are zero.
func (r *repository) Balance(ctx context.Context, key ledgerv1.AccountKey) (ledgerv1.Balance, error) {
	var row balanceRow
	err := r.db.QueryRow(ctx, balanceQuery, key.UserID, key.Asset).Scan(&row.UserID, &row.Asset, &row.Balance, &row.Available)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return ledgerv1.Balance{UserID: key.UserID, Asset: key.Asset}, nil
	}
	if err != nil {
		return ledgerv1.Balance{}, errors.TracerFromError(err)
	}
	return row.toBalance()
}

// Reservation returns the committed reservation of orderID.
func (r *repository) Reservation(ctx context.Context, orderID string) (ledgerv1.Reservation, bool, error) {
	return queryReservation(ctx, r.db, orderID)
}

func queryReservation(ctx context.Context, db postgresql.PostgreSQLClient, orderID string) (ledgerv1.Reservation, bool, error) {
	var row reservationRow
	err := db.QueryRow(ctx, reservationQuery, orderID).Scan(&row.OrderID, &row.UserID, &row.Symbol, &row.Asset, &row.Amount, &row.Remaining)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return ledgerv1.Reservation{}, false, nil
	}
	if err != nil {
		return ledgerv1.Reservation{}, false, errors.TracerFromError(err)
	}
	res, err := row.toReservation()
	return res, err == nil, err
}

func sortedKeys(accounts []ledgerv1.AccountKey) []ledgerv1.AccountKey {
	seen := make(map[ledgerv1.AccountKey]struct{}, len(accounts))
	keys := make([]ledgerv1.AccountKey, 0, len(accounts))
	for _, k := range accounts {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// tx stages writes in memory and flushes them before commit.
type tx struct {
	ctx context.Context
	db  postgresql.PostgreSQLClient

	locked       map[ledgerv1.AccountKey]ledgerv1.Balance
	dirty        map[ledgerv1.AccountKey]struct{}
	reservations map[string]*ledgerv1.Reservation // nil marks a deletion
	resOrder     []string
	settled      []orderv1.Trade
}

func newTx(ctx context.Context, db postgresql.PostgreSQLClient) *tx {
	return &tx{
		ctx:          ctx,
		db:           db,
		locked:       make(map[ledgerv1.AccountKey]ledgerv1.Balance),
		dirty:        make(map[ledgerv1.AccountKey]struct{}),
		reservations: make(map[string]*ledgerv1.Reservation),
	}
}

func (t *tx) lock(users, assets []string) error {
	rows, err := t.db.Query(t.ctx, lockAccountsQuery, users, assets)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row balanceRow
		if err := rows.Scan(&row.UserID, &row.Asset, &row.Balance, &row.Available); err != nil {
			return err
		}
		b, err := row.toBalance()
		if err != nil {
			return err
		}
		t.locked[b.Key()] = b
	}
	return rows.Err()
}

func (t *tx) check(key ledgerv1.AccountKey) error {
	if _, ok := t.locked[key]; !ok {
		return fmt.Errorf("%w: %s %s", ErrAccountNotLocked, key.UserID, key.Asset)
	}
	return nil
}

func (t *tx) Balance(key ledgerv1.AccountKey) (ledgerv1.Balance, error) {
	if err := t.check(key); err != nil {
		return ledgerv1.Balance{}, err
	}
	return t.locked[key], nil
}

func (t *tx) PutBalance(balance ledgerv1.Balance) error {
	if err := t.check(balance.Key()); err != nil {
		return err
	}
	t.locked[balance.Key()] = balance
	t.dirty[balance.Key()] = struct{}{}
	return nil
}

func (t *tx) Reservation(orderID string) (ledgerv1.Reservation, bool, error) {
	if r, staged := t.reservations[orderID]; staged {
		if r == nil {
			return ledgerv1.Reservation{}, false, nil
		}
		return *r, true, nil
	}
	return queryReservation(t.ctx, t.db, orderID)
}

func (t *tx) PutReservation(reservation ledgerv1.Reservation) error {
	if err := t.check(reservation.Key()); err != nil {
		return err
	}
	t.stage(reservation.OrderID, &reservation)
	return nil
}

func (t *tx) DeleteReservation(orderID string) error {
	r, ok, err := t.Reservation(orderID)
	if err != nil || !ok {
		return err
	}
	if err := t.check(r.Key()); err != nil {
		return err
	}
	t.stage(orderID, nil)
	return nil
}

func (t *tx) stage(orderID string, r *ledgerv1.Reservation) {
	if _, ok := t.reservations[orderID]; !ok {
		t.resOrder = append(t.resOrder, orderID)
	}
	t.reservations[orderID] = r
}

func (t *tx) TradeSettled(tradeID string) (bool, error) {
	for _, trade := range t.settled {
		if trade.ID == tradeID {
			return true, nil
		}
	}
	var exists bool
	if err := t.db.QueryRow(t.ctx, tradeSettledQuery, tradeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (t *tx) MarkTradeSettled(trade orderv1.Trade) error {
	t.settled = append(t.settled, trade)
	return nil
}

func (t *tx) flush() error {
	if len(t.dirty) > 0 {
		keys := make([]ledgerv1.AccountKey, 0, len(t.dirty))
		for k := range t.dirty {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

		builder := postgresql.NewInsertBuilder().
			Into(balancesTable).
			Columns("user_id", "asset", "balance", "available")
		for _, k := range keys {
			b := t.locked[k]
			builder = builder.Values(b.UserID, b.Asset, b.Balance, b.Available)
		}
		query, args := builder.OnConflict("user_id", "asset").DoUpdate("balance", "available").Build()
		if _, err := t.db.Exec(t.ctx, query, args...); err != nil {
			return err
		}
	}

	for _, orderID := range t.resOrder {
		r := t.reservations[orderID]
		if r == nil {
			if _, err := t.db.Exec(t.ctx, deleteReservationQuery, orderID); err != nil {
				return err
			}
			continue
		}
		query, args := postgresql.NewInsertBuilder().
			Into(reservationsTable).
			Columns("order_id", "user_id", "symbol", "asset", "amount", "remaining").
			Values(r.OrderID, r.UserID, r.Symbol, r.Asset, r.Amount, r.Remaining).
			OnConflict("order_id").
			DoUpdate("remaining").
			Build()
		if _, err := t.db.Exec(t.ctx, query, args...); err != nil {
			return err
		}
	}

	if len(t.settled) > 0 {
		builder := postgresql.NewInsertBuilder().
			Into(settledTable).
			Columns("trade_id", "symbol", "buy_order_id", "sell_order_id", "price", "quantity", "executed_at")
		for _, tr := range t.settled {
			builder = builder.Values(tr.ID, tr.Symbol, tr.BuyOrderID, tr.SellOrderID, tr.Price, tr.Quantity, tr.ExecutedAt)
		}
		query, args := builder.Build()
		if _, err := t.db.Exec(t.ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}
