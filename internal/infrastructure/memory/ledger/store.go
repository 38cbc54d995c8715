package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
)

// ErrAccountNotLocked is returned when a Tx touches an account Update did not lock.
var ErrAccountNotLocked = errors.NewInvariant("account not locked by the transaction")

var _ ledgerv1.Store = (*Store)(nil)

// Store keeps balances in memory. Each account has its own mutex so
// updates over disjoint accounts run in parallel.
type Store struct {
	locks sync.Map // ledgerv1.AccountKey -> *sync.Mutex

	mu           sync.RWMutex
	balances     map[ledgerv1.AccountKey]ledgerv1.Balance
	reservations map[string]ledgerv1.Reservation
	settled      map[string]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		balances:     make(map[ledgerv1.AccountKey]ledgerv1.Balance),
		reservations: make(map[string]ledgerv1.Reservation),
		settled:      make(map[string]struct{}),
	}
}

// Update locks accounts in key order, runs fn and commits its writes when fn succeeds.
func (s *Store) Update(ctx context.Context, accounts []ledgerv1.AccountKey, fn func(tx ledgerv1.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keys := sortedKeys(accounts)
	for _, key := range keys {
		m, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
		m.(*sync.Mutex).Lock()
	}
	defer func() {
		for i := len(keys) - 1; i >= 0; i-- {
			m, _ := s.locks.Load(keys[i])
			m.(*sync.Mutex).Unlock()
		}
	}()

	tx := newTx(s, keys)
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(tx)
}

// Balance returns the committed balance of key. Unknown accounts are zero.
func (s *Store) Balance(_ context.Context, key ledgerv1.AccountKey) (ledgerv1.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance(key), nil
}

// Reservation returns the committed reservation of orderID.
func (s *Store) Reservation(_ context.Context, orderID string) (ledgerv1.Reservation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[orderID]
	return r, ok, nil
}

// Balances returns every committed balance ordered by account.
func (s *Store) Balances() []ledgerv1.Balance {
	s.mu.RLock()
	out := make([]ledgerv1.Balance, 0, len(s.balances))
	for _, b := range s.balances {
		out = append(out, b)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out
}

func (s *Store) balance(key ledgerv1.AccountKey) ledgerv1.Balance {
	if b, ok := s.balances[key]; ok {
		return b
	}
	return ledgerv1.Balance{UserID: key.UserID, Asset: key.Asset}
}

// commit applies tx. A reservation committed meanwhile under the same order
// id by another account fails the whole tx with ErrOrderIDInUse.
func (s *Store) commit(tx *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range tx.reservations {
		if r == nil {
			continue
		}
		if held, ok := s.reservations[id]; ok && held.Key() != r.Key() {
			return fmt.Errorf("%w: %s", ledgerv1.ErrOrderIDInUse, id)
		}
	}

	for key, b := range tx.balances {
		s.balances[key] = b
	}
	for id, r := range tx.reservations {
		if r == nil {
			delete(s.reservations, id)
			continue
		}
		s.reservations[id] = *r
	}
	for id := range tx.settled {
		s.settled[id] = struct{}{}
	}
	return nil
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

// tx stages writes until Update commits them.
type tx struct {
	store  *Store
	locked map[ledgerv1.AccountKey]struct{}

	balances     map[ledgerv1.AccountKey]ledgerv1.Balance
	reservations map[string]*ledgerv1.Reservation // nil marks a deletion
	settled      map[string]struct{}
}

func newTx(s *Store, keys []ledgerv1.AccountKey) *tx {
	locked := make(map[ledgerv1.AccountKey]struct{}, len(keys))
	for _, k := range keys {
		locked[k] = struct{}{}
	}
	return &tx{
		store:        s,
		locked:       locked,
		balances:     make(map[ledgerv1.AccountKey]ledgerv1.Balance),
		reservations: make(map[string]*ledgerv1.Reservation),
		settled:      make(map[string]struct{}),
	}
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
	if b, ok := t.balances[key]; ok {
		return b, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.store.balance(key), nil
}

func (t *tx) PutBalance(balance ledgerv1.Balance) error {
	if err := t.check(balance.Key()); err != nil {
		return err
	}
	t.balances[balance.Key()] = balance
	return nil
}

func (t *tx) Reservation(orderID string) (ledgerv1.Reservation, bool, error) {
	if r, staged := t.reservations[orderID]; staged {
		if r == nil {
			return ledgerv1.Reservation{}, false, nil
		}
		return *r, true, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	r, ok := t.store.reservations[orderID]
	return r, ok, nil
}

func (t *tx) PutReservation(reservation ledgerv1.Reservation) error {
	if err := t.check(reservation.Key()); err != nil {
		return err
	}
	t.reservations[reservation.OrderID] = &reservation
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
	t.reservations[orderID] = nil
	return nil
}

func (t *tx) TradeSettled(tradeID string) (bool, error) {
	if _, ok := t.settled[tradeID]; ok {
		return true, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	_, ok := t.store.settled[tradeID]
	return ok, nil
}

func (t *tx) MarkTradeSettled(trade orderv1.Trade) error {
	t.settled[trade.ID] = struct{}{}
	return nil
}
