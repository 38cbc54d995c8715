package ledger

import (
	"github.com/shopspring/decimal"

	ledgerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/ledger/v1"
)

const (
	balancesTable     = "account_balances"
	reservationsTable = "balance_reservations"
	settledTable      = "settled_trades"
)

// Tables lists every table the store writes, for truncation in tests.
var Tables = []string{balancesTable, reservationsTable, settledTable}

// balanceRow is an account_balances row with numerics read as text.
type balanceRow struct {
	UserID    string
	Asset     string
	Balance   string
	Available string
}

func (r balanceRow) toBalance() (ledgerv1.Balance, error) {
	balance, err := decimal.NewFromString(r.Balance)
	if err != nil {
		return ledgerv1.Balance{}, err
	}
	available, err := decimal.NewFromString(r.Available)
	if err != nil {
		return ledgerv1.Balance{}, err
	}
	return ledgerv1.Balance{UserID: r.UserID, Asset: r.Asset, Balance: balance, Available: available}, nil
}

type reservationRow struct {
	OrderID   string
	UserID    string
	Symbol    string
	Asset     string
	Amount    string
	Remaining string
}

func (r reservationRow) toReservation() (ledgerv1.Reservation, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return ledgerv1.Reservation{}, err
	}
	remaining, err := decimal.NewFromString(r.Remaining)
	if err != nil {
		return ledgerv1.Reservation{}, err
	}
	return ledgerv1.Reservation{
		OrderID:   r.OrderID,
		UserID:    r.UserID,
		Symbol:    r.Symbol,
		Asset:     r.Asset,
		Amount:    amount,
		Remaining: remaining,
	}, nil
}
