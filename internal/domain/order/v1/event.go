package orderv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookDelta is one change of resting quantity at a raw price.
// UserID is set so user scoped levels can follow the same change.
type BookDelta struct {
	Symbol        string          `json:"symbol"`
	Side          Side            `json:"side"`
	Price         decimal.Decimal `json:"price"`
	QuantityDelta decimal.Decimal `json:"quantityDelta"`
	CountDelta    int64           `json:"countDelta"`
	UserID        string          `json:"userId,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// OrderUpdate is emitted whenever an order changes status or fills.
type OrderUpdate struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Symbol           string          `json:"symbol"`
	Side             Side            `json:"side"`
	Status           Status          `json:"status"`
	Quantity         decimal.Decimal `json:"quantity"`
	ExecutedQuantity decimal.Decimal `json:"executedQuantity"`
	ExecutedPrice    decimal.Decimal `json:"executedPrice"`
	Fee              decimal.Decimal `json:"fee"`
	Reason           string          `json:"reason,omitempty"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
