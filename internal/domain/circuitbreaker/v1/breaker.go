package circuitbreakerv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings tune the breaker of one pair, or every pair when used as default.
type Settings struct {
	// Percent is the price move, relative to the reference price, that blocks trading.
	Percent      decimal.Decimal `json:"percent"`
	ListenWindow time.Duration   `json:"listenWindow"`
	BlockTime    time.Duration   `json:"blockTime"`
	Disabled     bool            `json:"disabled"`
}

// State is the breaker state of one symbol.
type State struct {
	Symbol         string          `json:"symbol"`
	ReferencePrice decimal.Decimal `json:"referencePrice"`
	WindowStart    time.Time       `json:"windowStart"`
	LastPrice      decimal.Decimal `json:"lastPrice"`
	Blocked        bool            `json:"blocked"`
	LockedAt       time.Time       `json:"lockedAt"`
	UnlockAt       time.Time       `json:"unlockAt"`
	LastTradeID    string          `json:"lastTradeId"`
}

// SettingsProvider resolves the effective settings of a symbol.
type SettingsProvider interface {
	Breaker(symbol string) Settings
}
