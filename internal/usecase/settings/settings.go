package settings

import (
	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// DefaultTier is the fee tier of accounts without an explicit tier.
const DefaultTier = "default"

// FeeTier holds the fee rates of one account tier.
type FeeTier struct {
	Maker decimal.Decimal
	Taker decimal.Decimal
}

// Market holds the trading rules of one pair.
type Market struct {
	Symbol            string
	Coin              string
	Currency          string
	Shard             int
	PricePrecision    int32
	QuantityPrecision int32
	MinQuantity       decimal.Decimal
	// Buckets are the tick sizes depth is aggregated at. Zero is the raw price.
	Buckets        []decimal.Decimal
	TradingEnabled bool
	Breaker        circuitbreakerv1.Settings
}

// Settings is an immutable snapshot of every collaborator setting.
// A new snapshot replaces the old one as a whole.
type Settings struct {
	FeeAccount        string
	MarketBuySlippage decimal.Decimal
	StopTriggerPolicy orderbookv1.TriggerPolicy
	DefaultShard      int
	Breaker           circuitbreakerv1.Settings
	FeeTiers          map[string]FeeTier
	AccountTiers      map[string]string
	DisabledUsers     map[string]struct{}
	Markets           map[string]Market
}

// Market returns the rules of symbol.
func (s *Settings) Market(symbol string) (Market, bool) {
	m, ok := s.Markets[symbol]
	return m, ok
}

// Tier returns the fee tier of userID.
func (s *Settings) Tier(userID string) FeeTier {
	if name, ok := s.AccountTiers[userID]; ok {
		if tier, ok := s.FeeTiers[name]; ok {
			return tier
		}
	}
	return s.FeeTiers[DefaultTier]
}

// UserCanTrade reports whether userID may place orders.
func (s *Settings) UserCanTrade(userID string) bool {
	_, disabled := s.DisabledUsers[userID]
	return !disabled
}

// ShardTable returns the symbol to shard assignment of every market.
func (s *Settings) ShardTable() map[string]int {
	table := make(map[string]int, len(s.Markets))
	for symbol, m := range s.Markets {
		table[symbol] = m.Shard
	}
	return table
}
