package settings

import (
	"fmt"
	"os"
	"sort"
	"time"

	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fileBreaker struct {
	Percent      *string `yaml:"percent"`
	ListenWindow *string `yaml:"listen_window"`
	BlockTime    *string `yaml:"block_time"`
	Disabled     *bool   `yaml:"disabled"`
}

type fileFeeTier struct {
	Maker string `yaml:"maker"`
	Taker string `yaml:"taker"`
}

type fileMarket struct {
	Symbol            string       `yaml:"symbol"`
	Shard             int          `yaml:"shard"`
	PricePrecision    int32        `yaml:"price_precision"`
	QuantityPrecision int32        `yaml:"quantity_precision"`
	MinQuantity       string       `yaml:"min_quantity"`
	Buckets           []string     `yaml:"buckets"`
	TradingEnabled    *bool        `yaml:"trading_enabled"`
	Breaker           *fileBreaker `yaml:"circuit_breaker"`
}

type file struct {
	FeeAccount        string                 `yaml:"fee_account"`
	MarketBuySlippage string                 `yaml:"market_buy_slippage"`
	StopTriggerPolicy string                 `yaml:"stop_trigger_policy"`
	DefaultShard      int                    `yaml:"default_shard"`
	Breaker           fileBreaker            `yaml:"circuit_breaker"`
	FeeTiers          map[string]fileFeeTier `yaml:"fee_tiers"`
	AccountTiers      map[string]string      `yaml:"account_tiers"`
	DisabledUsers     []string               `yaml:"disabled_users"`
	Markets           []fileMarket           `yaml:"markets"`
}

// LoadFile reads and validates a YAML settings file.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewTracer(errors.SettingsError.String()).Wrap(err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML settings. Every problem found is reported at once.
func Parse(data []byte) (*Settings, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewTracer(errors.SettingsError.String()).Wrap(err)
	}

	p := parser{base: errors.NewBaseError()}
	s := &Settings{
		FeeAccount:        f.FeeAccount,
		MarketBuySlippage: p.decimal("market_buy_slippage", f.MarketBuySlippage, decimal.NewFromFloat(0.05)),
		StopTriggerPolicy: orderbookv1.TriggerPolicy(f.StopTriggerPolicy),
		DefaultShard:      f.DefaultShard,
		FeeTiers:          make(map[string]FeeTier, len(f.FeeTiers)+1),
		AccountTiers:      make(map[string]string, len(f.AccountTiers)),
		DisabledUsers:     make(map[string]struct{}, len(f.DisabledUsers)),
		Markets:           make(map[string]Market, len(f.Markets)),
	}

	switch s.StopTriggerPolicy {
	case "":
		s.StopTriggerPolicy = orderbookv1.TriggerLastPrice
	case orderbookv1.TriggerLastPrice, orderbookv1.TriggerLastPriceOrQuote:
	default:
		p.add("stop_trigger_policy", "unknown policy "+f.StopTriggerPolicy)
	}
	if s.MarketBuySlippage.IsNegative() {
		p.add("market_buy_slippage", "must not be negative")
	}

	s.Breaker = p.breaker("circuit_breaker", f.Breaker, circuitbreakerv1.Settings{
		ListenWindow: time.Minute,
		BlockTime:    5 * time.Minute,
	})

	for name, tier := range f.FeeTiers {
		field := "fee_tiers." + name
		s.FeeTiers[name] = FeeTier{
			Maker: p.rate(field+".maker", tier.Maker),
			Taker: p.rate(field+".taker", tier.Taker),
		}
	}
	if _, ok := s.FeeTiers[DefaultTier]; !ok {
		s.FeeTiers[DefaultTier] = FeeTier{}
	}
	for user, tier := range f.AccountTiers {
		if _, ok := s.FeeTiers[tier]; !ok {
			p.add("account_tiers."+user, "unknown tier "+tier)
		}
		s.AccountTiers[user] = tier
	}
	for _, user := range f.DisabledUsers {
		s.DisabledUsers[user] = struct{}{}
	}

	for i, fm := range f.Markets {
		field := fmt.Sprintf("markets[%d]", i)
		coin, currency, err := orderv1.ParseSymbol(fm.Symbol)
		if err != nil {
			p.add(field+".symbol", err.Error())
			continue
		}
		if _, dup := s.Markets[fm.Symbol]; dup {
			p.add(field+".symbol", "duplicate market "+fm.Symbol)
			continue
		}

		m := Market{
			Symbol:            fm.Symbol,
			Coin:              coin,
			Currency:          currency,
			Shard:             fm.Shard,
			PricePrecision:    fm.PricePrecision,
			QuantityPrecision: fm.QuantityPrecision,
			MinQuantity:       p.decimal(field+".min_quantity", fm.MinQuantity, decimal.Zero),
			TradingEnabled:    fm.TradingEnabled == nil || *fm.TradingEnabled,
			Breaker:           s.Breaker,
		}
		if fm.PricePrecision < 0 || fm.QuantityPrecision < 0 {
			p.add(field, "precision must not be negative")
		}
		if fm.Breaker != nil {
			m.Breaker = p.breaker(field+".circuit_breaker", *fm.Breaker, s.Breaker)
		}
		m.Buckets = p.buckets(field+".buckets", fm.Buckets)
		s.Markets[fm.Symbol] = m
	}

	if err := p.base.ErrOrNil(); err != nil {
		return nil, err
	}
	return s, nil
}

type parser struct {
	base *errors.BaseError
}

func (p parser) add(field, message string) {
	p.base.Add(errors.SettingsError, field, message)
}

func (p parser) decimal(field, value string, fallback decimal.Decimal) decimal.Decimal {
	if value == "" {
		return fallback
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		p.add(field, "not a decimal: "+value)
		return fallback
	}
	return v
}

func (p parser) rate(field, value string) decimal.Decimal {
	v := p.decimal(field, value, decimal.Zero)
	if v.IsNegative() || v.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		p.add(field, "rate must be in [0, 1)")
	}
	return v
}

func (p parser) duration(field string, value *string, fallback time.Duration) time.Duration {
	if value == nil {
		return fallback
	}
	v, err := time.ParseDuration(*value)
	if err != nil || v < 0 {
		p.add(field, "not a duration: "+*value)
		return fallback
	}
	return v
}

func (p parser) breaker(field string, fb fileBreaker, base circuitbreakerv1.Settings) circuitbreakerv1.Settings {
	s := base
	if fb.Percent != nil {
		s.Percent = p.decimal(field+".percent", *fb.Percent, base.Percent)
	}
	s.ListenWindow = p.duration(field+".listen_window", fb.ListenWindow, base.ListenWindow)
	s.BlockTime = p.duration(field+".block_time", fb.BlockTime, base.BlockTime)
	if fb.Disabled != nil {
		s.Disabled = *fb.Disabled
	}
	return s
}

func (p parser) buckets(field string, values []string) []decimal.Decimal {
	buckets := []decimal.Decimal{decimal.Zero}
	for _, value := range values {
		b := p.decimal(field, value, decimal.Zero)
		if b.IsNegative() {
			p.add(field, "bucket must not be negative")
			continue
		}
		if b.IsZero() {
			continue
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].LessThan(buckets[j]) })
	return buckets
}
