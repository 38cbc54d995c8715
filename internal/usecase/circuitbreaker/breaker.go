package circuitbreaker

import (
	"sort"
	"sync"
	"time"

	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Breaker halts matching of a symbol when its price moves too far within the
// listen window. Time always comes from command timestamps, so replaying the
// same commands reproduces the same decisions.
type Breaker struct {
	mu       sync.RWMutex
	states   map[string]*circuitbreakerv1.State
	settings circuitbreakerv1.SettingsProvider
	logger   logger.Interface
}

// NewBreaker creates a Breaker reading its per-pair settings from settings.
func NewBreaker(settings circuitbreakerv1.SettingsProvider, log logger.Interface) *Breaker {
	return &Breaker{
		states:   make(map[string]*circuitbreakerv1.State),
		settings: settings,
		logger:   log,
	}
}

// Allow reports whether symbol may match at time at. A block that has run
// its course is lifted and the reference price restarts from the last price.
func (b *Breaker) Allow(symbol string, at time.Time) bool {
	if b.settings.Breaker(symbol).Disabled {
		return true
	}

	b.mu.RLock()
	st, ok := b.states[symbol]
	blocked := ok && st.Blocked
	b.mu.RUnlock()
	if !blocked {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !st.Blocked {
		return true
	}
	if at.Before(st.UnlockAt) {
		return false
	}

	st.Blocked = false
	st.ReferencePrice = st.LastPrice
	st.WindowStart = at
	b.logger.Info("Circuit breaker unlocked",
		logger.NewField("symbol", symbol),
		logger.NewField("reference_price", st.ReferencePrice.String()),
	)
	return true
}

// Observe records a trade and reports whether it blocked the symbol.
func (b *Breaker) Observe(trade orderv1.Trade) bool {
	settings := b.settings.Breaker(trade.Symbol)
	if settings.Disabled {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.states[trade.Symbol]
	if !ok {
		st = &circuitbreakerv1.State{Symbol: trade.Symbol}
		b.states[trade.Symbol] = st
	}

	at := trade.ExecutedAt
	if st.Blocked {
		st.LastPrice = trade.Price
		st.LastTradeID = trade.ID
		return false
	}

	if st.ReferencePrice.IsZero() {
		st.ReferencePrice = trade.Price
		st.WindowStart = at
	} else if at.Sub(st.WindowStart) > settings.ListenWindow {
		st.ReferencePrice = st.LastPrice
		st.WindowStart = at
	}
	st.LastPrice = trade.Price
	st.LastTradeID = trade.ID

	if !settings.Percent.IsPositive() || st.ReferencePrice.IsZero() {
		return false
	}
	move := trade.Price.Sub(st.ReferencePrice).Abs().Div(st.ReferencePrice).Mul(hundred)
	if move.LessThan(settings.Percent) {
		return false
	}

	st.Blocked = true
	st.LockedAt = at
	st.UnlockAt = at.Add(settings.BlockTime)
	b.logger.Warn("Circuit breaker tripped",
		logger.NewField("symbol", trade.Symbol),
		logger.NewField("reference_price", st.ReferencePrice.String()),
		logger.NewField("price", trade.Price.String()),
		logger.NewField("move_percent", move.StringFixed(4)),
		logger.NewField("trade_id", trade.ID),
		logger.NewField("unlock_at", st.UnlockAt),
	)
	return true
}

// State returns a copy of the state of symbol.
func (b *Breaker) State(symbol string) (circuitbreakerv1.State, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st, ok := b.states[symbol]
	if !ok {
		return circuitbreakerv1.State{}, false
	}
	return *st, true
}

// States returns a copy of every state, ordered by symbol.
func (b *Breaker) States() []circuitbreakerv1.State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	states := make([]circuitbreakerv1.State, 0, len(b.states))
	for _, st := range b.states {
		states = append(states, *st)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Symbol < states[j].Symbol })
	return states
}

// Restore replaces the state of every listed symbol.
func (b *Breaker) Restore(states ...circuitbreakerv1.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range states {
		st := states[i]
		b.states[st.Symbol] = &st
	}
}

// Forget drops the state of symbol, used when the symbol leaves the shard.
func (b *Breaker) Forget(symbol string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.states, symbol)
}
