package circuitbreaker

import (
	"testing"
	"time"

	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const symbol = "BTC/USDT"

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type staticSettings map[string]circuitbreakerv1.Settings

func (s staticSettings) Breaker(symbol string) circuitbreakerv1.Settings {
	if st, ok := s[symbol]; ok {
		return st
	}
	return s["*"]
}

func defaultSettings() staticSettings {
	return staticSettings{"*": {
		Percent:      decimal.NewFromInt(5),
		ListenWindow: time.Minute,
		BlockTime:    5 * time.Minute,
	}}
}

func trade(id, price string, at time.Time) orderv1.Trade {
	return orderv1.Trade{ID: id, Symbol: symbol, Price: decimal.RequireFromString(price), ExecutedAt: at}
}

func TestBreaker_TripAndUnlock(t *testing.T) {
	b := NewBreaker(defaultSettings(), logger.NewNopLogger())

	assert.True(t, b.Allow(symbol, start))
	assert.False(t, b.Observe(trade("t1", "100", start)))
	assert.False(t, b.Observe(trade("t2", "104", start.Add(10*time.Second))))

	assert.True(t, b.Observe(trade("t3", "106", start.Add(20*time.Second))))
	st, ok := b.State(symbol)
	require.True(t, ok)
	assert.True(t, st.Blocked)
	assert.Equal(t, "t3", st.LastTradeID)
	assert.Equal(t, start.Add(20*time.Second), st.LockedAt)
	assert.Equal(t, start.Add(20*time.Second+5*time.Minute), st.UnlockAt)

	assert.False(t, b.Allow(symbol, start.Add(time.Minute)))
	assert.True(t, b.Allow(symbol, start.Add(20*time.Second+5*time.Minute)))

	st, _ = b.State(symbol)
	assert.False(t, st.Blocked)
	assert.True(t, st.ReferencePrice.Equal(decimal.NewFromInt(106)))
}

func TestBreaker_ListenWindow(t *testing.T) {
	b := NewBreaker(defaultSettings(), logger.NewNopLogger())

	assert.False(t, b.Observe(trade("t1", "100", start)))
	assert.False(t, b.Observe(trade("t2", "103", start.Add(30*time.Second))))
	// window expired: reference becomes 103, 108 is a 4.85% move
	assert.False(t, b.Observe(trade("t3", "108", start.Add(2*time.Minute))))

	st, _ := b.State(symbol)
	assert.True(t, st.ReferencePrice.Equal(decimal.NewFromInt(103)))
	assert.False(t, st.Blocked)
}

func TestBreaker_Settings(t *testing.T) {
	testCases := []struct {
		name     string
		settings staticSettings
		assertFn func(t *testing.T, b *Breaker)
	}{
		{
			name: "disabled pair is a pass-through",
			settings: staticSettings{
				"*":    defaultSettings()["*"],
				symbol: {Disabled: true},
			},
			assertFn: func(t *testing.T, b *Breaker) {
				assert.False(t, b.Observe(trade("t1", "100", start)))
				assert.False(t, b.Observe(trade("t2", "200", start)))
				assert.True(t, b.Allow(symbol, start))
				_, ok := b.State(symbol)
				assert.False(t, ok)
			},
		},
		{
			name: "pair override beats the default",
			settings: staticSettings{
				"*":    defaultSettings()["*"],
				symbol: {Percent: decimal.NewFromInt(1), ListenWindow: time.Minute, BlockTime: time.Second},
			},
			assertFn: func(t *testing.T, b *Breaker) {
				b.Observe(trade("t1", "100", start))
				assert.True(t, b.Observe(trade("t2", "101", start)))
				assert.False(t, b.Allow(symbol, start))
				assert.True(t, b.Allow(symbol, start.Add(time.Second)))
			},
		},
		{
			name:     "downward moves trip as well",
			settings: defaultSettings(),
			assertFn: func(t *testing.T, b *Breaker) {
				b.Observe(trade("t1", "100", start))
				assert.True(t, b.Observe(trade("t2", "95", start)))
			},
		},
		{
			name:     "zero percent never trips",
			settings: staticSettings{"*": {ListenWindow: time.Minute}},
			assertFn: func(t *testing.T, b *Breaker) {
				b.Observe(trade("t1", "100", start))
				assert.False(t, b.Observe(trade("t2", "1000", start)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.assertFn(t, NewBreaker(tc.settings, logger.NewNopLogger()))
		})
	}
}

func TestBreaker_RestoreIsDeterministic(t *testing.T) {
	b := NewBreaker(defaultSettings(), logger.NewNopLogger())
	b.Observe(trade("t1", "100", start))
	b.Observe(trade("t2", "110", start.Add(time.Second)))

	restored := NewBreaker(defaultSettings(), logger.NewNopLogger())
	restored.Restore(b.States()...)

	assert.Equal(t, b.States(), restored.States())
	at := start.Add(2 * time.Minute)
	assert.Equal(t, b.Allow(symbol, at), restored.Allow(symbol, at))

	restored.Forget(symbol)
	assert.Empty(t, restored.States())
}
