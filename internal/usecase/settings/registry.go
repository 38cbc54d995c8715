package settings

import (
	"sync/atomic"

	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/shopspring/decimal"
)

// Registry serves the current Settings snapshot. Readers never block, a
// reload swaps the whole snapshot atomically.
type Registry struct {
	current atomic.Pointer[Settings]
	path    string
	logger  logger.Interface
}

// NewRegistry creates a Registry serving s. path is used by Reload and may be empty.
func NewRegistry(s *Settings, path string, log logger.Interface) *Registry {
	r := &Registry{path: path, logger: log}
	r.current.Store(s)
	return r
}

// Load returns the current snapshot.
func (r *Registry) Load() *Settings {
	return r.current.Load()
}

// Swap replaces the current snapshot.
func (r *Registry) Swap(s *Settings) {
	r.current.Store(s)
}

// Reload reads the settings file again and swaps it in when valid.
func (r *Registry) Reload() error {
	s, err := LoadFile(r.path)
	if err != nil {
		r.logger.Error(err, logger.NewField("path", r.path))
		return err
	}
	r.Swap(s)
	r.logger.Info("Settings reloaded",
		logger.NewField("path", r.path),
		logger.NewField("markets", len(s.Markets)),
	)
	return nil
}

// Breaker returns the effective circuit breaker settings of symbol.
func (r *Registry) Breaker(symbol string) circuitbreakerv1.Settings {
	s := r.Load()
	if m, ok := s.Markets[symbol]; ok {
		return m.Breaker
	}
	return s.Breaker
}

// Rates returns the maker and taker fee rates of userID.
func (r *Registry) Rates(userID string) (maker, taker decimal.Decimal) {
	tier := r.Load().Tier(userID)
	return tier.Maker, tier.Taker
}

// Buckets returns the depth aggregation tick sizes of symbol. Unknown
// symbols aggregate at the raw price only.
func (r *Registry) Buckets(symbol string) []decimal.Decimal {
	if m, ok := r.Load().Markets[symbol]; ok && len(m.Buckets) > 0 {
		return m.Buckets
	}
	return []decimal.Decimal{decimal.Zero}
}
