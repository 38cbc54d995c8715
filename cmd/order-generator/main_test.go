package main

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
)

func TestGenerator_Next(t *testing.T) {
	base := decimal.RequireFromString("100")
	g := &generator{
		rnd:         rand.New(rand.NewSource(1)),
		symbol:      "BTC/USDT",
		users:       []string{"alice", "bob"},
		basePrice:   base,
		priceSpread: 20,
	}

	for i := 0; i < 500; i++ {
		data := g.next()
		require.NotEmpty(t, data.ID)
		assert.Equal(t, "BTC/USDT", data.Symbol)
		assert.Contains(t, g.users, data.UserID)
		assert.True(t, data.Quantity.IsPositive())

		switch data.Type {
		case orderv1.KindMarket:
			assert.Nil(t, data.Price)
			assert.Equal(t, orderv1.IOC, data.TimeInForce)
		case orderv1.KindLimit:
			require.NotNil(t, data.Price)
			if data.Side == orderv1.SideBuy {
				assert.True(t, data.Price.LessThanOrEqual(base), data.Price.String())
			} else {
				assert.True(t, data.Price.GreaterThanOrEqual(base), data.Price.String())
			}
		default:
			t.Fatalf("unexpected kind %s", data.Type)
		}
	}
}
