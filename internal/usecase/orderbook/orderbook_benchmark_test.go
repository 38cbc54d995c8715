package orderbook

import (
	"fmt"
	"testing"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/shopspring/decimal"
)

func BenchmarkOrderbook_Place(b *testing.B) {
	ob := newTestBook(nil, nil)
	prices := []string{"99", "99.5", "100", "100.5", "101"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := orderv1.SideBuy
		if i%2 == 1 {
			side = orderv1.SideSell
		}
		o := &orderv1.Order{
			ID:          fmt.Sprintf("o-%d", i),
			UserID:      "bench",
			Symbol:      symbol,
			Side:        side,
			Kind:        orderv1.KindLimit,
			TimeInForce: orderv1.GTC,
			Quantity:    decimal.NewFromInt(int64(1 + i%3)),
			Price:       decimal.RequireFromString(prices[i%len(prices)]),
			Status:      orderv1.StatusNew,
			Sequence:    uint64(i + 1),
		}
		if res := ob.Place(o, now); res.Err != nil {
			b.Fatal(res.Err)
		}
	}
}
