package orderlog

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
)

func TestShardBalancer(t *testing.T) {
	message := func(shard int) kafka.Message {
		msg, err := orderlogv1.ToMessage(orderv1.Command{
			Code:  orderv1.PlaceOrder,
			Shard: shard,
			Data:  orderv1.CommandData{Symbol: "BTC/USDT", Quantity: decimal.NewFromInt(1)},
		})
		require.NoError(t, err)
		return msg
	}

	testCases := []struct {
		name       string
		msg        kafka.Message
		partitions []int
		want       int
	}{
		{name: "shard is the partition", msg: message(2), partitions: []int{0, 1, 2, 3}, want: 2},
		{name: "first shard", msg: message(0), partitions: []int{0, 1, 2, 3}, want: 0},
		{name: "more shards than partitions wraps", msg: message(5), partitions: []int{0, 1, 2, 3}, want: 1},
		{name: "missing header", msg: kafka.Message{Key: []byte("BTC/USDT")}, partitions: []int{0, 1}, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShardBalancer{}.Balance(tc.msg, tc.partitions...))
		})
	}
}
