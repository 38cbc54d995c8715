package orderlog

import (
	"github.com/segmentio/kafka-go"

	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
)

// ShardBalancer sends every message to the partition numbered by its shard
// header, so one partition carries exactly one shard in append order.
type ShardBalancer struct{}

var _ kafka.Balancer = ShardBalancer{}

// Balance implements kafka.Balancer. Messages without a shard header go to the first partition.
func (ShardBalancer) Balance(msg kafka.Message, partitions ...int) int {
	shard, ok := orderlogv1.MessageShard(msg)
	if !ok {
		return partitions[0]
	}
	for _, p := range partitions {
		if p == shard {
			return p
		}
	}
	return partitions[shard%len(partitions)]
}
