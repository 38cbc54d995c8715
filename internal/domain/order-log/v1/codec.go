package orderlogv1

import (
	"encoding/json"
	"strconv"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/segmentio/kafka-go"
)

// ShardHeader carries the target shard of a message, read by the partition balancer.
const ShardHeader = "shard"

// ToMessage encodes cmd as a log message keyed by symbol.
func ToMessage(cmd orderv1.Command) (kafka.Message, error) {
	value, err := json.Marshal(cmd)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(cmd.Data.Symbol),
		Value: value,
		Headers: []kafka.Header{
			{Key: ShardHeader, Value: []byte(strconv.Itoa(cmd.Shard))},
		},
	}, nil
}

// FromMessage decodes the command carried by msg.
func FromMessage(msg kafka.Message) (*orderv1.Command, error) {
	var cmd orderv1.Command
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// MessageShard returns the shard header of msg.
func MessageShard(msg kafka.Message) (int, bool) {
	for _, h := range msg.Headers {
		if h.Key == ShardHeader {
			shard, err := strconv.Atoi(string(h.Value))
			return shard, err == nil
		}
	}
	return 0, false
}
