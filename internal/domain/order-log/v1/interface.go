package orderlogv1

import (
	"context"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/segmentio/kafka-go"
)

// Reader consumes the ordered log partition of one shard.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderlogv1_mock
type Reader interface {
	// ReadMessage reads a message and returns the raw message and the parsed command
	ReadMessage(ctx context.Context) (kafka.Message, *orderv1.Command, error)
	// SetOffset sets the offset the next ReadMessage starts from
	SetOffset(offset int64) error
	// LastOffset returns the offset of the last message written to the partition, -1 when empty
	LastOffset(ctx context.Context) (int64, error)
	// CommitMessages commits the messages after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Writer appends commands to the partition of their shard.
type Writer interface {
	Append(ctx context.Context, shard int, cmd orderv1.Command) error
	// LastSequence returns the sequence of the last command written for shard, 0 when empty.
	LastSequence(ctx context.Context, shard int) (uint64, error)
	Close() error
}
