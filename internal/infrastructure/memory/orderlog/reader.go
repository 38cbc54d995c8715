package orderlog

import (
	"context"
	"sync"

	"github.com/segmentio/kafka-go"

	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
)

// ErrClosed is returned once the log is closed.
var ErrClosed = errors.NewTransient("order log closed")

var _ orderlogv1.Reader = (*Reader)(nil)

// Reader reads one partition of a Log.
type Reader struct {
	log   *Log
	shard int

	mu     sync.Mutex
	offset int64
}

// ReadMessage blocks until the message at the current offset exists or ctx is done.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderv1.Command, error) {
	for {
		r.mu.Lock()
		offset := r.offset
		r.mu.Unlock()

		msg, ok, wait, err := r.log.next(r.shard, offset)
		if err != nil {
			return kafka.Message{}, nil, err
		}
		if ok {
			cmd, err := orderlogv1.FromMessage(msg)
			if err != nil {
				return msg, nil, err
			}
			r.mu.Lock()
			if r.offset == offset {
				r.offset++
			}
			r.mu.Unlock()
			return msg, cmd, nil
		}

		select {
		case <-ctx.Done():
			return kafka.Message{}, nil, ctx.Err()
		case <-wait:
		}
	}
}

// SetOffset sets the offset the next ReadMessage starts from.
func (r *Reader) SetOffset(offset int64) error {
	r.mu.Lock()
	r.offset = offset
	r.mu.Unlock()
	return nil
}

// LastOffset returns the offset of the last message, -1 when empty.
func (r *Reader) LastOffset(ctx context.Context) (int64, error) {
	return int64(r.log.Len(r.shard)) - 1, nil
}

// CommitMessages is a no-op.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}

// Close is a no-op: the Log owns the partitions.
func (r *Reader) Close() error {
	return nil
}
