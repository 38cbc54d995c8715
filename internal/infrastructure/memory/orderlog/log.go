// Package orderlog is an in-process order log with the partition semantics of
// the Kafka orders topic: one append-only partition per shard, offsets
// starting at zero.
package orderlog

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
)

var _ orderlogv1.Writer = (*Log)(nil)

type partition struct {
	messages []kafka.Message
	// appended is closed and replaced on every append.
	appended chan struct{}
}

// Log holds every partition in memory.
type Log struct {
	mu         sync.RWMutex
	partitions map[int]*partition
	closed     bool
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{partitions: make(map[int]*partition)}
}

func (l *Log) partition(shard int) *partition {
	p, ok := l.partitions[shard]
	if !ok {
		p = &partition{appended: make(chan struct{})}
		l.partitions[shard] = p
	}
	return p
}

// Append implements orderlogv1.Writer.
func (l *Log) Append(ctx context.Context, shard int, cmd orderv1.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd.Shard = shard
	msg, err := orderlogv1.ToMessage(cmd)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	p := l.partition(shard)
	msg.Partition = shard
	msg.Offset = int64(len(p.messages))
	msg.Time = time.Now()
	p.messages = append(p.messages, msg)

	close(p.appended)
	p.appended = make(chan struct{})
	return nil
}

// LastSequence implements orderlogv1.Writer.
func (l *Log) LastSequence(ctx context.Context, shard int) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.partitions[shard]
	if !ok || len(p.messages) == 0 {
		return 0, nil
	}
	cmd, err := orderlogv1.FromMessage(p.messages[len(p.messages)-1])
	if err != nil {
		return 0, err
	}
	return cmd.Sequence, nil
}

// Len returns the number of messages of shard.
func (l *Log) Len(shard int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p, ok := l.partitions[shard]; ok {
		return len(p.messages)
	}
	return 0
}

// Close wakes every blocked reader. Later appends fail.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	for _, p := range l.partitions {
		close(p.appended)
	}
	return nil
}

// NewReader returns a Reader of shard starting at offset zero.
func (l *Log) NewReader(shard int) *Reader {
	l.mu.Lock()
	l.partition(shard)
	l.mu.Unlock()
	return &Reader{log: l, shard: shard}
}

// next returns the message at offset, or the channel closed on the next append.
func (l *Log) next(shard int, offset int64) (kafka.Message, bool, <-chan struct{}, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p := l.partitions[shard]
	if offset < int64(len(p.messages)) {
		return p.messages[offset], true, nil, nil
	}
	if l.closed {
		return kafka.Message{}, false, nil, ErrClosed
	}
	return kafka.Message{}, false, p.appended, nil
}
