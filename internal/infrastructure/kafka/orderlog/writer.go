package orderlog

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/config"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

var _ orderlogv1.Writer = (*Writer)(nil)

// Writer appends commands to the orders topic, one partition per shard.
type Writer struct {
	kafkaWriter *kafka.Writer
	brokers     []string
	topic       string
	logger      logger.Interface
}

// NewWriter creates a Writer on cfg.OrdersTopic.
func NewWriter(cfg config.KafkaConfig, log logger.Interface) *Writer {
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.OrdersTopic,
		Balancer: ShardBalancer{},
		// The router serializes appends per shard, so batching only adds latency.
		BatchSize:    1,
		BatchTimeout: time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Writer{
		kafkaWriter: kafkaWriter,
		brokers:     cfg.Brokers,
		topic:       cfg.OrdersTopic,
		logger:      log,
	}
}

// Append writes cmd to the partition of shard.
func (w *Writer) Append(ctx context.Context, shard int, cmd orderv1.Command) error {
	cmd.Shard = shard
	msg, err := orderlogv1.ToMessage(cmd)
	if err != nil {
		return errors.NewTracer(errors.RouterAppendError.String()).Wrap(err)
	}

	if err := w.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		w.logger.Error(err,
			logger.NewField("operation", "Append"),
			logger.NewField("shard", shard),
			logger.NewField("sequence", cmd.Sequence),
		)
		return errors.NewTracer(errors.RouterAppendError.String()).Wrap(err)
	}
	return nil
}

// LastSequence reads the last command of the partition of shard.
func (w *Writer) LastSequence(ctx context.Context, shard int) (uint64, error) {
	msg, ok, err := lastMessage(ctx, w.brokers, w.topic, shard)
	if err != nil || !ok {
		return 0, err
	}
	cmd, err := orderlogv1.FromMessage(msg)
	if err != nil {
		return 0, err
	}
	return cmd.Sequence, nil
}

// Close flushes pending writes and closes the writer.
func (w *Writer) Close() error {
	return w.kafkaWriter.Close()
}

func dialLeader(ctx context.Context, brokers []string, topic string, partition int) (*kafka.Conn, error) {
	var lastErr error
	for _, broker := range brokers {
		conn, err := kafka.DialLeader(ctx, "tcp", broker, topic, partition)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// lastMessage returns the last message of partition, false when the partition is empty.
func lastMessage(ctx context.Context, brokers []string, topic string, partition int) (kafka.Message, bool, error) {
	conn, err := dialLeader(ctx, brokers, topic, partition)
	if err != nil {
		return kafka.Message{}, false, err
	}
	defer conn.Close()

	first, last, err := conn.ReadOffsets()
	if err != nil {
		return kafka.Message{}, false, err
	}
	if last <= first {
		return kafka.Message{}, false, nil
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	if _, err := conn.Seek(last-1, kafka.SeekAbsolute); err != nil {
		return kafka.Message{}, false, err
	}
	msg, err := conn.ReadMessage(10e6)
	if err != nil {
		return kafka.Message{}, false, err
	}
	return msg, true, nil
}
