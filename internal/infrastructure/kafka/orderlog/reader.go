package orderlog

import (
	"context"

	"github.com/segmentio/kafka-go"

	orderlogv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order-log/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/config"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

var _ orderlogv1.Reader = (*Reader)(nil)

// Reader consumes the partition of one shard. It is not part of a consumer
// group: the position is owned by the shard snapshot and set with SetOffset.
type Reader struct {
	kafkaReader *kafka.Reader
	brokers     []string
	topic       string
	partition   int
	logger      logger.Interface
}

// NewReader creates a Reader for the partition of shard.
func NewReader(cfg config.KafkaConfig, shard int, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.OrdersTopic,
		Partition:   shard,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     cfg.ReaderMaxWait,
		StartOffset: kafka.FirstOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		brokers:     cfg.Brokers,
		topic:       cfg.OrdersTopic,
		partition:   shard,
		logger:      log.WithFields(logger.NewField("shard", shard)),
	}
}

// logError is a helper method to log errors consistently
func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.NewField("error", err.Error()),
		logger.NewField("operation", operation),
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads the next message and decodes its command.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderv1.Command, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logError(err, "ReadMessage")
		}
		return kafka.Message{}, nil, err
	}

	cmd, err := orderlogv1.FromMessage(msg)
	if err != nil {
		r.logError(err, "UnmarshalCommand")
		return msg, nil, err
	}

	r.logger.Debug("ReadMessage",
		logger.NewField("offset", msg.Offset),
		logger.NewField("sequence", cmd.Sequence),
		logger.NewField("code", cmd.Code),
		logger.NewField("symbol", cmd.Data.Symbol),
	)
	return msg, cmd, nil
}

// LastOffset returns the offset of the last message of the partition, -1 when empty.
func (r *Reader) LastOffset(ctx context.Context) (int64, error) {
	msg, ok, err := lastMessage(ctx, r.brokers, r.topic, r.partition)
	if err != nil {
		return -1, err
	}
	if !ok {
		return -1, nil
	}
	return msg.Offset, nil
}

// CommitMessages is a no-op: progress is recorded by the shard snapshot.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
