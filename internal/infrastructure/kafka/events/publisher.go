package events

import (
	"context"

	"github.com/segmentio/kafka-go"

	eventpublisherv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/event-publisher/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/config"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

// MessageWriter is the part of kafka.Writer the publisher uses.
//
//go:generate mockgen -source publisher.go -destination=mock/publisher_mock.go -package=events_mock
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ eventpublisherv1.Publisher = (*Publisher)(nil)

// Publisher publishes trades and order updates to their Kafka topics.
type Publisher struct {
	trades  MessageWriter
	updates MessageWriter
	logger  logger.Interface
}

// NewPublisher creates a Publisher writing to cfg.TradesTopic and cfg.OrderEventsTopic.
func NewPublisher(cfg config.KafkaConfig, log logger.Interface) *Publisher {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: cfg.WriteTimeout,
		}
	}
	return NewPublisherWithWriters(newWriter(cfg.TradesTopic), newWriter(cfg.OrderEventsTopic), log)
}

// NewPublisherWithWriters creates a Publisher on the given writers.
func NewPublisherWithWriters(trades, updates MessageWriter, log logger.Interface) *Publisher {
	return &Publisher{
		trades:  trades,
		updates: updates,
		logger:  log,
	}
}

// PublishTrades publishes trades keyed by symbol.
func (p *Publisher) PublishTrades(ctx context.Context, trades ...orderv1.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		msg, err := eventpublisherv1.TradeMessage(trade)
		if err != nil {
			return errors.NewTracer(errors.PublishError.String()).Wrap(err)
		}
		msgs = append(msgs, msg)
	}

	if err := p.trades.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.NewField("error", err.Error()),
			logger.NewField("operation", "PublishTrades"),
			logger.NewField("count", len(trades)),
		)
		return errors.NewTracer(errors.PublishError.String()).Wrap(err)
	}
	return nil
}

// PublishOrderUpdates publishes order updates keyed by order id.
func (p *Publisher) PublishOrderUpdates(ctx context.Context, updates ...orderv1.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(updates))
	for _, update := range updates {
		msg, err := eventpublisherv1.OrderUpdateMessage(update)
		if err != nil {
			return errors.NewTracer(errors.PublishError.String()).Wrap(err)
		}
		msgs = append(msgs, msg)
	}

	if err := p.updates.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.NewField("error", err.Error()),
			logger.NewField("operation", "PublishOrderUpdates"),
			logger.NewField("count", len(updates)),
		)
		return errors.NewTracer(errors.PublishError.String()).Wrap(err)
	}
	return nil
}

// Close closes both writers.
func (p *Publisher) Close() error {
	errTrades := p.trades.Close()
	errUpdates := p.updates.Close()
	if errTrades != nil {
		return errTrades
	}
	return errUpdates
}
