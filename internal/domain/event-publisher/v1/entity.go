package eventpublisherv1

import (
	"encoding/json"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/segmentio/kafka-go"
)

// TradeMessage converts a trade to a message keyed by symbol, so the trades of a pair stay ordered.
func TradeMessage(trade orderv1.Trade) (kafka.Message, error) {
	value, err := json.Marshal(trade)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(trade.Symbol), Value: value}, nil
}

// OrderUpdateMessage converts an order update to a message keyed by order id.
func OrderUpdateMessage(update orderv1.OrderUpdate) (kafka.Message, error) {
	value, err := json.Marshal(update)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(update.ID), Value: value}, nil
}
