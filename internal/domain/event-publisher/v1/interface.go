package eventpublisherv1

import (
	"context"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
)

// Publisher defines the interface for publishing trade and order events to external consumers.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=eventpublisherv1_mock
type Publisher interface {
	PublishTrades(ctx context.Context, trades ...orderv1.Trade) error
	PublishOrderUpdates(ctx context.Context, updates ...orderv1.OrderUpdate) error
	Close() error
}
