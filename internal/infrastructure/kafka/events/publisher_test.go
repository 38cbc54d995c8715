package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	events_mock "github.com/muhammadchandra19/spot-exchange/internal/infrastructure/kafka/events/mock"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

func TestPublisher_PublishTrades(t *testing.T) {
	ctx := context.Background()
	trade := orderv1.Trade{
		ID:       orderv1.TradeID("BTC/USDT", 1),
		Symbol:   "BTC/USDT",
		Price:    decimal.NewFromInt(100),
		Quantity: decimal.NewFromInt(1),
		Amount:   decimal.NewFromInt(100),
	}

	testCases := []struct {
		name     string
		trades   []orderv1.Trade
		mockFn   func(w *events_mock.MockMessageWriter)
		assertFn func(t *testing.T, err error)
	}{
		{
			name:   "writes one message per trade keyed by symbol",
			trades: []orderv1.Trade{trade, trade},
			mockFn: func(w *events_mock.MockMessageWriter) {
				w.EXPECT().WriteMessages(ctx, gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
						for _, msg := range msgs {
							assert.Equal(t, "BTC/USDT", string(msg.Key))
							var got orderv1.Trade
							require.NoError(t, json.Unmarshal(msg.Value, &got))
							assert.Equal(t, trade.ID, got.ID)
							assert.True(t, trade.Amount.Equal(got.Amount))
						}
						return nil
					})
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "nothing to publish",
			mockFn: func(w *events_mock.MockMessageWriter) {},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "writer failure",
			trades: []orderv1.Trade{trade},
			mockFn: func(w *events_mock.MockMessageWriter) {
				w.EXPECT().WriteMessages(ctx, gomock.Any()).Return(errors.New("broker down"))
			},
			assertFn: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "broker down")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			trades := events_mock.NewMockMessageWriter(ctrl)
			updates := events_mock.NewMockMessageWriter(ctrl)
			tc.mockFn(trades)

			p := NewPublisherWithWriters(trades, updates, logger.NewNopLogger())
			tc.assertFn(t, p.PublishTrades(ctx, tc.trades...))
		})
	}
}

func TestPublisher_PublishOrderUpdates(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	trades := events_mock.NewMockMessageWriter(ctrl)
	updates := events_mock.NewMockMessageWriter(ctrl)
	updates.EXPECT().WriteMessages(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			assert.Equal(t, "o-1", string(msgs[0].Key))
			return nil
		})
	trades.EXPECT().Close().Return(nil)
	updates.EXPECT().Close().Return(nil)

	p := NewPublisherWithWriters(trades, updates, logger.NewNopLogger())
	err := p.PublishOrderUpdates(ctx, orderv1.OrderUpdate{ID: "o-1", Status: orderv1.StatusExecuted})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
