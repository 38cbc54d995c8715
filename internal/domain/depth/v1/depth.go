package depthv1

import (
	"context"
	"errors"
	"time"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/shopspring/decimal"
)

// Level is one aggregated price level row. UserID is empty for the global
// table and set for the user scoped one.
type Level struct {
	Symbol    string          `json:"symbol"`
	Side      orderv1.Side    `json:"side"`
	Coin      string          `json:"coin"`
	Currency  string          `json:"currency"`
	Bucket    decimal.Decimal `json:"bucket"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Count     int64           `json:"count"`
	UserID    string          `json:"userId,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Update is the book-delta event of one row: the change applied and the row after it.
type Update struct {
	Level
	QuantityDelta decimal.Decimal `json:"quantityDelta"`
	CountDelta    int64           `json:"countDelta"`
	// Deleted is set when the row dropped to zero and was removed.
	Deleted bool `json:"deleted,omitempty"`
}

// Publisher pushes level updates to downstream readers.
//
//go:generate mockgen -source depth.go -destination=mock/depth_mock.go -package=depthv1_mock
type Publisher interface {
	Publish(ctx context.Context, updates []Update) error
}

// Publishers fans updates out to every publisher in order.
type Publishers []Publisher

// Publish calls every publisher and joins their errors.
func (p Publishers) Publish(ctx context.Context, updates []Update) error {
	var errs []error
	for _, publisher := range p {
		if err := publisher.Publish(ctx, updates); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
