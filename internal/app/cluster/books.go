package cluster

import (
	"context"

	"github.com/shopspring/decimal"

	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/router"
)

// TableSource returns the current symbol to shard assignment.
type TableSource interface {
	Table() *router.Table
}

// Books answers book queries on the shard that currently owns the symbol.
type Books struct {
	cluster *Cluster
	tables  TableSource
}

// NewBooks creates Books resolving shards through tables.
func NewBooks(c *Cluster, tables TableSource) *Books {
	return &Books{cluster: c, tables: tables}
}

func (b *Books) shard(symbol string) (*Shard, error) {
	return b.cluster.Shard(b.tables.Table().Shard(symbol))
}

// Depth returns the raw price levels of symbol.
func (b *Books) Depth(ctx context.Context, symbol string, limit int) (orderbookv1.Depth, error) {
	s, err := b.shard(symbol)
	if err != nil {
		return orderbookv1.Depth{}, err
	}
	return s.Engine.Depth(ctx, symbol, limit)
}

// Levels returns the aggregated rows of one side of symbol at bucket.
func (b *Books) Levels(_ context.Context, symbol string, side orderv1.Side, bucket decimal.Decimal, limit int) ([]depthv1.Level, error) {
	s, err := b.shard(symbol)
	if err != nil {
		return nil, err
	}
	return s.Aggregator.Depth(symbol, side, bucket, limit), nil
}

// UserLevels returns the rows of userID in symbol.
func (b *Books) UserLevels(_ context.Context, userID, symbol string) ([]depthv1.Level, error) {
	s, err := b.shard(symbol)
	if err != nil {
		return nil, err
	}
	return s.Aggregator.UserLevels(userID, symbol), nil
}

// Order returns a live order of symbol.
func (b *Books) Order(ctx context.Context, symbol, orderID string) (*orderv1.Order, bool, error) {
	s, err := b.shard(symbol)
	if err != nil {
		return nil, false, err
	}
	return s.Engine.Order(ctx, symbol, orderID)
}
