package router

import (
	"context"

	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
)

// Drainer reports shard progress.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=router_mock
type Drainer interface {
	// WaitProcessed blocks until shard has processed every command up to sequence.
	WaitProcessed(ctx context.Context, shard int, sequence uint64) error
}

// HandOff moves the state of a symbol between shards.
type HandOff interface {
	// Detach removes symbol from shard and returns its state.
	Detach(ctx context.Context, shard int, symbol string) (*snapshotv1.SymbolState, error)
	// Attach installs state on shard.
	Attach(ctx context.Context, shard int, state *snapshotv1.SymbolState) error
}
