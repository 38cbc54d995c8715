package snapshotv1

import (
	circuitbreakerv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/circuitbreaker/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/shopspring/decimal"
)

// BookSnapshot is the full state of one symbol book.
type BookSnapshot struct {
	Symbol string `json:"symbol"`
	// Orders are the resting orders, bids best first then asks best first, FIFO inside a level.
	Orders []orderv1.Order `json:"orders"`
	// Stops are waiting in the trigger index.
	Stops []orderv1.Order `json:"stops"`
	// Parked were accepted while trading was blocked.
	Parked []orderv1.Order `json:"parked"`
	// Triggered stops wait for activation.
	Triggered     []orderv1.Order `json:"triggered"`
	LastPrice     decimal.Decimal `json:"lastPrice"`
	TradeSequence uint64          `json:"tradeSequence"`
}

// SymbolState is what moves between shards when a symbol is remapped.
type SymbolState struct {
	Book    BookSnapshot            `json:"book"`
	Breaker *circuitbreakerv1.State `json:"breaker,omitempty"`
	Halted  bool                    `json:"halted"`
}

// Snapshot is the state of one shard at a processed log offset.
type Snapshot struct {
	Shard int `json:"shard"`
	// OrderOffset is the last log offset reflected in the snapshot.
	OrderOffset int64 `json:"orderOffset"`
	// Sequence is the last command sequence reflected in the snapshot.
	Sequence uint64                   `json:"sequence"`
	Books    []BookSnapshot           `json:"books"`
	Breakers []circuitbreakerv1.State `json:"breakers"`
	Halted   []string                 `json:"halted"`
	// Clock is the latest command time of the shard in unix milliseconds.
	Clock int64 `json:"clock,omitempty"`
}
