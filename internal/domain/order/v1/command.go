package orderv1

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommandCode names the operation carried by a Command.
type CommandCode string

const (
	PlaceOrder  CommandCode = "PLACE_ORDER"
	CancelOrder CommandCode = "CANCEL_ORDER"
	// RemoveOrder evicts an order administratively. It ends in removed instead of canceled.
	RemoveOrder CommandCode = "REMOVE_ORDER"
)

// Command is the unit appended to a shard's ordered log.
// Sequence and Shard are assigned by the router.
type Command struct {
	Code      CommandCode `json:"code"`
	Sequence  uint64      `json:"sequence"`
	Shard     int         `json:"shard"`
	RequestID string      `json:"requestId,omitempty"`
	Data      CommandData `json:"data"`
}

// CommandData is the order payload of a command.
type CommandData struct {
	ID            string           `json:"id"`
	Symbol        string           `json:"symbol"`
	Side          Side             `json:"side,omitempty"`
	Type          Kind             `json:"type,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StopPrice     *decimal.Decimal `json:"stopPrice,omitempty"`
	StopCondition StopCondition    `json:"stopCondition,omitempty"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UserID        string           `json:"userId"`
	TimeInForce   TimeInForce      `json:"timeInForce,omitempty"`
	// Leverage and MarginType are accepted for wire compatibility and ignored.
	Leverage   *decimal.Decimal `json:"leverage,omitempty"`
	MarginType string           `json:"marginType,omitempty"`
	// Timestamp is unix milliseconds, stamped by the router at ingestion.
	// It is the only clock matching uses.
	Timestamp int64 `json:"timestamp"`
}

// Time returns the command timestamp.
func (c *Command) Time() time.Time {
	return time.UnixMilli(c.Data.Timestamp).UTC()
}

// NewOrder builds the order a PLACE_ORDER command describes.
func (c *Command) NewOrder() *Order {
	at := c.Time()
	tif := c.Data.TimeInForce
	if tif == "" {
		tif = GTC
	}

	o := &Order{
		ID:            c.Data.ID,
		UserID:        c.Data.UserID,
		Symbol:        c.Data.Symbol,
		Side:          c.Data.Side,
		Kind:          c.Data.Type,
		TimeInForce:   tif,
		Quantity:      c.Data.Quantity,
		StopCondition: c.Data.StopCondition,
		Status:        StatusNew,
		Sequence:      c.Sequence,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if c.Data.Price != nil {
		o.Price = *c.Data.Price
	}
	if c.Data.StopPrice != nil {
		o.StopPrice = *c.Data.StopPrice
	}
	return o
}
