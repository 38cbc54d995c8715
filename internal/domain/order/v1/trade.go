package orderv1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one execution between a resting maker and an incoming taker.
type Trade struct {
	ID          string          `json:"id"`
	Sequence    uint64          `json:"sequence"`
	Symbol      string          `json:"symbol"`
	BuyOrderID  string          `json:"buyOrderId"`
	SellOrderID string          `json:"sellOrderId"`
	BuyerID     string          `json:"buyerId"`
	SellerID    string          `json:"sellerId"`
	MakerSide   Side            `json:"makerSide"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	// BuyFee is charged in coin on what the buyer receives.
	BuyFee decimal.Decimal `json:"buyFee"`
	// SellFee is charged in currency on what the seller receives.
	SellFee    decimal.Decimal `json:"sellFee"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// TradeID derives the id of the seq-th trade of symbol.
func TradeID(symbol string, seq uint64) string {
	return fmt.Sprintf("%s-%d", symbol, seq)
}

// Coin returns the traded asset of the trade symbol.
func (t *Trade) Coin() string {
	coin, _ := MustParseSymbol(t.Symbol)
	return coin
}

// Currency returns the quote asset of the trade symbol.
func (t *Trade) Currency() string {
	_, currency := MustParseSymbol(t.Symbol)
	return currency
}
