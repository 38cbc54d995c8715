package router

import (
	"fmt"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/settings"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/shopspring/decimal"
)

// Validate checks cmd against the current settings and reports every
// offending field at once.
func Validate(cmd *orderv1.Command, s *settings.Settings) error {
	verr := errors.NewBaseError()
	data := &cmd.Data

	market, ok := s.Market(data.Symbol)
	if _, _, err := orderv1.ParseSymbol(data.Symbol); err != nil {
		verr.Add(errors.OrderInvalidSymbol, "symbol", err.Error())
	} else if !ok {
		verr.Add(errors.OrderInvalidSymbol, "symbol", fmt.Sprintf("unknown symbol %q", data.Symbol))
	}

	switch cmd.Code {
	case orderv1.PlaceOrder:
		validateUser(verr, data.UserID, s)
		if ok && !market.TradingEnabled {
			verr.Add(errors.MarketTradingDisabled, "symbol", fmt.Sprintf("trading is disabled on %s", data.Symbol))
		}
		validatePlace(verr, data, market, ok)
	case orderv1.CancelOrder:
		validateUser(verr, data.UserID, s)
		if data.ID == "" {
			verr.Add(errors.OrderMissingID, "id", "order id is required")
		}
	case orderv1.RemoveOrder:
		if data.ID == "" {
			verr.Add(errors.OrderMissingID, "id", "order id is required")
		}
	default:
		verr.Add(errors.OrderUnknownCommand, "code", fmt.Sprintf("unknown command %q", cmd.Code))
	}

	return verr.ErrOrNil()
}

func validateUser(verr *errors.BaseError, userID string, s *settings.Settings) {
	if userID == "" {
		verr.Add(errors.OrderMissingUser, "userId", "user id is required")
		return
	}
	if !s.UserCanTrade(userID) {
		verr.Add(errors.UserTradingDisabled, "userId", "trading is disabled for this user")
	}
}

func validatePlace(verr *errors.BaseError, data *orderv1.CommandData, market settings.Market, known bool) {
	if !data.Side.Valid() {
		verr.Add(errors.OrderInvalidSide, "side", fmt.Sprintf("invalid side %q", data.Side))
	}
	if !data.Type.Valid() {
		verr.Add(errors.OrderInvalidType, "type", fmt.Sprintf("invalid type %q", data.Type))
	}
	if data.TimeInForce != "" && !data.TimeInForce.Valid() {
		verr.Add(errors.OrderInvalidTimeInForce, "timeInForce", fmt.Sprintf("invalid time in force %q", data.TimeInForce))
	}

	if !data.Quantity.IsPositive() {
		verr.Add(errors.OrderInvalidQuantity, "quantity", "quantity must be positive")
	} else if known {
		if data.Quantity.LessThan(market.MinQuantity) {
			verr.Add(errors.OrderInvalidQuantity, "quantity",
				fmt.Sprintf("quantity is below the minimum %s", market.MinQuantity))
		}
		if !fits(data.Quantity, market.QuantityPrecision) {
			verr.Add(errors.OrderInvalidPrecision, "quantity",
				fmt.Sprintf("quantity has more than %d decimals", market.QuantityPrecision))
		}
	}

	if data.Type.HasLimitPrice() {
		switch {
		case data.Price == nil || !data.Price.IsPositive():
			verr.Add(errors.OrderInvalidPrice, "price", "price must be positive")
		case known && !fits(*data.Price, market.PricePrecision):
			verr.Add(errors.OrderInvalidPrecision, "price",
				fmt.Sprintf("price has more than %d decimals", market.PricePrecision))
		}
	}

	if data.Type.IsStop() {
		switch {
		case data.StopPrice == nil || !data.StopPrice.IsPositive():
			verr.Add(errors.OrderInvalidStop, "stopPrice", "stop price must be positive")
		case known && !fits(*data.StopPrice, market.PricePrecision):
			verr.Add(errors.OrderInvalidPrecision, "stopPrice",
				fmt.Sprintf("stop price has more than %d decimals", market.PricePrecision))
		}
		if data.StopCondition != "" && !data.StopCondition.Valid() {
			verr.Add(errors.OrderInvalidStop, "stopCondition", fmt.Sprintf("invalid stop condition %q", data.StopCondition))
		}
	}
}

func fits(v decimal.Decimal, precision int32) bool {
	return v.Equal(v.Truncate(precision))
}
