package orderv1

import (
	"fmt"
	"strings"
)

// ParseSymbol splits a COIN/CURRENCY symbol.
func ParseSymbol(symbol string) (coin, currency string, err error) {
	coin, currency, ok := strings.Cut(symbol, "/")
	if !ok || coin == "" || currency == "" || strings.Contains(currency, "/") {
		return "", "", fmt.Errorf("malformed symbol %q", symbol)
	}
	if coin != strings.ToUpper(coin) || currency != strings.ToUpper(currency) {
		return "", "", fmt.Errorf("symbol %q must be upper case", symbol)
	}
	return coin, currency, nil
}

// MustParseSymbol is ParseSymbol for symbols already validated by the router.
func MustParseSymbol(symbol string) (coin, currency string) {
	coin, currency, err := ParseSymbol(symbol)
	if err != nil {
		panic(err)
	}
	return coin, currency
}
