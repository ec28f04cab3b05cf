package domain

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// defaultMinorUnits is used for currencies unknown to go-money.
const defaultMinorUnits = 2

// Currency describes an ISO-4217 currency as known to go-money.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // e.g., "USD"
	Symbol       string `json:"symbol"`       // e.g., "$"
	MinorUnits   int32  `json:"minorUnits"`   // e.g., 2
}

// LookupCurrency returns the currency for an ISO-4217 code, or false when the code is unknown.
func LookupCurrency(code string) (Currency, bool) {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return Currency{}, false
	}
	return Currency{CurrencyCode: c.Code, Symbol: c.Grapheme, MinorUnits: int32(c.Fraction)}, true
}

// MinorUnits returns the number of decimal places of a currency's minor unit.
func MinorUnits(code string) int32 {
	if c, ok := LookupCurrency(code); ok {
		return c.MinorUnits
	}
	return defaultMinorUnits
}
