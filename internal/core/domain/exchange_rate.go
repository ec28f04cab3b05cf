package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the value of one unit of FromCurrency in ToCurrency on RateDate.
type ExchangeRate struct {
	RateDate     time.Time       `json:"rateDate"`
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
