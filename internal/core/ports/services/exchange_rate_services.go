package services

import (
	"context"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateConverter resolves and applies exchange rates. An empty target currency means
// the ledger's base currency.
type RateConverter interface {
	// GetRate returns the value of one unit of from in to on date.
	GetRate(ctx context.Context, from string, date time.Time, to string) (decimal.Decimal, error)

	// Convert returns amount in to, rounded half away from zero to the minor unit of to.
	Convert(ctx context.Context, amount decimal.Decimal, date time.Time, from, to string) (decimal.Decimal, error)

	// BaseCurrency is the currency journals balance in.
	BaseCurrency() string
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// AddRate inserts or replaces the rate for (date, from, to).
	AddRate(ctx context.Context, date time.Time, from, to string, rate decimal.Decimal, source string, actorID string) (*domain.ExchangeRate, error)
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	RateConverter

	// ListRates returns the stored rates for a pair, newest first.
	ListRates(ctx context.Context, from, to string) ([]domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
