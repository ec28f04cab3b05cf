package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
type ExchangeRateReader interface {
	// FindLatestRateOnOrBefore returns the rate for the pair with the greatest date in
	// [notBefore, onOrBefore], or apperrors.ErrNotFound.
	FindLatestRateOnOrBefore(ctx context.Context, fromCurrency, toCurrency string, onOrBefore, notBefore time.Time) (*domain.ExchangeRate, error)

	// FindExchangeRate returns the rate stored for exactly this date, or apperrors.ErrNotFound.
	FindExchangeRate(ctx context.Context, fromCurrency, toCurrency string, date time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates returns all stored rates for the pair, newest first.
	ListExchangeRates(ctx context.Context, fromCurrency, toCurrency string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data.
type ExchangeRateWriter interface {
	// UpsertExchangeRate inserts or replaces the rate keyed on (date, from, to).
	UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
