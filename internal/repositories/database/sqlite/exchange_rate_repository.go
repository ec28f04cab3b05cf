package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
)

type exchangeRateRepository struct {
	db queryer
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*exchangeRateRepository)(nil)

const rateColumns = `rate_date, from_currency, to_currency, rate, source, updated_at`

func scanRate(row rowScanner) (*domain.ExchangeRate, error) {
	var (
		rate      domain.ExchangeRate
		date      string
		updatedAt string
	)
	if err := row.Scan(&date, &rate.FromCurrency, &rate.ToCurrency, &rate.Rate, &rate.Source, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if rate.RateDate, err = parseDate(date); err != nil {
		return nil, err
	}
	if rate.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *exchangeRateRepository) findOne(ctx context.Context, from, to string, query string, args ...any) (*domain.ExchangeRate, error) {
	rate, err := scanRate(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: rate %s/%s", apperrors.ErrNotFound, from, to)
		}
		return nil, fmt.Errorf("failed to find exchange rate %s/%s: %w", from, to, err)
	}
	return rate, nil
}

func (r *exchangeRateRepository) FindExchangeRate(ctx context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error) {
	return r.findOne(ctx, from, to, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE from_currency = ? AND to_currency = ? AND rate_date = ?`,
		from, to, formatDate(date))
}

func (r *exchangeRateRepository) FindLatestRateOnOrBefore(ctx context.Context, from, to string, onOrBefore, notBefore time.Time) (*domain.ExchangeRate, error) {
	return r.findOne(ctx, from, to, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE from_currency = ? AND to_currency = ? AND rate_date <= ? AND rate_date >= ?
		ORDER BY rate_date DESC LIMIT 1`,
		from, to, formatDate(onOrBefore), formatDate(notBefore))
}

func (r *exchangeRateRepository) ListExchangeRates(ctx context.Context, from, to string) ([]domain.ExchangeRate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE from_currency = ? AND to_currency = ?
		ORDER BY rate_date DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates %s/%s: %w", from, to, err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}
	return rates, nil
}

func (r *exchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (rate_date, from_currency, to_currency, rate, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (rate_date, from_currency, to_currency)
		DO UPDATE SET rate = excluded.rate, source = excluded.source, updated_at = excluded.updated_at`,
		formatDate(rate.RateDate), rate.FromCurrency, rate.ToCurrency, rate.Rate.String(), rate.Source,
		formatTimestamp(rate.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate %s/%s on %s: %w",
			rate.FromCurrency, rate.ToCurrency, formatDate(rate.RateDate), err)
	}
	return nil
}
