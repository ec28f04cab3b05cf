package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryFacade using pgx.
type PgxExchangeRateRepository struct {
	db dbtx
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const rateColumns = `rate_date, from_currency, to_currency, rate, source, updated_at`

func scanRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var rate domain.ExchangeRate
	if err := row.Scan(&rate.RateDate, &rate.FromCurrency, &rate.ToCurrency, &rate.Rate, &rate.Source, &rate.UpdatedAt); err != nil {
		return nil, err
	}
	rate.RateDate = domain.DateOf(rate.RateDate)
	rate.UpdatedAt = rate.UpdatedAt.UTC()
	return &rate, nil
}

func (r *PgxExchangeRateRepository) findOne(ctx context.Context, from, to, query string, args ...any) (*domain.ExchangeRate, error) {
	rate, err := scanRate(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: rate %s/%s", apperrors.ErrNotFound, from, to)
		}
		return nil, fmt.Errorf("failed to find exchange rate %s/%s: %w", from, to, err)
	}
	return rate, nil
}

// FindExchangeRate retrieves the rate stored for exactly date.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error) {
	return r.findOne(ctx, from, to, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND rate_date = $3`,
		from, to, domain.DateOf(date))
}

// FindLatestRateOnOrBefore retrieves the newest rate in [notBefore, onOrBefore].
func (r *PgxExchangeRateRepository) FindLatestRateOnOrBefore(ctx context.Context, from, to string, onOrBefore, notBefore time.Time) (*domain.ExchangeRate, error) {
	return r.findOne(ctx, from, to, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND rate_date <= $3 AND rate_date >= $4
		ORDER BY rate_date DESC LIMIT 1`,
		from, to, domain.DateOf(onOrBefore), domain.DateOf(notBefore))
}

// ListExchangeRates retrieves all rates for a pair, newest first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, from, to string) ([]domain.ExchangeRate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
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

// UpsertExchangeRate inserts a rate or overwrites the one stored for the same day and pair.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO exchange_rates (rate_date, from_currency, to_currency, rate, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (rate_date, from_currency, to_currency)
		DO UPDATE SET rate = EXCLUDED.rate, source = EXCLUDED.source, updated_at = EXCLUDED.updated_at`,
		domain.DateOf(rate.RateDate), rate.FromCurrency, rate.ToCurrency, rate.Rate, rate.Source, rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate %s/%s: %w", rate.FromCurrency, rate.ToCurrency, err)
	}
	return nil
}
