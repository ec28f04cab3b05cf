package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/platform/metrics"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRateLookbackDays is how far back a missing rate may be carried forward.
	DefaultRateLookbackDays = 7

	// inverseRatePrecision is the number of decimal places kept when inverting a pair.
	inverseRatePrecision = 12
)

// ExchangeRateService resolves rates with carry-forward and inverse fallbacks.
type ExchangeRateService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	uow          portsrepo.UnitOfWork
	audit        portssvc.AuditWriterSvc
	baseCurrency string
	lookbackDays int
	cache        *cache.Cache
}

// ExchangeRateServiceOption is a functional option for configuring the rate service.
type ExchangeRateServiceOption func(*ExchangeRateService)

// WithRateLookbackDays sets how many days before the requested date a rate may come from.
func WithRateLookbackDays(days int) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		s.lookbackDays = days
	}
}

// WithRateCacheTTL sets how long resolved rates stay cached.
func WithRateCacheTTL(ttl time.Duration) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		s.cache = cache.New(ttl, 2*ttl)
	}
}

// WithRateClock overrides the clock used for updated_at stamps.
func WithRateClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *ExchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, uow portsrepo.UnitOfWork, audit portssvc.AuditWriterSvc, baseCurrency string, options ...ExchangeRateServiceOption) *ExchangeRateService {
	svc := &ExchangeRateService{
		rateRepo:     rateRepo,
		uow:          uow,
		audit:        audit,
		baseCurrency: strings.ToUpper(baseCurrency),
		lookbackDays: DefaultRateLookbackDays,
		cache:        cache.New(10*time.Minute, 20*time.Minute),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)

func (s *ExchangeRateService) BaseCurrency() string {
	return s.baseCurrency
}

func (s *ExchangeRateService) normalizePair(from, to string) (string, string) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if to == "" {
		to = s.baseCurrency
	}
	return from, to
}

// GetRate resolves from->to on date: the exact date, else the latest earlier date within
// the lookback window, else the inverse pair under the same rules. Rates are never taken
// from a later date.
func (s *ExchangeRateService) GetRate(ctx context.Context, from string, date time.Time, to string) (decimal.Decimal, error) {
	from, to = s.normalizePair(from, to)
	if from == to {
		metrics.RateLookups.WithLabelValues(metrics.RatePathIdentity).Inc()
		return decimal.NewFromInt(1), nil
	}

	date = domain.DateOf(date)
	key := from + "|" + to + "|" + date.Format(domain.DateLayout)
	if cached, found := s.cache.Get(key); found {
		metrics.RateLookups.WithLabelValues(metrics.RatePathCache).Inc()
		return cached.(decimal.Decimal), nil
	}

	rate, path, err := s.resolve(ctx, from, to, date)
	if err != nil {
		metrics.RateLookups.WithLabelValues(metrics.RatePathMissing).Inc()
		return decimal.Zero, err
	}
	metrics.RateLookups.WithLabelValues(path).Inc()
	s.cache.SetDefault(key, rate)
	return rate, nil
}

func (s *ExchangeRateService) resolve(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, string, error) {
	notBefore := date.AddDate(0, 0, -s.lookbackDays)

	direct, err := s.rateRepo.FindLatestRateOnOrBefore(ctx, from, to, date, notBefore)
	if err == nil {
		if direct.RateDate.Equal(date) {
			return direct.Rate, metrics.RatePathExact, nil
		}
		s.LogDebug(ctx, "Using carried-forward exchange rate",
			slog.String("pair", from+"/"+to),
			slog.String("requested", date.Format(domain.DateLayout)),
			slog.String("rate_date", direct.RateDate.Format(domain.DateLayout)))
		return direct.Rate, metrics.RatePathPrior, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to query exchange rate", slog.String("pair", from+"/"+to))
		return decimal.Zero, "", err
	}

	inverse, err := s.rateRepo.FindLatestRateOnOrBefore(ctx, to, from, date, notBefore)
	if err == nil && inverse.Rate.IsPositive() {
		return decimal.NewFromInt(1).DivRound(inverse.Rate, inverseRatePrecision), metrics.RatePathInverse, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to query inverse exchange rate", slog.String("pair", to+"/"+from))
		return decimal.Zero, "", err
	}

	return decimal.Zero, "", fmt.Errorf("%w: %s to %s on %s (lookback %d days)",
		apperrors.ErrExchangeRateNotFound, from, to, date.Format(domain.DateLayout), s.lookbackDays)
}

// Convert applies the resolved rate and rounds half away from zero to the target's minor unit.
func (s *ExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, date time.Time, from, to string) (decimal.Decimal, error) {
	from, to = s.normalizePair(from, to)
	if from == to {
		return amount, nil
	}
	rate, err := s.GetRate(ctx, from, date, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate).Round(domain.MinorUnits(to)), nil
}

// AddRate upserts a rate and audits it as an INSERT, or as an UPDATE carrying the old value.
func (s *ExchangeRateService) AddRate(ctx context.Context, date time.Time, from, to string, rate decimal.Decimal, source string, actorID string) (*domain.ExchangeRate, error) {
	from, to = s.normalizePair(from, to)

	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	for _, code := range []string{from, to} {
		if money.GetCurrency(code) == nil {
			return nil, fmt.Errorf("%w: unknown currency code %q", apperrors.ErrValidation, code)
		}
	}

	newRate := domain.ExchangeRate{
		RateDate:     domain.DateOf(date),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Source:       source,
		UpdatedAt:    s.Now(),
	}
	recordID := fmt.Sprintf("%s/%s/%s", newRate.RateDate.Format(domain.DateLayout), from, to)

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		action := domain.AuditInsert
		var oldValue any
		existing, err := repos.ExchangeRates().FindExchangeRate(ctx, from, to, newRate.RateDate)
		switch {
		case err == nil:
			action = domain.AuditUpdate
			oldValue = existing
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		if err := repos.ExchangeRates().UpsertExchangeRate(ctx, newRate); err != nil {
			return err
		}
		return s.audit.LogChangeInTx(ctx, repos.Audit(), actorID, domain.TableExchangeRates, recordID, action, oldValue, newRate)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate", slog.String("rate", recordID))
		return nil, err
	}

	s.cache.Flush()
	s.LogInfo(ctx, "Exchange rate saved", slog.String("rate", recordID), slog.String("value", rate.String()))
	return &newRate, nil
}

func (s *ExchangeRateService) ListRates(ctx context.Context, from, to string) ([]domain.ExchangeRate, error) {
	from, to = s.normalizePair(from, to)
	return s.rateRepo.ListExchangeRates(ctx, from, to)
}
