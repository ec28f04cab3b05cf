package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/SscSPs/finledger/internal/core/services"
	"github.com/SscSPs/finledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindLatestRateOnOrBefore(ctx context.Context, from, to string, onOrBefore, notBefore time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, onOrBefore, notBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, from, to string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, from, to string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	service      *services.ExchangeRateService
	day          time.Time
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	// Reads never open a unit of work, so no store is needed.
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, nil, nil, "INR")
	suite.day = testutil.Date(suite.T(), "2024-03-28")
}

func (suite *ExchangeRateServiceTestSuite) window() (time.Time, time.Time) {
	return suite.day, suite.day.AddDate(0, 0, -services.DefaultRateLookbackDays)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_SameCurrency() {
	rate, err := suite.service.GetRate(context.Background(), "INR", suite.day, "INR")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindLatestRateOnOrBefore")
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_EmptyTargetIsBase() {
	ctx := context.Background()
	onOrBefore, notBefore := suite.window()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "USD", "INR", onOrBefore, notBefore).
		Return(&domain.ExchangeRate{RateDate: suite.day, FromCurrency: "USD", ToCurrency: "INR", Rate: decimal.RequireFromString("83.41")}, nil).Once()

	rate, err := suite.service.GetRate(ctx, "usd", suite.day, "")

	suite.Require().NoError(err)
	suite.Equal("83.41", rate.String())
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_CarriesForwardEarlierRate() {
	ctx := context.Background()
	onOrBefore, notBefore := suite.window()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "USD", "INR", onOrBefore, notBefore).
		Return(&domain.ExchangeRate{RateDate: suite.day.AddDate(0, 0, -3), Rate: decimal.RequireFromString("83.20")}, nil).Once()

	rate, err := suite.service.GetRate(ctx, "USD", suite.day, "INR")

	suite.Require().NoError(err)
	suite.Equal("83.2", rate.String())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_FallsBackToInverse() {
	ctx := context.Background()
	onOrBefore, notBefore := suite.window()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "INR", "USD", onOrBefore, notBefore).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "USD", "INR", onOrBefore, notBefore).
		Return(&domain.ExchangeRate{RateDate: suite.day, Rate: decimal.NewFromInt(80)}, nil).Once()

	rate, err := suite.service.GetRate(ctx, "INR", suite.day, "USD")

	suite.Require().NoError(err)
	suite.Equal("0.0125", rate.String())
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_NotFound() {
	ctx := context.Background()
	onOrBefore, notBefore := suite.window()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, mock.Anything, mock.Anything, onOrBefore, notBefore).
		Return(nil, apperrors.ErrNotFound).Twice()

	_, err := suite.service.GetRate(ctx, "EUR", suite.day, "INR")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrExchangeRateNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_RepositoryFailureIsNotMasked() {
	ctx := context.Background()
	boom := fmt.Errorf("disk I/O error")
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "USD", "INR", mock.Anything, mock.Anything).
		Return(nil, boom).Once()

	_, err := suite.service.GetRate(ctx, "USD", suite.day, "INR")

	suite.Require().Error(err)
	suite.ErrorIs(err, boom)
	suite.NotErrorIs(err, apperrors.ErrExchangeRateNotFound)
}

func (suite *ExchangeRateServiceTestSuite) TestGetRate_CachesResolvedRates() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "USD", "INR", mock.Anything, mock.Anything).
		Return(&domain.ExchangeRate{RateDate: suite.day, Rate: decimal.RequireFromString("83.41")}, nil).Once()

	for i := 0; i < 3; i++ {
		_, err := suite.service.GetRate(ctx, "USD", suite.day, "INR")
		suite.Require().NoError(err)
	}
	suite.mockRateRepo.AssertNumberOfCalls(suite.T(), "FindLatestRateOnOrBefore", 1)
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_RoundsToTargetMinorUnit() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "USD", "INR", mock.Anything, mock.Anything).
		Return(&domain.ExchangeRate{RateDate: suite.day, Rate: decimal.RequireFromString("83.4125")}, nil).Once()
	suite.mockRateRepo.On("FindLatestRateOnOrBefore", ctx, "USD", "JPY", mock.Anything, mock.Anything).
		Return(&domain.ExchangeRate{RateDate: suite.day, Rate: decimal.RequireFromString("151.37")}, nil).Once()

	inr, err := suite.service.Convert(ctx, decimal.RequireFromString("10.10"), suite.day, "USD", "INR")
	suite.Require().NoError(err)
	suite.Equal("842.47", inr.String()) // 842.466...

	jpy, err := suite.service.Convert(ctx, decimal.RequireFromString("10.10"), suite.day, "USD", "JPY")
	suite.Require().NoError(err)
	suite.Equal("1529", jpy.String()) // 1528.837
}

func (suite *ExchangeRateServiceTestSuite) TestConvert_SameCurrencyIsUntouched() {
	amount := decimal.RequireFromString("12.345")
	converted, err := suite.service.Convert(context.Background(), amount, suite.day, "INR", "")

	suite.Require().NoError(err)
	suite.True(converted.Equal(amount))
}

func (suite *ExchangeRateServiceTestSuite) TestAddRate_ValidationErrors() {
	ctx := context.Background()
	tests := []struct {
		name     string
		from, to string
		rate     decimal.Decimal
	}{
		{"zero rate", "USD", "INR", decimal.Zero},
		{"negative rate", "USD", "INR", decimal.NewFromInt(-1)},
		{"same currency", "USD", "usd", decimal.NewFromInt(1)},
		{"unknown currency", "XXY", "INR", decimal.NewFromInt(1)},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.AddRate(ctx, suite.day, tt.from, tt.to, tt.rate, "TEST", testutil.TestActor)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRateRepo.AssertNotCalled(suite.T(), "UpsertExchangeRate")
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}

// --- Store-backed tests ---

func TestExchangeRateService_AddRateAndResolve(t *testing.T) {
	svc, _ := testutil.NewServices(t)
	ctx := context.Background()
	d := testutil.Date(t, "2024-01-10")

	_, err := svc.ExchangeRate.AddRate(ctx, d, "USD", "INR", testutil.Dec(t, "83.00"), "RBI", testutil.TestActor)
	require.NoError(t, err)

	t.Run("exact date", func(t *testing.T) {
		rate, err := svc.ExchangeRate.GetRate(ctx, "USD", d, "INR")
		require.NoError(t, err)
		assert.Equal(t, "83", rate.String())
	})

	t.Run("carried forward three days", func(t *testing.T) {
		rate, err := svc.ExchangeRate.GetRate(ctx, "USD", d.AddDate(0, 0, 3), "INR")
		require.NoError(t, err)
		assert.Equal(t, "83", rate.String())
	})

	t.Run("never taken from a later date", func(t *testing.T) {
		_, err := svc.ExchangeRate.GetRate(ctx, "USD", d.AddDate(0, 0, -1), "INR")
		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
	})

	t.Run("beyond the lookback window", func(t *testing.T) {
		_, err := svc.ExchangeRate.GetRate(ctx, "USD", d.AddDate(0, 0, services.DefaultRateLookbackDays+1), "INR")
		assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
	})

	t.Run("inverse pair", func(t *testing.T) {
		rate, err := svc.ExchangeRate.GetRate(ctx, "INR", d, "USD")
		require.NoError(t, err)
		assert.True(t, rate.Mul(decimal.NewFromInt(83)).Round(8).Equal(decimal.NewFromInt(1)))
	})
}

func TestExchangeRateService_CarryForwardBetweenDatedRates(t *testing.T) {
	svc, _ := testutil.NewServices(t)
	ctx := context.Background()
	d := testutil.Date(t, "2024-02-05")

	_, err := svc.ExchangeRate.AddRate(ctx, d, "USD", "INR", testutil.Dec(t, "82.90"), "RBI", testutil.TestActor)
	require.NoError(t, err)
	_, err = svc.ExchangeRate.AddRate(ctx, d.AddDate(0, 0, 3), "USD", "INR", testutil.Dec(t, "83.15"), "RBI", testutil.TestActor)
	require.NoError(t, err)

	tests := []struct {
		offset int
		want   string
	}{
		{0, "82.9"},
		{1, "82.9"},
		{2, "82.9"},
		{3, "83.15"},
		{4, "83.15"},
		{3 + services.DefaultRateLookbackDays, "83.15"},
	}
	for _, tt := range tests {
		date := d.AddDate(0, 0, tt.offset)
		t.Run(date.Format(domain.DateLayout), func(t *testing.T) {
			rate, err := svc.ExchangeRate.GetRate(ctx, "USD", date, "INR")
			require.NoError(t, err)
			assert.Equal(t, tt.want, rate.String())
		})
	}

	_, err = svc.ExchangeRate.GetRate(ctx, "USD", d.AddDate(0, 0, 4+services.DefaultRateLookbackDays), "INR")
	assert.ErrorIs(t, err, apperrors.ErrExchangeRateNotFound)
}

func TestExchangeRateService_UpsertReplacesAndAudits(t *testing.T) {
	svc, _ := testutil.NewServices(t)
	ctx := context.Background()
	d := testutil.Date(t, "2024-01-10")

	_, err := svc.ExchangeRate.AddRate(ctx, d, "USD", "INR", testutil.Dec(t, "83.00"), "RBI", testutil.TestActor)
	require.NoError(t, err)
	_, err = svc.ExchangeRate.AddRate(ctx, d, "USD", "INR", testutil.Dec(t, "83.25"), "RBI", testutil.TestActor)
	require.NoError(t, err)

	rate, err := svc.ExchangeRate.GetRate(ctx, "USD", d, "INR")
	require.NoError(t, err)
	assert.Equal(t, "83.25", rate.String(), "a new rate must invalidate the cache")

	rates, err := svc.ExchangeRate.ListRates(ctx, "USD", "INR")
	require.NoError(t, err)
	assert.Len(t, rates, 1)

	history, err := svc.Audit.History(ctx, domain.TableExchangeRates, "2024-01-10/USD/INR")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.AuditInsert, history[0].Action)
	assert.Equal(t, domain.AuditUpdate, history[1].Action)
	assert.Contains(t, string(history[1].OldValues), "83")
}

func TestExchangeRateService_RepeatedConversionDoesNotDrift(t *testing.T) {
	svc, _ := testutil.NewServices(t)
	ctx := context.Background()
	d := testutil.Date(t, "2024-01-10")
	_, err := svc.ExchangeRate.AddRate(ctx, d, "USD", "INR", testutil.Dec(t, "83.1234"), "RBI", testutil.TestActor)
	require.NoError(t, err)

	amount := testutil.Dec(t, "19.99")
	total := decimal.Zero
	for i := 0; i < 1000; i++ {
		converted, err := svc.ExchangeRate.Convert(ctx, amount, d, "USD", "INR")
		require.NoError(t, err)
		total = total.Add(converted)
	}
	// 19.99 * 83.1234 = 1661.636766 -> 1661.64 each time.
	assert.Equal(t, "1661640", total.String())
}
