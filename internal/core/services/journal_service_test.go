package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	suite.Suite
	svc *portssvc.ServiceContainer
	ctx context.Context
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.svc, _ = testutil.NewServices(suite.T())
	suite.ctx = context.Background()
}

func (suite *JournalServiceTestSuite) dec(s string) decimal.Decimal {
	return testutil.Dec(suite.T(), s)
}

func (suite *JournalServiceTestSuite) salaryJournal(amount string) domain.NewJournal {
	return domain.NewJournal{
		Date:          testutil.Date(suite.T(), "2024-04-30"),
		Description:   "April salary",
		ReferenceType: "MANUAL",
		Entries: []domain.EntryInput{
			{AccountCode: "1101", Debit: suite.dec(amount)},
			{AccountCode: "4101", Credit: suite.dec(amount)},
		},
	}
}

func (suite *JournalServiceTestSuite) balance(code string) string {
	b, err := suite.svc.Journal.AccountBalance(suite.ctx, code, nil)
	suite.Require().NoError(err)
	return b.StringFixed(2)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	created, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, suite.salaryJournal("100000"))

	suite.Require().NoError(err)
	suite.NotEmpty(created.JournalID)
	suite.Len(created.Entries, 2)
	suite.Equal("INR", created.Entries[0].CurrencyCode)
	suite.True(created.Entries[0].ExchangeRate.Equal(decimal.NewFromInt(1)))

	fetched, err := suite.svc.Journal.GetJournal(suite.ctx, created.JournalID)
	suite.Require().NoError(err)
	suite.Equal(created.JournalID, fetched.JournalID)
	suite.Equal("April salary", fetched.Description)
	suite.Len(fetched.Entries, 2)

	suite.Equal("100000.00", suite.balance("1101"))
	suite.Equal("-100000.00", suite.balance("4101"))

	history, err := suite.svc.Audit.History(suite.ctx, domain.TableJournals, created.JournalID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)
	suite.Equal(domain.AuditInsert, history[0].Action)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Unbalanced() {
	req := suite.salaryJournal("100")
	req.Entries[1].Credit = suite.dec("90")

	_, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, req)

	suite.Require().Error(err)
	var unbalanced *apperrors.UnbalancedJournalError
	suite.Require().True(errors.As(err, &unbalanced))
	suite.Equal("100", unbalanced.TotalDebit.String())
	suite.Equal("90", unbalanced.TotalCredit.String())
	suite.Equal("0.00", suite.balance("1101"), "nothing may be persisted")
}

func (suite *JournalServiceTestSuite) TestCreateJournal_WithinTolerance() {
	req := suite.salaryJournal("100")
	req.Entries[1].Credit = suite.dec("99.995")

	_, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, req)
	suite.NoError(err)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_ValidationErrors() {
	tests := []struct {
		name   string
		mutate func(*domain.NewJournal)
		target error
	}{
		{"missing date", func(j *domain.NewJournal) { j.Date = time.Time{} }, apperrors.ErrValidation},
		{"single entry", func(j *domain.NewJournal) { j.Entries = j.Entries[:1] }, apperrors.ErrValidation},
		{"negative amount", func(j *domain.NewJournal) {
			j.Entries[0].Debit = suite.dec("-5")
			j.Entries[1].Credit = suite.dec("-5")
		}, apperrors.ErrValidation},
		{"all zero", func(j *domain.NewJournal) {
			j.Entries[0].Debit = decimal.Zero
			j.Entries[1].Credit = decimal.Zero
		}, apperrors.ErrValidation},
		{"unknown account", func(j *domain.NewJournal) { j.Entries[0].AccountCode = "9999" }, apperrors.ErrAccountNotFound},
		{"currency mismatch", func(j *domain.NewJournal) { j.Entries[0].CurrencyCode = "USD" }, apperrors.ErrValidation},
		{"base currency with a rate", func(j *domain.NewJournal) { j.Entries[0].ExchangeRate = suite.dec("2") }, apperrors.ErrValidation},
		{"reserved reversal reference", func(j *domain.NewJournal) { j.ReferenceType = domain.ReferenceReversal }, apperrors.ErrValidation},
		{"reserved reversal reference in lower case", func(j *domain.NewJournal) { j.ReferenceType = " reversal " }, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := suite.salaryJournal("100")
			tt.mutate(&req)
			_, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, req)
			suite.ErrorIs(err, tt.target)
		})
	}
}

func (suite *JournalServiceTestSuite) TestCreateJournal_ReversalReferenceCannotHideJournal() {
	req := suite.salaryJournal("100")
	req.ReferenceType = domain.ReferenceReversal

	_, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, req)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)

	created, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, suite.salaryJournal("100"))
	suite.Require().NoError(err)
	suite.Equal("100.00", suite.balance("1101"))

	reversal, err := suite.svc.Journal.ReverseJournal(suite.ctx, testutil.TestActor, created.JournalID)
	suite.Require().NoError(err)
	suite.Equal(domain.ReferenceReversal, reversal.ReferenceType)
	suite.Equal(created.JournalID, reversal.ReferenceID)
	suite.Equal("0.00", suite.balance("1101"))
}

func (suite *JournalServiceTestSuite) TestCreateJournal_ForeignEntryResolvesRate() {
	d := testutil.Date(suite.T(), "2024-04-30")
	_, err := suite.svc.ExchangeRate.AddRate(suite.ctx, d, "USD", "INR", suite.dec("83.50"), "RBI", testutil.TestActor)
	suite.Require().NoError(err)

	created, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, domain.NewJournal{
		Date:          d,
		Description:   "Remittance",
		ReferenceType: "MANUAL",
		Entries: []domain.EntryInput{
			{AccountCode: "1209", Debit: suite.dec("100")},
			{AccountCode: "1101", Credit: suite.dec("8350")},
		},
	})
	suite.Require().NoError(err)
	suite.Equal("USD", created.Entries[0].CurrencyCode)
	suite.Equal("83.5", created.Entries[0].ExchangeRate.String())
	suite.Equal("100.00", suite.balance("1209"), "balances stay in the account currency")
}

func (suite *JournalServiceTestSuite) TestCreateJournal_ForeignEntryWithoutRate() {
	_, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, domain.NewJournal{
		Date: testutil.Date(suite.T(), "2024-04-30"),
		Entries: []domain.EntryInput{
			{AccountCode: "1209", Debit: suite.dec("100")},
			{AccountCode: "1101", Credit: suite.dec("8350")},
		},
	})
	suite.ErrorIs(err, apperrors.ErrExchangeRateNotFound)
}

func (suite *JournalServiceTestSuite) TestReverseJournal() {
	original, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, suite.salaryJournal("5000"))
	suite.Require().NoError(err)
	_, err = suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, suite.salaryJournal("700"))
	suite.Require().NoError(err)

	reversal, err := suite.svc.Journal.ReverseJournal(suite.ctx, testutil.TestActor, original.JournalID)
	suite.Require().NoError(err)
	suite.True(reversal.IsReversal())
	suite.Equal(original.JournalID, reversal.ReferenceID)
	suite.Equal(original.JournalDate, reversal.JournalDate)
	suite.Equal("Reversal of: April salary", reversal.Description)
	suite.Require().Len(reversal.Entries, 2)
	suite.True(reversal.Entries[0].Credit.Equal(original.Entries[0].Debit))
	suite.True(reversal.Entries[1].Debit.Equal(original.Entries[1].Credit))

	// Only the unreversed journal counts.
	suite.Equal("700.00", suite.balance("1101"))
	suite.Equal("-700.00", suite.balance("4101"))

	reloaded, err := suite.svc.Journal.GetJournal(suite.ctx, original.JournalID)
	suite.Require().NoError(err)
	suite.True(reloaded.IsReversed)

	// The ledger still shows every line, and the running balance nets to the same figure.
	rows, err := suite.svc.Journal.AccountLedger(suite.ctx, "1101")
	suite.Require().NoError(err)
	suite.Len(rows, 3)
	suite.Equal("700", rows[len(rows)-1].RunningBalance.String())

	history, err := suite.svc.Audit.History(suite.ctx, domain.TableJournals, original.JournalID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 2)
	suite.Equal(domain.AuditUpdate, history[1].Action)

	suite.Run("twice", func() {
		_, err := suite.svc.Journal.ReverseJournal(suite.ctx, testutil.TestActor, original.JournalID)
		suite.ErrorIs(err, apperrors.ErrConflict)
	})
	suite.Run("a reversal", func() {
		_, err := suite.svc.Journal.ReverseJournal(suite.ctx, testutil.TestActor, reversal.JournalID)
		suite.ErrorIs(err, apperrors.ErrConflict)
	})
	suite.Run("unknown journal", func() {
		_, err := suite.svc.Journal.ReverseJournal(suite.ctx, testutil.TestActor, "does-not-exist")
		suite.ErrorIs(err, apperrors.ErrNotFound)
	})
}

func (suite *JournalServiceTestSuite) TestAccountBalance_AsOf() {
	early := suite.salaryJournal("100")
	early.Date = testutil.Date(suite.T(), "2024-01-31")
	late := suite.salaryJournal("250")
	late.Date = testutil.Date(suite.T(), "2024-02-29")
	for _, req := range []domain.NewJournal{early, late} {
		_, err := suite.svc.Journal.CreateJournal(suite.ctx, testutil.TestActor, req)
		suite.Require().NoError(err)
	}

	asOf := testutil.Date(suite.T(), "2024-02-01")
	b, err := suite.svc.Journal.AccountBalance(suite.ctx, "1101", &asOf)
	suite.Require().NoError(err)
	suite.Equal("100", b.String())

	suite.Equal("350.00", suite.balance("1101"))

	_, err = suite.svc.Journal.AccountBalance(suite.ctx, "0000", nil)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func TestJournalService_ReversalIsAdditive(t *testing.T) {
	svc, _ := testutil.NewServices(t)
	ctx := context.Background()
	d := testutil.Date(t, "2024-05-01")

	amounts := []string{"10.10", "20.20", "30.30", "40.40"}
	ids := make([]string, len(amounts))
	for i, a := range amounts {
		j, err := svc.Journal.CreateJournal(ctx, testutil.TestActor, domain.NewJournal{
			Date: d,
			Entries: []domain.EntryInput{
				{AccountCode: "5901", Debit: testutil.Dec(t, a)},
				{AccountCode: "1101", Credit: testutil.Dec(t, a)},
			},
		})
		require.NoError(t, err)
		ids[i] = j.JournalID
	}

	_, err := svc.Journal.ReverseJournal(ctx, testutil.TestActor, ids[1])
	require.NoError(t, err)
	_, err = svc.Journal.ReverseJournal(ctx, testutil.TestActor, ids[3])
	require.NoError(t, err)

	b, err := svc.Journal.AccountBalance(ctx, "5901", nil)
	require.NoError(t, err)
	assert.Equal(t, "40.40", b.StringFixed(2))

	tb, err := svc.Reporting.TrialBalance(ctx, nil)
	require.NoError(t, err)
	assert.True(t, tb.Balanced(decimal.Zero))
	assert.Equal(t, "40.40", tb.TotalDebit.StringFixed(2))
}
