package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/SscSPs/finledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/finledger/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *sqlite.Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.store = testutil.NewSQLiteStore(s.T())
	s.ctx = context.Background()

	now := time.Now().UTC()
	for _, acc := range []domain.Account{
		{Code: "1000", Name: "Assets", AccountType: domain.Asset, CurrencyCode: "INR", IsActive: true, CreatedAt: now},
		{Code: "1101", Name: "Savings", AccountType: domain.Asset, ParentCode: "1000", CurrencyCode: "INR", IsActive: true, CreatedAt: now},
		{Code: "1209", Name: "Foreign Cash", AccountType: domain.Asset, ParentCode: "1000", CurrencyCode: "USD", IsActive: true, CreatedAt: now},
		{Code: "4101", Name: "Salary", AccountType: domain.Income, CurrencyCode: "INR", IsActive: true, CreatedAt: now},
	} {
		inserted, err := s.store.Accounts().InsertAccountIfAbsent(s.ctx, acc)
		s.Require().NoError(err)
		s.Require().True(inserted)
	}
}

func (s *StoreTestSuite) journal(date, amount string) domain.Journal {
	id := uuid.NewString()
	amt := testutil.Dec(s.T(), amount)
	return domain.Journal{
		JournalID:     id,
		JournalDate:   testutil.Date(s.T(), date),
		Description:   "Salary",
		ReferenceType: "SALARY.CREDIT",
		ReferenceID:   "SALARY:" + id,
		CreatedBy:     testutil.TestActor,
		CreatedAt:     time.Now().UTC(),
		Entries: []domain.JournalEntry{
			{EntryID: uuid.NewString(), JournalID: id, LineNo: 1, AccountCode: "1101", Debit: amt, Credit: decimal.Zero, CurrencyCode: "INR", ExchangeRate: decimal.NewFromInt(1)},
			{EntryID: uuid.NewString(), JournalID: id, LineNo: 2, AccountCode: "4101", Debit: decimal.Zero, Credit: amt, CurrencyCode: "INR", ExchangeRate: decimal.NewFromInt(1)},
		},
	}
}

func (s *StoreTestSuite) TestAccounts() {
	again, err := s.store.Accounts().InsertAccountIfAbsent(s.ctx, domain.Account{
		Code: "1101", Name: "Renamed", AccountType: domain.Asset, CurrencyCode: "INR", IsActive: true, CreatedAt: time.Now(),
	})
	s.Require().NoError(err)
	s.False(again)

	acc, err := s.store.Accounts().FindAccountByCode(s.ctx, "1101")
	s.Require().NoError(err)
	s.Equal("Savings", acc.Name, "existing accounts are never modified")
	s.Equal("1000", acc.ParentCode)

	root, err := s.store.Accounts().FindAccountByCode(s.ctx, "1000")
	s.Require().NoError(err)
	s.Empty(root.ParentCode)

	_, err = s.store.Accounts().FindAccountByCode(s.ctx, "9999")
	s.ErrorIs(err, apperrors.ErrAccountNotFound)

	children, err := s.store.Accounts().ListChildren(s.ctx, "1000")
	s.Require().NoError(err)
	s.Len(children, 2)
	s.Equal("1101", children[0].Code)
}

func (s *StoreTestSuite) TestJournalRoundTrip() {
	j := s.journal("2024-04-30", "1234.56")
	s.Require().NoError(s.store.Journals().SaveJournal(s.ctx, j))

	got, err := s.store.Journals().FindJournalByID(s.ctx, j.JournalID)
	s.Require().NoError(err)
	s.Equal(j.JournalDate, got.JournalDate)
	s.Equal(j.ReferenceID, got.ReferenceID)
	s.False(got.IsReversed)
	s.Require().Len(got.Entries, 2)
	s.True(got.Entries[0].Debit.Equal(j.Entries[0].Debit))
	s.True(got.Entries[1].Credit.Equal(j.Entries[1].Credit))
	s.Equal(1, got.Entries[0].LineNo)

	_, err = s.store.Journals().FindJournalByID(s.ctx, uuid.NewString())
	s.ErrorIs(err, apperrors.ErrNotFound)

	marked, err := s.store.Journals().MarkJournalReversed(s.ctx, j.JournalID)
	s.Require().NoError(err)
	s.True(marked)
	marked, err = s.store.Journals().MarkJournalReversed(s.ctx, j.JournalID)
	s.Require().NoError(err)
	s.False(marked)
}

func (s *StoreTestSuite) TestListAccountLines() {
	for _, j := range []domain.Journal{
		s.journal("2024-03-31", "300"),
		s.journal("2024-01-31", "100"),
		s.journal("2024-02-29", "200"),
	} {
		s.Require().NoError(s.store.Journals().SaveJournal(s.ctx, j))
	}

	lines, err := s.store.Journals().ListAccountLines(s.ctx, "1101", nil)
	s.Require().NoError(err)
	s.Require().Len(lines, 3)
	s.Equal("100", lines[0].Entry.Debit.String())
	s.Equal("300", lines[2].Entry.Debit.String())

	asOf := testutil.Date(s.T(), "2024-02-29")
	lines, err = s.store.Journals().ListAccountLines(s.ctx, "1101", &asOf)
	s.Require().NoError(err)
	s.Len(lines, 2, "the as-of day is inclusive")
}

func (s *StoreTestSuite) TestIdempotencyClaim() {
	rec := domain.IdempotencyRecord{IdempotencyKey: "SALARY:abc", SourceType: "PAYSLIP", SourceFile: "april.pdf", CreatedAt: time.Now()}

	claimed, err := s.store.Idempotency().ClaimKey(s.ctx, rec)
	s.Require().NoError(err)
	s.True(claimed)

	claimed, err = s.store.Idempotency().ClaimKey(s.ctx, rec)
	s.Require().NoError(err)
	s.False(claimed)

	j := s.journal("2024-04-30", "10")
	s.Require().NoError(s.store.Journals().SaveJournal(s.ctx, j))
	s.Require().NoError(s.store.Idempotency().AttachJournal(s.ctx, rec.IdempotencyKey, j.JournalID))

	found, err := s.store.Idempotency().FindByKey(s.ctx, rec.IdempotencyKey)
	s.Require().NoError(err)
	s.Equal(j.JournalID, found.JournalID)
	s.Equal("PAYSLIP", found.SourceType)

	_, err = s.store.Idempotency().FindByKey(s.ctx, "SALARY:missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(s.store.Idempotency().AttachJournal(s.ctx, "SALARY:missing", j.JournalID), apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestWithinTxRollsBack() {
	boom := errors.New("boom")
	err := s.store.WithinTx(s.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		claimed, err := repos.Idempotency().ClaimKey(ctx, domain.IdempotencyRecord{IdempotencyKey: "BANK:rollback", SourceType: "BANK", CreatedAt: time.Now()})
		s.Require().NoError(err)
		s.Require().True(claimed)
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.Idempotency().FindByKey(s.ctx, "BANK:rollback")
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Panics(func() {
		_ = s.store.WithinTx(s.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
			_, _ = repos.Idempotency().ClaimKey(ctx, domain.IdempotencyRecord{IdempotencyKey: "BANK:panic", SourceType: "BANK", CreatedAt: time.Now()})
			panic("mapper bug")
		})
	})
	_, err = s.store.Idempotency().FindByKey(s.ctx, "BANK:panic")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestExchangeRates() {
	repo := s.store.ExchangeRates()
	d := testutil.Date(s.T(), "2024-01-10")
	for i, r := range []string{"83.10", "83.20", "83.30"} {
		s.Require().NoError(repo.UpsertExchangeRate(s.ctx, domain.ExchangeRate{
			RateDate: d.AddDate(0, 0, i*2), FromCurrency: "USD", ToCurrency: "INR",
			Rate: testutil.Dec(s.T(), r), Source: "RBI", UpdatedAt: time.Now(),
		}))
	}

	got, err := repo.FindLatestRateOnOrBefore(s.ctx, "USD", "INR", d.AddDate(0, 0, 3), d)
	s.Require().NoError(err)
	s.Equal(d.AddDate(0, 0, 2), got.RateDate)
	s.Equal("83.2", got.Rate.String())

	_, err = repo.FindLatestRateOnOrBefore(s.ctx, "USD", "INR", d.AddDate(0, 0, -1), d.AddDate(0, 0, -8))
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Require().NoError(repo.UpsertExchangeRate(s.ctx, domain.ExchangeRate{
		RateDate: d, FromCurrency: "USD", ToCurrency: "INR", Rate: testutil.Dec(s.T(), "84"), Source: "FBIL", UpdatedAt: time.Now(),
	}))
	exact, err := repo.FindExchangeRate(s.ctx, "USD", "INR", d)
	s.Require().NoError(err)
	s.Equal("84", exact.Rate.String())
	s.Equal("FBIL", exact.Source)

	all, err := repo.ListExchangeRates(s.ctx, "USD", "INR")
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.True(all[0].RateDate.After(all[2].RateDate))
}

func (s *StoreTestSuite) TestTrialBalanceExcludesReversalPairs() {
	kept := s.journal("2024-04-30", "500")
	reversed := s.journal("2024-04-30", "70")
	for _, j := range []domain.Journal{kept, reversed} {
		s.Require().NoError(s.store.Journals().SaveJournal(s.ctx, j))
	}
	rev := s.journal("2024-04-30", "70")
	rev.ReferenceType = domain.ReferenceReversal
	rev.ReferenceID = reversed.JournalID
	rev.Entries[0].Debit, rev.Entries[0].Credit = decimal.Zero, testutil.Dec(s.T(), "70")
	rev.Entries[1].Debit, rev.Entries[1].Credit = testutil.Dec(s.T(), "70"), decimal.Zero
	s.Require().NoError(s.store.Journals().SaveJournal(s.ctx, rev))
	_, err := s.store.Journals().MarkJournalReversed(s.ctx, reversed.JournalID)
	s.Require().NoError(err)

	rows, err := s.store.Reporting().GetTrialBalanceData(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("1101", rows[0].AccountCode)
	s.Equal("500.00", rows[0].Debit.StringFixed(2))
	s.Equal("500.00", rows[1].Credit.StringFixed(2))
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestOpenReappliesNothing(t *testing.T) {
	path := t.TempDir() + "/ledger.db"
	ctx := context.Background()

	first, err := sqlite.Open(ctx, path, testutil.DiscardLogger())
	require.NoError(t, err)
	claimed, err := first.Idempotency().ClaimKey(ctx, domain.IdempotencyRecord{IdempotencyKey: "BANK:1", SourceType: "BANK", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, first.Close())

	second, err := sqlite.Open(ctx, path, testutil.DiscardLogger())
	require.NoError(t, err)
	defer second.Close()
	_, err = second.Idempotency().FindByKey(ctx, "BANK:1")
	assert.NoError(t, err, "reopening keeps existing data")
}
