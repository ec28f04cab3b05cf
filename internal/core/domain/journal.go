package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceReversal marks a journal created by reversing another journal.
const ReferenceReversal = "REVERSAL"

// Journal represents a single, balanced financial event composed of multiple entries.
type Journal struct {
	JournalID     string         `json:"journalID"` // Primary Key (UUID)
	JournalDate   time.Time      `json:"journalDate"`
	Description   string         `json:"description"`
	ReferenceType string         `json:"referenceType"` // e.g. "MUTUAL_FUND.REDEMPTION" or "REVERSAL"
	ReferenceID   string         `json:"referenceID"`   // Idempotency key or reversed journal ID
	IsReversed    bool           `json:"isReversed"`
	CreatedBy     string         `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
	Entries       []JournalEntry `json:"entries,omitempty"`
}

// IsReversal reports whether the journal negates another journal.
func (j Journal) IsReversal() bool {
	return j.ReferenceType == ReferenceReversal
}

// JournalEntry is a single debit or credit line within a Journal.
type JournalEntry struct {
	EntryID      string          `json:"entryID"`
	JournalID    string          `json:"journalID"`
	LineNo       int             `json:"lineNo"`
	AccountCode  string          `json:"accountCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // entry currency -> base currency
	Narration    string          `json:"narration"`
}

// BaseDebit returns the debit converted to base currency.
func (e JournalEntry) BaseDebit() decimal.Decimal {
	return e.Debit.Mul(e.ExchangeRate)
}

// BaseCredit returns the credit converted to base currency.
func (e JournalEntry) BaseCredit() decimal.Decimal {
	return e.Credit.Mul(e.ExchangeRate)
}

// Net returns debit minus credit in the entry's own currency.
func (e JournalEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// EntryInput is an unsaved journal line. Zero CurrencyCode means the account's currency,
// zero ExchangeRate means "resolve it" (1 for base currency).
type EntryInput struct {
	AccountCode  string          `json:"accountCode" binding:"required"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Narration    string          `json:"narration"`
}

// NewJournal describes a journal to be created.
type NewJournal struct {
	Date          time.Time
	Description   string
	ReferenceType string
	ReferenceID   string
	Entries       []EntryInput
}

// LedgerLine is one journal entry on an account together with its journal header.
type LedgerLine struct {
	JournalID     string       `json:"journalID"`
	JournalDate   time.Time    `json:"journalDate"`
	Description   string       `json:"description"`
	ReferenceType string       `json:"referenceType"`
	IsReversed    bool         `json:"isReversed"`
	CreatedAt     time.Time    `json:"createdAt"`
	Entry         JournalEntry `json:"entry"`
}

// CountsTowardBalance reports whether the line belongs to neither side of a reversal pair.
func (l LedgerLine) CountsTowardBalance() bool {
	return !l.IsReversed && l.ReferenceType != ReferenceReversal
}

// LedgerRow is a ledger line with the account's running balance after it.
type LedgerRow struct {
	LedgerLine
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// BaseTotals returns the journal's debit and credit totals in base currency.
func (j Journal) BaseTotals() (debit, credit decimal.Decimal) {
	for _, e := range j.Entries {
		debit = debit.Add(e.BaseDebit())
		credit = credit.Add(e.BaseCredit())
	}
	return debit, credit
}
