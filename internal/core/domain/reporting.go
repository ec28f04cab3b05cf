package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report, in base currency.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance is the list of non-zero account totals with grand totals.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// Balanced reports whether total debits equal total credits within tolerance.
func (tb TrialBalance) Balanced(tolerance decimal.Decimal) bool {
	return tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThanOrEqual(tolerance)
}
