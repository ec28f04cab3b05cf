package dto

import (
	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceResponse is the API form of a trial balance.
type TrialBalanceResponse struct {
	AsOf        string                   `json:"asOf,omitempty"`
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit" swaggertype:"string"`
	TotalCredit decimal.Decimal          `json:"totalCredit" swaggertype:"string"`
	Balanced    bool                     `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance for the API.
func ToTrialBalanceResponse(tb *domain.TrialBalance, asOf string, tolerance decimal.Decimal) TrialBalanceResponse {
	return TrialBalanceResponse{
		AsOf:        asOf,
		Rows:        tb.Rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		Balanced:    tb.Balanced(tolerance),
	}
}
