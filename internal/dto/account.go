package dto

import (
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	ParentCode   string             `json:"parentCode,omitempty"`
	CurrencyCode string             `json:"currencyCode"`
	IsActive     bool               `json:"isActive"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// AccountNodeResponse is an account with its descendants.
type AccountNodeResponse struct {
	AccountResponse
	Children []AccountNodeResponse `json:"children,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:         acc.Code,
		Name:         acc.Name,
		AccountType:  acc.AccountType,
		ParentCode:   acc.ParentCode,
		CurrencyCode: acc.CurrencyCode,
		IsActive:     acc.IsActive,
		CreatedAt:    acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	list := make([]AccountResponse, len(accounts))
	for i := range accounts {
		list[i] = ToAccountResponse(&accounts[i])
	}
	return list
}

// ToAccountTreeResponse converts hierarchy nodes recursively.
func ToAccountTreeResponse(nodes []*domain.AccountNode) []AccountNodeResponse {
	out := make([]AccountNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, AccountNodeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Children:        ToAccountTreeResponse(n.Children),
		})
	}
	return out
}

// BalanceQuery carries the optional as-of date of a balance request.
type BalanceQuery struct {
	AsOf string `form:"asOf"`
}

// AccountBalanceResponse is an account balance in the account's currency.
type AccountBalanceResponse struct {
	AccountCode  string          `json:"accountCode"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance" swaggertype:"string"`
	AsOf         string          `json:"asOf,omitempty"`
}

// LedgerRowResponse is one ledger line with the running balance after it.
type LedgerRowResponse struct {
	JournalID      string          `json:"journalID"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	ReferenceType  string          `json:"referenceType"`
	Debit          decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit         decimal.Decimal `json:"credit" swaggertype:"string"`
	CurrencyCode   string          `json:"currencyCode"`
	Narration      string          `json:"narration,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance" swaggertype:"string"`
}

// ToLedgerResponse converts ledger rows for the API.
func ToLedgerResponse(rows []domain.LedgerRow) []LedgerRowResponse {
	out := make([]LedgerRowResponse, len(rows))
	for i, r := range rows {
		out[i] = LedgerRowResponse{
			JournalID:      r.JournalID,
			Date:           r.JournalDate.Format(domain.DateLayout),
			Description:    r.Description,
			ReferenceType:  r.ReferenceType,
			Debit:          r.Entry.Debit,
			Credit:         r.Entry.Credit,
			CurrencyCode:   r.Entry.CurrencyCode,
			Narration:      r.Entry.Narration,
			RunningBalance: r.RunningBalance,
		}
	}
	return out
}
