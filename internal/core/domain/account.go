package domain

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account is a node in the chart of accounts, addressed by its stable code.
type Account struct {
	Code         string      `json:"code"`         // Primary Key, e.g. "1101"
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	ParentCode   string      `json:"parentCode"`   // Empty for roots
	CurrencyCode string      `json:"currencyCode"` // Base currency unless a foreign-asset account
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// AccountNode is an account with its descendants, used by hierarchy queries.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children,omitempty"`
}
