package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryRequest is one line of a manual journal.
type EntryRequest struct {
	AccountCode  string          `json:"accountCode" binding:"required"`
	Debit        decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit       decimal.Decimal `json:"credit" swaggertype:"string"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3"`
	ExchangeRate decimal.Decimal `json:"exchangeRate" swaggertype:"string"`
	Narration    string          `json:"narration"`
}

// CreateJournalRequest defines the structure for posting a manual journal.
type CreateJournalRequest struct {
	Date          string         `json:"date" binding:"required"`
	Description   string         `json:"description" binding:"max=500"`
	ReferenceType string         `json:"referenceType"`
	ReferenceID   string         `json:"referenceID"`
	Entries       []EntryRequest `json:"entries" binding:"required,min=2,dive"`
}

// ToDomain converts the request into a domain.NewJournal.
func (r CreateJournalRequest) ToDomain() (domain.NewJournal, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.NewJournal{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, r.Date)
	}
	referenceType := r.ReferenceType
	if referenceType == "" {
		referenceType = "MANUAL"
	}
	entries := make([]domain.EntryInput, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.EntryInput{
			AccountCode:  e.AccountCode,
			Debit:        e.Debit,
			Credit:       e.Credit,
			CurrencyCode: e.CurrencyCode,
			ExchangeRate: e.ExchangeRate,
			Narration:    e.Narration,
		}
	}
	return domain.NewJournal{
		Date:          date,
		Description:   r.Description,
		ReferenceType: referenceType,
		ReferenceID:   r.ReferenceID,
		Entries:       entries,
	}, nil
}

// EntryResponse defines the data returned for a journal line.
type EntryResponse struct {
	EntryID      string          `json:"entryID"`
	LineNo       int             `json:"lineNo"`
	AccountCode  string          `json:"accountCode"`
	Debit        decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit       decimal.Decimal `json:"credit" swaggertype:"string"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate" swaggertype:"string"`
	Narration    string          `json:"narration,omitempty"`
}

// JournalResponse defines the data returned for a journal with its lines.
type JournalResponse struct {
	JournalID     string          `json:"journalID"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	ReferenceType string          `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	IsReversed    bool            `json:"isReversed"`
	CreatedBy     string          `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	Entries       []EntryResponse `json:"entries"`
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	entries := make([]EntryResponse, len(j.Entries))
	for i, e := range j.Entries {
		entries[i] = EntryResponse{
			EntryID:      e.EntryID,
			LineNo:       e.LineNo,
			AccountCode:  e.AccountCode,
			Debit:        e.Debit,
			Credit:       e.Credit,
			CurrencyCode: e.CurrencyCode,
			ExchangeRate: e.ExchangeRate,
			Narration:    e.Narration,
		}
	}
	return JournalResponse{
		JournalID:     j.JournalID,
		Date:          j.JournalDate.Format(domain.DateLayout),
		Description:   j.Description,
		ReferenceType: j.ReferenceType,
		ReferenceID:   j.ReferenceID,
		IsReversed:    j.IsReversed,
		CreatedBy:     j.CreatedBy,
		CreatedAt:     j.CreatedAt,
		Entries:       entries,
	}
}
