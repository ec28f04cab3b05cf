package dto

import (
	"fmt"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordInput is one normalized statement line as posted by a parser. Dates are YYYY-MM-DD.
type RecordInput struct {
	AssetClass   domain.AssetClass `json:"assetClass" binding:"required"`
	Activity     domain.Activity   `json:"activity" binding:"required"`
	AccountRef   string            `json:"accountRef" binding:"required"`
	Date         string            `json:"date" binding:"required"`
	Amount       decimal.Decimal   `json:"amount" swaggertype:"string"`
	Units        decimal.Decimal   `json:"units" swaggertype:"string"`
	CostBasis    decimal.Decimal   `json:"costBasis" swaggertype:"string"`
	Fees         decimal.Decimal   `json:"fees" swaggertype:"string"`
	TaxWithheld  decimal.Decimal   `json:"taxWithheld" swaggertype:"string"`
	CurrencyCode string            `json:"currencyCode" binding:"omitempty,len=3"`
	LongTerm     bool              `json:"longTerm"`
	Category     string            `json:"category"`
	Instrument   string            `json:"instrument"`
	Reference    string            `json:"reference"`
	Description  string            `json:"description" binding:"max=500"`
}

// ToDomain converts the input into a domain.NormalizedRecord.
func (r RecordInput) ToDomain() (domain.NormalizedRecord, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.NormalizedRecord{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, r.Date)
	}
	return domain.NormalizedRecord{
		AssetClass:   r.AssetClass,
		Activity:     r.Activity,
		AccountRef:   r.AccountRef,
		Date:         date,
		Amount:       r.Amount,
		Units:        r.Units,
		CostBasis:    r.CostBasis,
		Fees:         r.Fees,
		TaxWithheld:  r.TaxWithheld,
		CurrencyCode: r.CurrencyCode,
		LongTerm:     r.LongTerm,
		Category:     r.Category,
		Instrument:   r.Instrument,
		Reference:    r.Reference,
		Description:  r.Description,
	}, nil
}

// RecordRequest records a single statement line.
type RecordRequest struct {
	SourceType string      `json:"sourceType" binding:"required"`
	SourceFile string      `json:"sourceFile"`
	Record     RecordInput `json:"record"`
}

// BatchRecordRequest records the lines of one statement in order.
type BatchRecordRequest struct {
	SourceType string        `json:"sourceType" binding:"required"`
	SourceFile string        `json:"sourceFile"`
	Records    []RecordInput `json:"records" binding:"required,min=1,max=5000,dive"`
}

// ToDomainRecords converts every input; the first invalid one fails the whole request.
func (r BatchRecordRequest) ToDomainRecords() ([]domain.NormalizedRecord, error) {
	records := make([]domain.NormalizedRecord, 0, len(r.Records))
	for i, in := range r.Records {
		rec, err := in.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
