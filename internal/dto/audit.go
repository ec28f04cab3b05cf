package dto

import (
	"fmt"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
)

// AuditQuery bounds table and actor audit listings. From and To are YYYY-MM-DD and inclusive.
type AuditQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// Window converts the query bounds into a domain.TimeWindow. To covers its whole day.
func (q AuditQuery) Window() (domain.TimeWindow, error) {
	var w domain.TimeWindow
	if q.From != "" {
		from, err := domain.ParseDate(q.From)
		if err != nil {
			return w, fmt.Errorf("%w: invalid from date %q", apperrors.ErrValidation, q.From)
		}
		w.From = from
	}
	if q.To != "" {
		to, err := domain.ParseDate(q.To)
		if err != nil {
			return w, fmt.Errorf("%w: invalid to date %q", apperrors.ErrValidation, q.To)
		}
		w.To = to.AddDate(0, 0, 1).Add(-1)
	}
	return w, nil
}

// ListAuditResponse wraps audit entries.
type ListAuditResponse struct {
	Entries []domain.AuditLogEntry `json:"entries"`
}
