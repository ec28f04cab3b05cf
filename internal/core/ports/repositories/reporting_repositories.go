package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetTrialBalanceData returns per-account base-currency debit and credit totals over
	// journals dated on or before asOf (nil means all), excluding both sides of reversal pairs.
	// Accounts with no qualifying lines are omitted.
	GetTrialBalanceData(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error)
}
