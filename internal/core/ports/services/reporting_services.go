package services

import (
	"context"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance in base currency, as of asOf when non-nil.
	TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error)
}
