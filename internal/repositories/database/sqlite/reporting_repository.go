package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type reportingRepository struct {
	db queryer
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetTrialBalanceData aggregates in Go; amounts are stored as TEXT and SQLite's SUM
// would go through floating point.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.code, a.name, a.account_type, e.debit, e.credit, e.exchange_rate
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		JOIN accounts a ON a.code = e.account_code
		WHERE j.is_reversed = 0 AND j.reference_type <> ?`
	args := []any{domain.ReferenceReversal}
	if asOf != nil {
		query += ` AND j.journal_date <= ?`
		args = append(args, formatDate(*asOf))
	}
	query += ` ORDER BY a.code`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var (
			code, name, accountType string
			debit, credit, rate     decimal.Decimal
		)
		if err := rows.Scan(&code, &name, &accountType, &debit, &credit, &rate); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		if n := len(result); n == 0 || result[n-1].AccountCode != code {
			result = append(result, domain.TrialBalanceRow{
				AccountCode: code,
				AccountName: name,
				AccountType: domain.AccountType(accountType),
			})
		}
		row := &result[len(result)-1]
		row.Debit = row.Debit.Add(debit.Mul(rate))
		row.Credit = row.Credit.Add(credit.Mul(rate))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}
