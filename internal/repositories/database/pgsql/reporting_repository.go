package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
)

// PgxReportingRepository implements portsrepo.ReportingRepository using pgx.
type PgxReportingRepository struct {
	db dbtx
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData sums base-currency amounts per account; NUMERIC keeps it exact.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, asOf *time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.code,
			a.name,
			a.account_type,
			SUM(e.debit * e.exchange_rate) AS total_debit,
			SUM(e.credit * e.exchange_rate) AS total_credit
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		JOIN accounts a ON a.code = e.account_code
		WHERE j.is_reversed = FALSE
			AND j.reference_type <> $1`
	args := []any{domain.ReferenceReversal}
	if asOf != nil {
		query += ` AND j.journal_date <= $2`
		args = append(args, domain.DateOf(*asOf))
	}
	query += ` GROUP BY a.code, a.name, a.account_type ORDER BY a.code`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var (
			row         domain.TrialBalanceRow
			accountType string
		)
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &accountType, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}
