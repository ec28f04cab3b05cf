package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
)

// PgxAuditRepository implements portsrepo.AuditRepository using pgx.
type PgxAuditRepository struct {
	db dbtx
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

const auditColumns = `entry_id, table_name, record_id, action, old_values, new_values, actor_id, created_at`

func jsonOrNull(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// AppendAuditEntry inserts one audit row.
func (r *PgxAuditRepository) AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_log (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8)`,
		entry.EntryID, entry.TableName, entry.RecordID, string(entry.Action),
		jsonOrNull(entry.OldValues), jsonOrNull(entry.NewValues), entry.ActorID, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry for %s/%s: %w", entry.TableName, entry.RecordID, err)
	}
	return nil
}

// ListRecordHistory retrieves a record's entries oldest first.
func (r *PgxAuditRepository) ListRecordHistory(ctx context.Context, tableName, recordID string) ([]domain.AuditLogEntry, error) {
	return r.list(ctx, `SELECT `+auditColumns+` FROM audit_log
		WHERE table_name = $1 AND record_id = $2 ORDER BY seq`, tableName, recordID)
}

// ListTableHistory retrieves a table's entries newest first.
func (r *PgxAuditRepository) ListTableHistory(ctx context.Context, tableName string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error) {
	return r.listWindow(ctx, "table_name", tableName, window, limit)
}

// ListActorActivity retrieves an actor's entries newest first.
func (r *PgxAuditRepository) ListActorActivity(ctx context.Context, actorID string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error) {
	return r.listWindow(ctx, "actor_id", actorID, window, limit)
}

func (r *PgxAuditRepository) listWindow(ctx context.Context, column, value string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE ` + column + ` = $1`
	args := []any{value}
	if !window.From.IsZero() {
		args = append(args, window.From)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if !window.To.IsZero() {
		args = append(args, window.To)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY seq DESC LIMIT $%d`, len(args))
	return r.list(ctx, query, args...)
}

func (r *PgxAuditRepository) list(ctx context.Context, query string, args ...any) ([]domain.AuditLogEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditLogEntry{}
	for rows.Next() {
		var (
			e         domain.AuditLogEntry
			action    string
			oldValues []byte
			newValues []byte
		)
		if err := rows.Scan(&e.EntryID, &e.TableName, &e.RecordID, &action, &oldValues, &newValues, &e.ActorID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		e.Action = domain.AuditAction(action)
		e.OldValues = oldValues
		e.NewValues = newValues
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return entries, nil
}
