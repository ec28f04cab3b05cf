package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
)

type auditRepository struct {
	db queryer
}

var _ portsrepo.AuditRepository = (*auditRepository)(nil)

const auditColumns = `entry_id, table_name, record_id, action, old_values, new_values, actor_id, created_at`

func (r *auditRepository) AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (`+auditColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EntryID, entry.TableName, entry.RecordID, string(entry.Action),
		nullString(string(entry.OldValues)), nullString(string(entry.NewValues)),
		entry.ActorID, formatTimestamp(entry.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry for %s/%s: %w", entry.TableName, entry.RecordID, err)
	}
	return nil
}

func (r *auditRepository) ListRecordHistory(ctx context.Context, tableName, recordID string) ([]domain.AuditLogEntry, error) {
	return r.list(ctx, `SELECT `+auditColumns+` FROM audit_log
		WHERE table_name = ? AND record_id = ? ORDER BY seq`, tableName, recordID)
}

func (r *auditRepository) ListTableHistory(ctx context.Context, tableName string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error) {
	where, args := windowClause("table_name = ?", []any{tableName}, window)
	return r.list(ctx, `SELECT `+auditColumns+` FROM audit_log WHERE `+where+
		` ORDER BY seq DESC LIMIT ?`, append(args, limit)...)
}

func (r *auditRepository) ListActorActivity(ctx context.Context, actorID string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error) {
	where, args := windowClause("actor_id = ?", []any{actorID}, window)
	return r.list(ctx, `SELECT `+auditColumns+` FROM audit_log WHERE `+where+
		` ORDER BY seq DESC LIMIT ?`, append(args, limit)...)
}

func windowClause(where string, args []any, window domain.TimeWindow) (string, []any) {
	if !window.From.IsZero() {
		where += ` AND created_at >= ?`
		args = append(args, formatTimestamp(window.From))
	}
	if !window.To.IsZero() {
		where += ` AND created_at <= ?`
		args = append(args, formatTimestamp(window.To))
	}
	return where, args
}

func (r *auditRepository) list(ctx context.Context, query string, args ...any) ([]domain.AuditLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditLogEntry{}
	for rows.Next() {
		var (
			e         domain.AuditLogEntry
			action    string
			oldValues sql.NullString
			newValues sql.NullString
			createdAt string
		)
		if err := rows.Scan(&e.EntryID, &e.TableName, &e.RecordID, &action, &oldValues, &newValues, &e.ActorID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		e.Action = domain.AuditAction(action)
		if oldValues.Valid {
			e.OldValues = []byte(oldValues.String)
		}
		if newValues.Valid {
			e.NewValues = []byte(newValues.String)
		}
		if e.Timestamp, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}
	return entries, nil
}
