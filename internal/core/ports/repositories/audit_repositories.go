package repositories

import (
	"context"

	"github.com/SscSPs/finledger/internal/core/domain"
)

// AuditRepository is the append-only audit store. It deliberately has no update or delete.
type AuditRepository interface {
	AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error

	// ListRecordHistory returns entries for one record, oldest first.
	ListRecordHistory(ctx context.Context, tableName, recordID string) ([]domain.AuditLogEntry, error)

	// ListTableHistory returns entries for a table inside the window, newest first.
	ListTableHistory(ctx context.Context, tableName string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error)

	// ListActorActivity returns entries written by actorID inside the window, newest first.
	ListActorActivity(ctx context.Context, actorID string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error)
}
