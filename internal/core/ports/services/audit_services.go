package services

import (
	"context"

	"github.com/SscSPs/finledger/internal/core/domain"
	"github.com/SscSPs/finledger/internal/core/ports/repositories"
)

// AuditWriterSvc records state changes. Snapshots are masked and serialized to JSON.
type AuditWriterSvc interface {
	LogChange(ctx context.Context, actorID, tableName, recordID string, action domain.AuditAction, oldValues, newValues any) error

	// LogChangeInTx writes the entry through a transaction-bound repository so it
	// commits or rolls back with the caller's work.
	LogChangeInTx(ctx context.Context, repo repositories.AuditRepository, actorID, tableName, recordID string, action domain.AuditAction, oldValues, newValues any) error
}

// AuditReaderSvc queries the audit log.
type AuditReaderSvc interface {
	History(ctx context.Context, tableName, recordID string) ([]domain.AuditLogEntry, error)
	TableHistory(ctx context.Context, tableName string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error)
	ActorActivity(ctx context.Context, actorID string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error)
}

// AuditSvcFacade combines all audit-related service interfaces
type AuditSvcFacade interface {
	AuditWriterSvc
	AuditReaderSvc
}
