package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finledger/internal/apperrors"
	"github.com/SscSPs/finledger/internal/core/domain"
	portsrepo "github.com/SscSPs/finledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/google/uuid"
)

// defaultAuditLimit caps TableHistory and ActorActivity when the caller passes no limit.
const defaultAuditLimit = 100

// sensitiveKeys are matched after lower-casing and dropping '_' and '-'.
var sensitiveKeys = map[string]struct{}{
	"pan":           {},
	"pannumber":     {},
	"accountnumber": {},
	"accountno":     {},
	"acctnumber":    {},
	"cardnumber":    {},
	"aadhaar":       {},
	"aadhar":        {},
	"aadhaarnumber": {},
	"uan":           {},
	"ifsc":          {},
	"ifsccode":      {},
	"password":      {},
	"secret":        {},
	"token":         {},
	"apikey":        {},
}

// sensitiveSuffixes catch compound names such as refresh_token or client_secret.
var sensitiveSuffixes = []string{"password", "secret", "token"}

func isSensitiveKey(key string) bool {
	k := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
	if _, ok := sensitiveKeys[k]; ok {
		return true
	}
	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(k, suffix) {
			return true
		}
	}
	return false
}

// maskTree walks a decoded JSON value. Every scalar below a sensitive key is masked.
func maskTree(v any, masking bool) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = maskTree(child, masking || isSensitiveKey(k))
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = maskTree(child, masking)
		}
		return t
	case string:
		if masking {
			return domain.MaskValue(t)
		}
		return t
	case json.Number:
		if masking {
			return domain.MaskValue(t.String())
		}
		return t
	default:
		return t
	}
}

// snapshot serializes v to JSON with sensitive fields masked. nil stays nil.
func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return json.Marshal(maskTree(tree, false))
}

type auditService struct {
	BaseService
	repo portsrepo.AuditRepository
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// NewAuditService creates the audit log service over the non-transactional repository.
func NewAuditService(repo portsrepo.AuditRepository) portssvc.AuditSvcFacade {
	return &auditService{repo: repo}
}

func (s *auditService) LogChange(ctx context.Context, actorID, tableName, recordID string, action domain.AuditAction, oldValues, newValues any) error {
	return s.LogChangeInTx(ctx, s.repo, actorID, tableName, recordID, action, oldValues, newValues)
}

func (s *auditService) LogChangeInTx(ctx context.Context, repo portsrepo.AuditRepository, actorID, tableName, recordID string, action domain.AuditAction, oldValues, newValues any) error {
	if !action.Valid() {
		return fmt.Errorf("%w: audit action must be INSERT, UPDATE or DELETE, got %q", apperrors.ErrValidation, action)
	}
	if tableName == "" || recordID == "" {
		return fmt.Errorf("%w: audit entry needs a table name and record ID", apperrors.ErrValidation)
	}
	if actorID == "" {
		return fmt.Errorf("%w: audit entry needs an actor ID", apperrors.ErrValidation)
	}

	oldJSON, err := snapshot(oldValues)
	if err != nil {
		return fmt.Errorf("%w: cannot serialize old values: %v", apperrors.ErrValidation, err)
	}
	newJSON, err := snapshot(newValues)
	if err != nil {
		return fmt.Errorf("%w: cannot serialize new values: %v", apperrors.ErrValidation, err)
	}

	entry := domain.AuditLogEntry{
		EntryID:   uuid.NewString(),
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		OldValues: oldJSON,
		NewValues: newJSON,
		ActorID:   actorID,
		Timestamp: s.Now(),
	}
	if err := repo.AppendAuditEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to append audit entry",
			slog.String("table", tableName), slog.String("record_id", recordID))
		return err
	}
	return nil
}

func (s *auditService) History(ctx context.Context, tableName, recordID string) ([]domain.AuditLogEntry, error) {
	return s.repo.ListRecordHistory(ctx, tableName, recordID)
}

func (s *auditService) TableHistory(ctx context.Context, tableName string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error) {
	return s.repo.ListTableHistory(ctx, tableName, window, auditLimit(limit))
}

func (s *auditService) ActorActivity(ctx context.Context, actorID string, window domain.TimeWindow, limit int) ([]domain.AuditLogEntry, error) {
	return s.repo.ListActorActivity(ctx, actorID, window, auditLimit(limit))
}

func auditLimit(limit int) int {
	if limit <= 0 {
		return defaultAuditLimit
	}
	return limit
}
