package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// AuditAction is the kind of state change recorded in the audit log.
type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Valid reports whether a is INSERT, UPDATE or DELETE.
func (a AuditAction) Valid() bool {
	return a == AuditInsert || a == AuditUpdate || a == AuditDelete
}

// AuditLogEntry is an immutable record of a committed state change.
// OldValues and NewValues hold masked JSON snapshots, nil when absent.
type AuditLogEntry struct {
	EntryID   string          `json:"entryID"`
	TableName string          `json:"tableName"`
	RecordID  string          `json:"recordID"`
	Action    AuditAction     `json:"action"`
	OldValues json.RawMessage `json:"oldValues,omitempty"`
	NewValues json.RawMessage `json:"newValues,omitempty"`
	ActorID   string          `json:"actorID"`
	Timestamp time.Time       `json:"timestamp"`
}

// TimeWindow bounds a query in time. Zero From or To leaves that side open.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window (inclusive).
func (w TimeWindow) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// Audited tables.
const (
	TableAccounts      = "accounts"
	TableJournals      = "journals"
	TableExchangeRates = "exchange_rates"
)

// MaskValue keeps the last four characters of s and stars out the rest.
func MaskValue(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
