package domain

import "time"

// IdempotencyRecord binds a transaction fingerprint to the journal it produced.
// JournalID is empty when the record was accepted but produced no journal.
type IdempotencyRecord struct {
	IdempotencyKey string    `json:"idempotencyKey"`
	SourceType     string    `json:"sourceType"`
	JournalID      string    `json:"journalID"`
	SourceFile     string    `json:"sourceFile"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TransactionResult is the outcome of recording one normalized record.
type TransactionResult struct {
	IdempotencyKey   string `json:"idempotencyKey"`
	JournalID        string `json:"journalID,omitempty"`
	WasNewlyRecorded bool   `json:"wasNewlyRecorded"`
}

// BatchFailure describes one record of a batch that could not be recorded.
type BatchFailure struct {
	Index          int    `json:"index"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	Reason         string `json:"reason"`
}

// BatchReport summarizes a batch ingestion. Skipped counts records accepted
// without producing a journal.
type BatchReport struct {
	Total      int            `json:"total"`
	Recorded   int            `json:"recorded"`
	Duplicates int            `json:"duplicates"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	Failures   []BatchFailure `json:"failures,omitempty"`
}
