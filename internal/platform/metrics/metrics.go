// Package metrics holds the Prometheus collectors of the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Record outcomes.
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Rate resolution paths.
const (
	RatePathIdentity = "identity"
	RatePathCache    = "cache"
	RatePathExact    = "exact"
	RatePathPrior    = "prior"
	RatePathInverse  = "inverse"
	RatePathMissing  = "missing"
)

var (
	// RecordsTotal counts Record calls by outcome and source type.
	RecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finledger",
		Name:      "records_total",
		Help:      "Normalized records processed, by outcome and source type.",
	}, []string{"outcome", "source_type"})

	// JournalsCreated counts persisted journals, reversals included.
	JournalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finledger",
		Name:      "journals_created_total",
		Help:      "Journals written to the ledger.",
	})

	// JournalsReversed counts successful reversals.
	JournalsReversed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finledger",
		Name:      "journals_reversed_total",
		Help:      "Journals reversed.",
	})

	// UnbalancedRejections counts journals rejected for not balancing.
	UnbalancedRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finledger",
		Name:      "unbalanced_rejections_total",
		Help:      "Journals rejected because debits and credits differ beyond tolerance.",
	})

	// RateLookups counts exchange rate resolutions by path.
	RateLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finledger",
		Name:      "rate_lookups_total",
		Help:      "Exchange rate resolutions by resolution path.",
	}, []string{"path"})
)
