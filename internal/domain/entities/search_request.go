package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// SearchRequestStatus is the lifecycle state of a ledger entry.
type SearchRequestStatus string

const (
	SearchRequestPending    SearchRequestStatus = "pending"
	SearchRequestProcessing SearchRequestStatus = "processing"
	SearchRequestComplete   SearchRequestStatus = "complete"
	SearchRequestFailed     SearchRequestStatus = "failed"
)

// SearchRequest is the durable ledger record of one initiated external search.
// Rows are created on submission, mutated only by the ingestion pipeline, and
// never deleted.
type SearchRequest struct {
	ID                  string              `json:"id" db:"id"`
	AgentID             *string             `json:"agent_id,omitempty" db:"agent_id"`
	SearchCriteria      map[string]any      `json:"search_criteria" db:"-"`
	Status              SearchRequestStatus `json:"status" db:"status"`
	SerpAPIQuerySent    *string             `json:"serpapi_query_sent,omitempty" db:"serpapi_query_sent"`
	ErrorSummary        *string             `json:"error_summary,omitempty" db:"error_summary"`
	CriteriaFingerprint string              `json:"criteria_fingerprint" db:"criteria_fingerprint"`
	CreatedAt           time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" db:"updated_at"`
}

// CanTransition reports whether moving to next is a legal one-directional step.
// failed is reachable from any non-terminal state.
func (s SearchRequestStatus) CanTransition(next SearchRequestStatus) bool {
	switch s {
	case SearchRequestPending:
		return next == SearchRequestProcessing || next == SearchRequestFailed
	case SearchRequestProcessing:
		return next == SearchRequestComplete || next == SearchRequestFailed
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s SearchRequestStatus) Terminal() bool {
	return s == SearchRequestComplete || s == SearchRequestFailed
}

// FingerprintCriteria produces a stable hash of search criteria for
// at-most-one-in-flight coordination. Keys are sorted so that logically equal
// criteria maps hash identically.
func FingerprintCriteria(criteria map[string]any) string {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		if v, err := json.Marshal(criteria[k]); err == nil {
			b.Write(v)
		}
		b.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
