package entities

import (
	"encoding/json"
	"time"
)

// ParsingStatus tags a raw provider payload with its extraction state.
type ParsingStatus string

const (
	// ParsingStatusNew marks a payload that has not been structured yet.
	ParsingStatusNew ParsingStatus = "new"
	// ParsingStatusParsed marks a payload whose facilities were extracted.
	ParsingStatusParsed ParsingStatus = "parsed"
	// ParsingStatusFailed marks a payload the parser could not process.
	ParsingStatusFailed ParsingStatus = "failed"
)

// RawSearchResult stores the verbatim provider response for a ledger entry.
// The shape permits many rows per request; the ingestion flow writes exactly one.
type RawSearchResult struct {
	ID              string          `json:"id" db:"id"`
	SearchRequestID string          `json:"search_request_id" db:"search_request_id"`
	RawResponse     json.RawMessage `json:"raw_response" db:"raw_response"`
	ParsingStatus   ParsingStatus   `json:"parsing_status" db:"parsing_status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
