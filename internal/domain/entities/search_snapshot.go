package entities

import (
	"encoding/json"
	"time"
)

// SearchSnapshot is a de-normalized copy of one rendered search: the query text
// and the serialized result list, independent of structured facility data.
type SearchSnapshot struct {
	ID        string          `json:"id" db:"id"`
	Query     string          `json:"query" db:"query"`
	Results   json.RawMessage `json:"results" db:"results"`
	UserID    *string         `json:"user_id,omitempty" db:"user_id"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
