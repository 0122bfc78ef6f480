package entities

import (
	"time"
)

// Analytics event types emitted by the search pipeline.
const (
	EventTypeSearchPerformed = "search_performed"
	EventTypeFacilityViewed  = "facility_viewed"
)

// AnalyticsEvent represents a single analytics interaction.
type AnalyticsEvent struct {
	ID        string         `json:"id" db:"id"`
	EventType string         `json:"event_type" db:"event_type"`
	UserID    *string        `json:"user_id,omitempty" db:"user_id"`
	Metadata  map[string]any `json:"metadata" db:"-"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
