package repositories

import (
	"context"
	"time"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
)

// AnalyticsRepository persists and queries analytics events.
type AnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.AnalyticsEvent) error

	// GetFacilityMetrics returns events whose metadata references the facility,
	// created at or after since.
	GetFacilityMetrics(ctx context.Context, facilityID string, since time.Time) ([]*entities.AnalyticsEvent, error)
}
