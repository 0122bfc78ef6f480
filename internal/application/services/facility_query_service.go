package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/observability"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

const metricsWindowDays = 30

// FacilityMetrics summarizes recent engagement with one facility.
type FacilityMetrics struct {
	FacilityID string                     `json:"facility_id"`
	ViewCount  int                        `json:"view_count"`
	Since      time.Time                  `json:"since"`
	Events     []*entities.AnalyticsEvent `json:"events"`
}

// FacilityQueryService answers structured facility queries.
type FacilityQueryService struct {
	facilities repositories.FacilityRepository
	analytics  repositories.AnalyticsRepository
}

// NewFacilityQueryService creates a new facility query service
func NewFacilityQueryService(
	facilities repositories.FacilityRepository,
	analytics repositories.AnalyticsRepository,
) *FacilityQueryService {
	return &FacilityQueryService{
		facilities: facilities,
		analytics:  analytics,
	}
}

// Search returns active facilities matching the conjunctive filter.
func (s *FacilityQueryService) Search(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	ctx, span := observability.StartSpan(ctx, "FacilityQueryService.Search")
	defer span.End()

	if filter.PriceMin != nil && filter.PriceMax != nil && *filter.PriceMin > *filter.PriceMax {
		return nil, apperrors.NewValidationError("price_min must not exceed price_max")
	}

	facilities, err := s.facilities.Search(ctx, filter)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span, attribute.Int("facility.result_count", len(facilities)))
	return facilities, nil
}

// GetDetails returns one facility with its full join graph.
func (s *FacilityQueryService) GetDetails(ctx context.Context, id string) (*entities.Facility, error) {
	ctx, span := observability.StartSpan(ctx, "FacilityQueryService.GetDetails")
	defer span.End()

	if id == "" {
		return nil, apperrors.NewValidationError("facility id is required")
	}

	facility, err := s.facilities.GetDetails(ctx, id)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return facility, nil
}

// GetMetrics returns view engagement for a facility over the trailing window.
func (s *FacilityQueryService) GetMetrics(ctx context.Context, facilityID string) (*FacilityMetrics, error) {
	ctx, span := observability.StartSpan(ctx, "FacilityQueryService.GetMetrics")
	defer span.End()

	if facilityID == "" {
		return nil, apperrors.NewValidationError("facility id is required")
	}

	since := time.Now().AddDate(0, 0, -metricsWindowDays)
	events, err := s.analytics.GetFacilityMetrics(ctx, facilityID, since)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	return &FacilityMetrics{
		FacilityID: facilityID,
		ViewCount:  len(events),
		Since:      since,
		Events:     events,
	}, nil
}

// RecordFacilityView logs a facility view analytics event. Failures are
// logged by the caller and never block the read path.
func (s *FacilityQueryService) RecordFacilityView(ctx context.Context, facilityID string, userID *string) error {
	return s.analytics.LogEvent(ctx, &entities.AnalyticsEvent{
		EventType: entities.EventTypeFacilityViewed,
		UserID:    userID,
		Metadata:  map[string]any{"facility_id": facilityID},
	})
}
