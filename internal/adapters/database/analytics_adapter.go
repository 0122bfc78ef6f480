package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

const analyticsTable = "analytics"

// AnalyticsAdapter implements AnalyticsRepository over Postgres
type AnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAnalyticsAdapter creates a new analytics adapter
func NewAnalyticsAdapter(client *postgres.Client) repositories.AnalyticsRepository {
	return &AnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent appends an analytics event
func (a *AnalyticsAdapter) LogEvent(ctx context.Context, event *entities.AnalyticsEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return apperrors.NewValidationError("failed to marshal event metadata")
	}

	record := goqu.Record{
		"id":         event.ID,
		"event_type": string(event.EventType),
		"user_id":    nullString(event.UserID),
		"metadata":   string(metadata),
		"created_at": event.CreatedAt,
	}

	query, args, err := a.db.Insert(analyticsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log analytics event", err)
	}

	return nil
}

// GetFacilityMetrics returns view events for a facility since the given time
func (a *AnalyticsAdapter) GetFacilityMetrics(ctx context.Context, facilityID string, since time.Time) ([]*entities.AnalyticsEvent, error) {
	query, args, err := a.db.From(analyticsTable).
		Select("id", "event_type", "user_id", "metadata", "created_at").
		Where(
			goqu.Ex{"event_type": string(entities.EventTypeFacilityViewed)},
			goqu.L("metadata ->> 'facility_id' = ?", facilityID),
			goqu.C("created_at").Gte(since),
		).
		Order(goqu.C("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build metrics query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query facility metrics", err)
	}
	defer rows.Close()

	events := make([]*entities.AnalyticsEvent, 0)
	for rows.Next() {
		var (
			event       entities.AnalyticsEvent
			eventType   string
			userID      sql.NullString
			rawMetadata []byte
		)
		if err := rows.Scan(&event.ID, &eventType, &userID, &rawMetadata, &event.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan analytics event", err)
		}
		event.EventType = eventType
		event.UserID = stringPtr(userID)
		if len(rawMetadata) > 0 {
			if err := json.Unmarshal(rawMetadata, &event.Metadata); err != nil {
				return nil, apperrors.NewInternalError("failed to decode event metadata", err)
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read facility metrics", err)
	}

	return events, nil
}
