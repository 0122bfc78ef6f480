package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

const searchRequestsTable = "user_search_requests"

// SearchRequestAdapter implements the SearchRequestRepository ledger over
// Postgres. Status guards in the UPDATE predicates keep transitions
// one-directional even under concurrent writers.
type SearchRequestAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchRequestAdapter creates a new search request adapter
func NewSearchRequestAdapter(client *postgres.Client) repositories.SearchRequestRepository {
	return &SearchRequestAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new pending ledger entry
func (a *SearchRequestAdapter) Create(ctx context.Context, criteria map[string]any, agentID *string) (*entities.SearchRequest, error) {
	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to serialize search criteria", err)
	}

	now := time.Now()
	request := &entities.SearchRequest{
		ID:                  uuid.New().String(),
		AgentID:             agentID,
		SearchCriteria:      criteria,
		Status:              entities.SearchRequestPending,
		CriteriaFingerprint: entities.FingerprintCriteria(criteria),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	record := goqu.Record{
		"id":                   request.ID,
		"agent_id":             nullString(agentID),
		"search_criteria":      string(criteriaJSON),
		"status":               string(request.Status),
		"serpapi_query_sent":   sql.NullString{},
		"error_summary":        sql.NullString{},
		"criteria_fingerprint": request.CriteriaFingerprint,
		"created_at":           request.CreatedAt,
		"updated_at":           request.UpdatedAt,
	}

	query, args, err := a.db.Insert(searchRequestsTable).Rows(record).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to create search request", err)
	}

	return request, nil
}

// GetByID retrieves a ledger entry by ID
func (a *SearchRequestAdapter) GetByID(ctx context.Context, id string) (*entities.SearchRequest, error) {
	query, args, err := a.db.Select(
		"id", "agent_id", "search_criteria", "status", "serpapi_query_sent",
		"error_summary", "criteria_fingerprint", "created_at", "updated_at",
	).From(searchRequestsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	request := &entities.SearchRequest{}
	var agentID, querySent, errorSummary sql.NullString
	var criteriaJSON []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&request.ID,
		&agentID,
		&criteriaJSON,
		&request.Status,
		&querySent,
		&errorSummary,
		&request.CriteriaFingerprint,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("search request with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get search request", err)
	}

	if len(criteriaJSON) > 0 {
		if err := json.Unmarshal(criteriaJSON, &request.SearchCriteria); err != nil {
			return nil, apperrors.NewInternalError("failed to decode search criteria", err)
		}
	}
	request.AgentID = stringPtr(agentID)
	request.SerpAPIQuerySent = stringPtr(querySent)
	request.ErrorSummary = stringPtr(errorSummary)

	return request, nil
}

// MarkProcessing advances a pending entry to processing, recording the exact
// dispatched query text. The query text is written exactly once.
func (a *SearchRequestAdapter) MarkProcessing(ctx context.Context, id, queryText string) error {
	return a.transition(ctx, id, goqu.Record{
		"status":             string(entities.SearchRequestProcessing),
		"serpapi_query_sent": queryText,
		"updated_at":         time.Now(),
	}, []string{string(entities.SearchRequestPending)})
}

// MarkComplete advances a processing entry to complete
func (a *SearchRequestAdapter) MarkComplete(ctx context.Context, id string) error {
	return a.transition(ctx, id, goqu.Record{
		"status":     string(entities.SearchRequestComplete),
		"updated_at": time.Now(),
	}, []string{string(entities.SearchRequestProcessing)})
}

// MarkFailed moves any non-terminal entry to the terminal failed state
func (a *SearchRequestAdapter) MarkFailed(ctx context.Context, id, summary string) error {
	return a.transition(ctx, id, goqu.Record{
		"status":        string(entities.SearchRequestFailed),
		"error_summary": summary,
		"updated_at":    time.Now(),
	}, []string{
		string(entities.SearchRequestPending),
		string(entities.SearchRequestProcessing),
	})
}

func (a *SearchRequestAdapter) transition(ctx context.Context, id string, record goqu.Record, fromStatuses []string) error {
	query, args, err := a.db.Update(searchRequestsTable).
		Set(record).
		Where(goqu.Ex{"id": id, "status": fromStatuses}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update search request", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("search request with id %s not found in expected state", id))
	}

	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
