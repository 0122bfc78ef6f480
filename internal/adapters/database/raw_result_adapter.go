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

const rawResultsTable = "serperapi_raw_results"

// RawResultAdapter implements RawResultRepository over Postgres
type RawResultAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRawResultAdapter creates a new raw result adapter
func NewRawResultAdapter(client *postgres.Client) repositories.RawResultRepository {
	return &RawResultAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Store inserts the verbatim provider payload with parsing status "new"
func (a *RawResultAdapter) Store(ctx context.Context, searchRequestID string, payload json.RawMessage) (*entities.RawSearchResult, error) {
	result := &entities.RawSearchResult{
		ID:              uuid.New().String(),
		SearchRequestID: searchRequestID,
		RawResponse:     payload,
		ParsingStatus:   entities.ParsingStatusNew,
		CreatedAt:       time.Now(),
	}

	record := goqu.Record{
		"id":                result.ID,
		"search_request_id": result.SearchRequestID,
		"raw_response":      string(payload),
		"parsing_status":    string(result.ParsingStatus),
		"created_at":        result.CreatedAt,
	}

	query, args, err := a.db.Insert(rawResultsTable).Rows(record).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to store raw search result", err)
	}

	return result, nil
}

// GetByID retrieves a stored payload by ID
func (a *RawResultAdapter) GetByID(ctx context.Context, id string) (*entities.RawSearchResult, error) {
	query, args, err := a.db.Select(
		"id", "search_request_id", "raw_response", "parsing_status", "created_at",
	).From(rawResultsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	result := &entities.RawSearchResult{}
	var raw []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&result.ID,
		&result.SearchRequestID,
		&raw,
		&result.ParsingStatus,
		&result.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("raw result with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get raw result", err)
	}

	result.RawResponse = json.RawMessage(raw)
	return result, nil
}
