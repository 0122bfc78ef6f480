package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

const searchResultsTable = "search_results"

// SearchSnapshotAdapter implements SearchSnapshotRepository over Postgres
type SearchSnapshotAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchSnapshotAdapter creates a new snapshot adapter
func NewSearchSnapshotAdapter(client *postgres.Client) repositories.SearchSnapshotRepository {
	return &SearchSnapshotAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a search snapshot row
func (a *SearchSnapshotAdapter) Create(ctx context.Context, snapshot *entities.SearchSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":         snapshot.ID,
		"query":      snapshot.Query,
		"results":    string(snapshot.Results),
		"user_id":    nullString(snapshot.UserID),
		"created_at": snapshot.CreatedAt,
	}

	query, args, err := a.db.Insert(searchResultsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create search snapshot", err)
	}

	return nil
}
