package repositories

import (
	"context"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
)

// SearchRequestRepository is the ledger of external search requests. Status
// moves one-directionally: pending, processing, then complete or failed.
type SearchRequestRepository interface {
	// Create inserts a new pending entry and returns it with identity assigned.
	Create(ctx context.Context, criteria map[string]any, agentID *string) (*entities.SearchRequest, error)

	// GetByID retrieves a ledger entry.
	GetByID(ctx context.Context, id string) (*entities.SearchRequest, error)

	// MarkProcessing sets status processing and records the exact dispatched
	// query text. Must succeed before the external provider is called.
	MarkProcessing(ctx context.Context, id, queryText string) error

	// MarkComplete sets status complete. Called only after the raw result is
	// durably stored.
	MarkComplete(ctx context.Context, id string) error

	// MarkFailed sets the terminal failed status with an error summary.
	MarkFailed(ctx context.Context, id, summary string) error
}
