package repositories

import (
	"context"
	"encoding/json"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
)

// RawResultRepository stores verbatim provider payloads for later parsing.
type RawResultRepository interface {
	// Store inserts the payload with parsing status "new".
	Store(ctx context.Context, searchRequestID string, payload json.RawMessage) (*entities.RawSearchResult, error)

	// GetByID retrieves a stored payload.
	GetByID(ctx context.Context, id string) (*entities.RawSearchResult, error)
}
