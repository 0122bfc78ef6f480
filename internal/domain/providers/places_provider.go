package providers

import (
	"context"
	"encoding/json"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
)

// PlacesProvider issues a places-text-search against the external provider.
type PlacesProvider interface {
	// Search performs one (retried) provider call and returns the normalized
	// places list plus the verbatim response body for the raw store.
	Search(ctx context.Context, query string) ([]entities.Place, json.RawMessage, error)
}
