package repositories

import (
	"context"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
)

// FacilityFilter holds the conjunctive search filters. Nil/empty fields are
// not applied.
type FacilityFilter struct {
	Location string
	CareType string
	PriceMin *float64
	PriceMax *float64
}

// FacilityRepository reads structured facility records. This subsystem does
// not own the rows; it only queries them.
type FacilityRepository interface {
	// Search returns at most the engine's page size of matching facilities with
	// their related collections loaded. No match is an empty slice, not an error.
	Search(ctx context.Context, filter FacilityFilter) ([]*entities.Facility, error)

	// GetDetails fetches a single facility with its full join graph.
	GetDetails(ctx context.Context, id string) (*entities.Facility, error)
}
