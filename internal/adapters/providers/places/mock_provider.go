package places

import (
	"context"
	"encoding/json"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/providers"
)

// MockPlacesProvider returns canned results for local development when no
// provider API key is configured.
type MockPlacesProvider struct{}

// NewMockPlacesProvider creates a mock provider
func NewMockPlacesProvider() providers.PlacesProvider {
	return &MockPlacesProvider{}
}

// Search returns a fixed set of places regardless of the query
func (p *MockPlacesProvider) Search(ctx context.Context, query string) ([]entities.Place, json.RawMessage, error) {
	phone := "(602) 555-0142"
	website := "https://example.com/desert-bloom"
	rating := 4.6
	reviews := 87

	places := []entities.Place{
		{
			Title:       "Desert Bloom Senior Living",
			Address:     "1800 E Camelback Rd, Phoenix, AZ 85016",
			PhoneNumber: &phone,
			Website:     &website,
			Rating:      &rating,
			ReviewCount: &reviews,
		},
		{
			Title:   "Sunrise Care Cottage",
			Address: "42 W Thomas Rd, Phoenix, AZ 85013",
		},
	}

	raw, err := json.Marshal(map[string]any{
		"places": places,
		"query":  query,
		"mock":   true,
	})
	if err != nil {
		return nil, nil, err
	}

	return places, raw, nil
}
