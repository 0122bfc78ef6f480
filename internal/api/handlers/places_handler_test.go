package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

type stubPlaces struct {
	places []entities.Place
	err    error
}

func (s *stubPlaces) Search(ctx context.Context, query string) ([]entities.Place, json.RawMessage, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.places, nil, nil
}

func TestSearchPlaces(t *testing.T) {
	handler := NewPlacesHandler(&stubPlaces{
		places: []entities.Place{{Title: "Desert Bloom Senior Living", Address: "Phoenix, AZ"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/places/search?q=assisted+living", nil)
	rec := httptest.NewRecorder()

	handler.SearchPlaces(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Places []entities.Place `json:"places"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Places, 1)
	assert.Equal(t, "Desert Bloom Senior Living", resp.Places[0].Title)
}

func TestSearchPlaces_ProviderFailureDegradesToEmpty(t *testing.T) {
	handler := NewPlacesHandler(&stubPlaces{
		err: apperrors.NewExternalError("provider unreachable", nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/places/search?q=assisted+living", nil)
	rec := httptest.NewRecorder()

	handler.SearchPlaces(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Places []entities.Place `json:"places"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Places)
}

func TestSearchPlaces_MissingQuery(t *testing.T) {
	handler := NewPlacesHandler(&stubPlaces{})

	req := httptest.NewRequest(http.MethodGet, "/api/places/search", nil)
	rec := httptest.NewRecorder()

	handler.SearchPlaces(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
