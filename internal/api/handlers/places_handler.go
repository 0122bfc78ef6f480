package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/providers"
)

// PlacesHandler serves client-side place lookups. Provider failures degrade
// to an empty list; this endpoint never propagates provider errors.
type PlacesHandler struct {
	provider providers.PlacesProvider
}

// NewPlacesHandler creates a new places handler.
func NewPlacesHandler(provider providers.PlacesProvider) *PlacesHandler {
	return &PlacesHandler{provider: provider}
}

// SearchPlaces handles GET /api/places/search
func (h *PlacesHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	places, _, err := h.provider.Search(r.Context(), query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("place lookup failed, returning empty list")
		places = []entities.Place{}
	}
	if places == nil {
		places = []entities.Place{}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"places": places,
	})
}
