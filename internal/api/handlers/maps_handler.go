package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/maps"
)

// MapsHandler serves map rendering configuration to clients.
type MapsHandler struct {
	loader *maps.Loader
}

// NewMapsHandler creates a new maps handler.
func NewMapsHandler(loader *maps.Loader) *MapsHandler {
	return &MapsHandler{loader: loader}
}

// GetMapConfig handles GET /api/maps/config
func (h *MapsHandler) GetMapConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("map configuration load failed")
		respondWithError(w, http.StatusServiceUnavailable, "map configuration unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, cfg)
}
