package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

// SearchIngestionService defines the ingestion operations used by the handler.
type SearchIngestionService interface {
	Ingest(ctx context.Context, criteria map[string]any, agentID *string) (string, error)
	GetRequest(ctx context.Context, id string) (*entities.SearchRequest, error)
}

// SearchIngestionHandler handles external search submissions.
type SearchIngestionHandler struct {
	service SearchIngestionService
}

// NewSearchIngestionHandler creates a new search ingestion handler.
func NewSearchIngestionHandler(service SearchIngestionService) *SearchIngestionHandler {
	return &SearchIngestionHandler{service: service}
}

type searchRequestPayload struct {
	SearchCriteria map[string]any `json:"search_criteria"`
	AgentID        *string        `json:"agent_id,omitempty"`
}

// SubmitSearchRequest handles POST /api/search-requests
func (h *SearchIngestionHandler) SubmitSearchRequest(w http.ResponseWriter, r *http.Request) {
	var payload searchRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request payload",
		})
		return
	}

	id, err := h.service.Ingest(r.Context(), payload.SearchCriteria, payload.AgentID)
	if err != nil {
		log.Error().Err(err).Str("search_request_id", id).Msg("search ingestion failed")
		status := http.StatusInternalServerError
		switch apperrors.TypeOf(err) {
		case apperrors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case apperrors.ErrorTypeConflict:
			status = http.StatusConflict
		}
		respondWithJSON(w, status, map[string]any{
			"success": false,
			"error":   publicMessage(err, "search request failed"),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"search_request_id": id,
		"message":           "search request completed",
	})
}

// GetSearchRequest handles GET /api/search-requests/{id}
func (h *SearchIngestionHandler) GetSearchRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "search request ID is required")
		return
	}

	request, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		respondWithError(w, statusForError(err), publicMessage(err, "failed to fetch search request"))
		return
	}

	respondWithJSON(w, http.StatusOK, request)
}
