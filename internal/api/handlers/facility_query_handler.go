package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/application/services"
	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
)

const (
	actionSearchFacilities   = "search_facilities"
	actionGetFacilityDetails = "get_facility_details"
	actionGetFacilityMetrics = "get_facility_metrics"
)

// FacilityQueryService defines the structured-query operations used by the handler.
type FacilityQueryService interface {
	Search(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error)
	GetDetails(ctx context.Context, id string) (*entities.Facility, error)
	GetMetrics(ctx context.Context, facilityID string) (*services.FacilityMetrics, error)
	RecordFacilityView(ctx context.Context, facilityID string, userID *string) error
}

// SearchCapturer persists rendered-search snapshots; capture is best-effort.
type SearchCapturer interface {
	Capture(ctx context.Context, query string, results json.RawMessage, userID *string)
}

// FacilityQueryHandler multiplexes facility query actions over one endpoint.
type FacilityQueryHandler struct {
	service FacilityQueryService
	capture SearchCapturer
}

// NewFacilityQueryHandler creates a new facility query handler.
func NewFacilityQueryHandler(service FacilityQueryService, capture SearchCapturer) *FacilityQueryHandler {
	return &FacilityQueryHandler{service: service, capture: capture}
}

type facilityQueryPayload struct {
	Action   string   `json:"action"`
	Location string   `json:"location,omitempty"`
	CareType string   `json:"care_type,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`

	FacilityID string `json:"facility_id,omitempty"`

	UserID *string `json:"user_id,omitempty"`
}

// HandleQuery handles POST /api/facilities/query
func (h *FacilityQueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var payload facilityQueryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	switch payload.Action {
	case actionSearchFacilities:
		h.searchFacilities(w, r, payload)
	case actionGetFacilityDetails:
		h.getFacilityDetails(w, r, payload)
	case actionGetFacilityMetrics:
		h.getFacilityMetrics(w, r, payload)
	default:
		respondWithError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *FacilityQueryHandler) searchFacilities(w http.ResponseWriter, r *http.Request, payload facilityQueryPayload) {
	filter := repositories.FacilityFilter{
		Location: payload.Location,
		CareType: payload.CareType,
		PriceMin: payload.PriceMin,
		PriceMax: payload.PriceMax,
	}

	facilities, err := h.service.Search(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, publicMessage(err, "facility search failed"))
		return
	}

	if h.capture != nil && len(facilities) > 0 {
		if results, marshalErr := json.Marshal(facilities); marshalErr == nil {
			h.capture.Capture(r.Context(), searchQueryText(payload), results, payload.UserID)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"facilities": facilities,
	})
}

func (h *FacilityQueryHandler) getFacilityDetails(w http.ResponseWriter, r *http.Request, payload facilityQueryPayload) {
	facility, err := h.service.GetDetails(r.Context(), payload.FacilityID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, publicMessage(err, "failed to fetch facility"))
		return
	}

	if err := h.service.RecordFacilityView(r.Context(), facility.ID, payload.UserID); err != nil {
		log.Warn().Err(err).Str("facility_id", facility.ID).Msg("failed to record facility view")
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"facility": facility,
	})
}

func (h *FacilityQueryHandler) getFacilityMetrics(w http.ResponseWriter, r *http.Request, payload facilityQueryPayload) {
	metrics, err := h.service.GetMetrics(r.Context(), payload.FacilityID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, publicMessage(err, "failed to fetch facility metrics"))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"metrics": metrics,
	})
}

// searchQueryText renders the capture query text from the filter fields.
func searchQueryText(payload facilityQueryPayload) string {
	query := payload.CareType
	if query == "" {
		query = "facilities"
	}
	if payload.Location != "" {
		query += " in " + payload.Location
	}
	return query
}
