package routes

import (
	"net/http"

	"github.com/carebridge/seniorplacement/backend/internal/api/handlers"
	"github.com/carebridge/seniorplacement/backend/internal/api/middleware"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchIngestionHandler *handlers.SearchIngestionHandler
	facilityQueryHandler   *handlers.FacilityQueryHandler
	placesHandler          *handlers.PlacesHandler
	mapsHandler            *handlers.MapsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchIngestionHandler *handlers.SearchIngestionHandler,
	facilityQueryHandler *handlers.FacilityQueryHandler,
	placesHandler *handlers.PlacesHandler,
	mapsHandler *handlers.MapsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchIngestionHandler: searchIngestionHandler,
		facilityQueryHandler:   facilityQueryHandler,
		placesHandler:          placesHandler,
		mapsHandler:            mapsHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search ingestion endpoints
	r.mux.HandleFunc("POST /api/search-requests", r.searchIngestionHandler.SubmitSearchRequest)
	r.mux.HandleFunc("GET /api/search-requests/{id}", r.searchIngestionHandler.GetSearchRequest)

	// Facility query endpoint (action multiplexed)
	r.mux.HandleFunc("POST /api/facilities/query", r.facilityQueryHandler.HandleQuery)

	// Place lookup endpoint
	r.mux.HandleFunc("GET /api/places/search", r.placesHandler.SearchPlaces)

	// Maps endpoints
	if r.mapsHandler != nil {
		r.mux.HandleFunc("GET /api/maps/config", r.mapsHandler.GetMapConfig)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so preflight requests short-circuit with headers set.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
