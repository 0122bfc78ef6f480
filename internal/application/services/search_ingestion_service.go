package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/providers"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/observability"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

const (
	inflightKeyPrefix = "search:inflight:"
	inflightLockTTL   = 120 // seconds
)

// SearchIngestionService orchestrates one external search: ledger entry,
// provider call, raw capture. The ledger row always reaches a terminal state
// or is left failed with a summary.
type SearchIngestionService struct {
	requests        repositories.SearchRequestRepository
	rawResults      repositories.RawResultRepository
	provider        providers.PlacesProvider
	cache           providers.CacheProvider
	metrics         *observability.Metrics
	defaultLocation string
}

// NewSearchIngestionService creates a new ingestion service
func NewSearchIngestionService(
	requests repositories.SearchRequestRepository,
	rawResults repositories.RawResultRepository,
	provider providers.PlacesProvider,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
	defaultLocation string,
) *SearchIngestionService {
	return &SearchIngestionService{
		requests:        requests,
		rawResults:      rawResults,
		provider:        provider,
		cache:           cache,
		metrics:         metrics,
		defaultLocation: defaultLocation,
	}
}

// Ingest runs the full pipeline for one criteria set and returns the ledger
// entry ID. A concurrent ingestion for logically equal criteria returns a
// conflict error without touching the ledger.
func (s *SearchIngestionService) Ingest(ctx context.Context, criteria map[string]any, agentID *string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "SearchIngestionService.Ingest")
	defer span.End()

	if len(criteria) == 0 {
		return "", apperrors.NewValidationError("search criteria are required")
	}

	fingerprint := entities.FingerprintCriteria(criteria)
	observability.SetSpanAttributes(span, attribute.String("search.criteria_fingerprint", fingerprint))

	if s.cache != nil {
		lockKey := inflightKeyPrefix + fingerprint
		acquired, err := s.cache.SetIfAbsent(ctx, lockKey, []byte("1"), inflightLockTTL)
		if err != nil {
			// The lock is an optimization; a cache outage must not block ingestion.
			log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("in-flight lock unavailable, proceeding without it")
		} else if !acquired {
			observability.RecordIngestion(ctx, s.metrics, "duplicate")
			return "", apperrors.NewConflictError("an identical search is already in flight")
		} else {
			defer func() {
				if err := s.cache.Delete(context.Background(), lockKey); err != nil {
					log.Warn().Err(err).Str("key", lockKey).Msg("failed to release in-flight lock")
				}
			}()
		}
	}

	request, err := s.requests.Create(ctx, criteria, agentID)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordIngestion(ctx, s.metrics, "error")
		return "", err
	}

	query := s.buildQuery(criteria)
	log.Info().
		Str("search_request_id", request.ID).
		Str("query", query).
		Msg("dispatching external search")

	if err := s.requests.MarkProcessing(ctx, request.ID, query); err != nil {
		observability.RecordError(span, err)
		observability.RecordIngestion(ctx, s.metrics, "error")
		return request.ID, err
	}

	_, rawBody, err := s.provider.Search(ctx, query)
	if err != nil {
		s.failRequest(ctx, request.ID, fmt.Sprintf("provider call failed: %v", err))
		observability.RecordError(span, err)
		observability.RecordIngestion(ctx, s.metrics, "failed")
		return request.ID, err
	}

	if _, err := s.rawResults.Store(ctx, request.ID, rawBody); err != nil {
		s.failRequest(ctx, request.ID, fmt.Sprintf("raw result store failed: %v", err))
		observability.RecordError(span, err)
		observability.RecordIngestion(ctx, s.metrics, "failed")
		return request.ID, err
	}

	if err := s.requests.MarkComplete(ctx, request.ID); err != nil {
		observability.RecordError(span, err)
		observability.RecordIngestion(ctx, s.metrics, "error")
		return request.ID, err
	}

	observability.RecordIngestion(ctx, s.metrics, "complete")
	log.Info().Str("search_request_id", request.ID).Msg("search ingestion complete")
	return request.ID, nil
}

// GetRequest returns the ledger entry for status polling.
func (s *SearchIngestionService) GetRequest(ctx context.Context, id string) (*entities.SearchRequest, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("search request id is required")
	}
	return s.requests.GetByID(ctx, id)
}

// buildQuery renders the provider query text. An explicit search_query
// criterion wins; otherwise the query is assembled from care type and
// location, falling back to the configured default location.
func (s *SearchIngestionService) buildQuery(criteria map[string]any) string {
	if q, ok := criteria["search_query"].(string); ok && strings.TrimSpace(q) != "" {
		return strings.TrimSpace(q)
	}

	careType := "senior living facilities"
	if ct, ok := criteria["care_type"].(string); ok && strings.TrimSpace(ct) != "" {
		careType = strings.TrimSpace(ct) + " facilities"
	}

	location := s.defaultLocation
	if loc, ok := criteria["location"].(string); ok && strings.TrimSpace(loc) != "" {
		location = strings.TrimSpace(loc)
	}

	return careType + " in " + location
}

func (s *SearchIngestionService) failRequest(ctx context.Context, id, summary string) {
	if err := s.requests.MarkFailed(ctx, id, summary); err != nil {
		log.Error().Err(err).Str("search_request_id", id).Msg("failed to mark search request failed")
	}
}
