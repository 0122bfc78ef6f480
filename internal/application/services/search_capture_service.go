package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
)

const captureDedupeWindow = 30 * time.Second

// SearchCaptureService persists rendered-search snapshots and the matching
// analytics event. Capture is best-effort: failures are logged and never
// surfaced to the caller.
type SearchCaptureService struct {
	snapshots repositories.SearchSnapshotRepository
	analytics repositories.AnalyticsRepository

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewSearchCaptureService creates a new capture service
func NewSearchCaptureService(
	snapshots repositories.SearchSnapshotRepository,
	analytics repositories.AnalyticsRepository,
) *SearchCaptureService {
	return &SearchCaptureService{
		snapshots: snapshots,
		analytics: analytics,
		seen:      make(map[string]time.Time),
	}
}

// Capture stores one rendered search. Empty queries and empty result sets are
// ignored, as are repeats of the same query and results inside the dedupe
// window.
func (s *SearchCaptureService) Capture(ctx context.Context, query string, results json.RawMessage, userID *string) {
	if query == "" || countResults(results) == 0 {
		return
	}

	if s.isDuplicate(query, results) {
		log.Debug().Str("query", query).Msg("skipping duplicate search capture")
		return
	}

	snapshot := &entities.SearchSnapshot{
		Query:   query,
		Results: results,
		UserID:  userID,
	}
	if err := s.snapshots.Create(ctx, snapshot); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("failed to store search snapshot")
		return
	}

	event := &entities.AnalyticsEvent{
		EventType: entities.EventTypeSearchPerformed,
		UserID:    userID,
		Metadata: map[string]any{
			"query":            query,
			"results_count":    countResults(results),
			"search_result_id": snapshot.ID,
		},
	}
	if err := s.analytics.LogEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("failed to log search analytics event")
	}
}

func (s *SearchCaptureService) isDuplicate(query string, results json.RawMessage) bool {
	sum := sha256.Sum256(append([]byte(query+"\x00"), results...))
	key := hex.EncodeToString(sum[:])
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, at := range s.seen {
		if now.Sub(at) > captureDedupeWindow {
			delete(s.seen, k)
		}
	}

	if at, ok := s.seen[key]; ok && now.Sub(at) <= captureDedupeWindow {
		return true
	}
	s.seen[key] = now
	return false
}

func countResults(results json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(results, &items); err != nil {
		return 0
	}
	return len(items)
}
