package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

func TestCapture(t *testing.T) {
	snapshots := &stubSnapshotRepo{}
	analytics := &stubAnalyticsRepo{}
	service := NewSearchCaptureService(snapshots, analytics)
	userID := "user-1"

	results := json.RawMessage(`[{"name": "Desert Bloom"}, {"name": "Sunrise Cottage"}]`)
	service.Capture(context.Background(), "assisted living phoenix", results, &userID)

	require.Len(t, snapshots.snapshots, 1)
	snapshot := snapshots.snapshots[0]
	assert.Equal(t, "assisted living phoenix", snapshot.Query)
	assert.JSONEq(t, string(results), string(snapshot.Results))

	require.Len(t, analytics.events, 1)
	event := analytics.events[0]
	assert.Equal(t, entities.EventTypeSearchPerformed, event.EventType)
	assert.Equal(t, "assisted living phoenix", event.Metadata["query"])
	assert.Equal(t, 2, event.Metadata["results_count"])
	assert.Equal(t, snapshot.ID, event.Metadata["search_result_id"])
}

func TestCapture_IgnoresEmptyInput(t *testing.T) {
	snapshots := &stubSnapshotRepo{}
	analytics := &stubAnalyticsRepo{}
	service := NewSearchCaptureService(snapshots, analytics)

	service.Capture(context.Background(), "", json.RawMessage(`[{"name": "x"}]`), nil)
	service.Capture(context.Background(), "some query", nil, nil)
	service.Capture(context.Background(), "some query", json.RawMessage(`[]`), nil)

	assert.Empty(t, snapshots.snapshots)
	assert.Empty(t, analytics.events)
}

func TestCapture_DeduplicatesRepeats(t *testing.T) {
	snapshots := &stubSnapshotRepo{}
	analytics := &stubAnalyticsRepo{}
	service := NewSearchCaptureService(snapshots, analytics)

	results := json.RawMessage(`[{"name": "Desert Bloom"}]`)
	service.Capture(context.Background(), "assisted living phoenix", results, nil)
	service.Capture(context.Background(), "assisted living phoenix", results, nil)

	assert.Len(t, snapshots.snapshots, 1)
	assert.Len(t, analytics.events, 1)

	// Different results for the same query are a distinct capture.
	service.Capture(context.Background(), "assisted living phoenix", json.RawMessage(`[]`), nil)
	assert.Len(t, snapshots.snapshots, 1) // empty result set still ignored

	service.Capture(context.Background(), "memory care mesa", results, nil)
	assert.Len(t, snapshots.snapshots, 2)
}

func TestCapture_SnapshotFailureSkipsAnalytics(t *testing.T) {
	snapshots := &stubSnapshotRepo{createErr: apperrors.NewInternalError("insert failed", nil)}
	analytics := &stubAnalyticsRepo{}
	service := NewSearchCaptureService(snapshots, analytics)

	service.Capture(context.Background(), "assisted living phoenix", json.RawMessage(`[{"name": "x"}]`), nil)

	assert.Empty(t, analytics.events)
}

func TestCapture_AnalyticsFailureIsSwallowed(t *testing.T) {
	snapshots := &stubSnapshotRepo{}
	analytics := &stubAnalyticsRepo{logErr: apperrors.NewInternalError("insert failed", nil)}
	service := NewSearchCaptureService(snapshots, analytics)

	service.Capture(context.Background(), "assisted living phoenix", json.RawMessage(`[{"name": "x"}]`), nil)

	assert.Len(t, snapshots.snapshots, 1)
}
