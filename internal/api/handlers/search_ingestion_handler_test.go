package handlers

import (
	"bytes"
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

type stubIngestionService struct {
	ingestID  string
	ingestErr error

	request *entities.SearchRequest
	getErr  error

	lastCriteria map[string]any
	lastAgentID  *string
}

func (s *stubIngestionService) Ingest(ctx context.Context, criteria map[string]any, agentID *string) (string, error) {
	s.lastCriteria = criteria
	s.lastAgentID = agentID
	return s.ingestID, s.ingestErr
}

func (s *stubIngestionService) GetRequest(ctx context.Context, id string) (*entities.SearchRequest, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.request, nil
}

func TestSubmitSearchRequest(t *testing.T) {
	service := &stubIngestionService{ingestID: "req-1"}
	handler := NewSearchIngestionHandler(service)

	body := bytes.NewBufferString(`{
		"search_criteria": {"location": "Mesa, AZ", "care_type": "memory care"},
		"agent_id": "agent-1"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/search-requests", body)
	rec := httptest.NewRecorder()

	handler.SubmitSearchRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "req-1", resp["search_request_id"])

	assert.Equal(t, "Mesa, AZ", service.lastCriteria["location"])
	require.NotNil(t, service.lastAgentID)
	assert.Equal(t, "agent-1", *service.lastAgentID)
}

func TestSubmitSearchRequest_InvalidBody(t *testing.T) {
	handler := NewSearchIngestionHandler(&stubIngestionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/search-requests", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()

	handler.SubmitSearchRequest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func TestSubmitSearchRequest_Conflict(t *testing.T) {
	service := &stubIngestionService{ingestErr: apperrors.NewConflictError("an identical search is already in flight")}
	handler := NewSearchIngestionHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/search-requests",
		bytes.NewBufferString(`{"search_criteria": {"location": "Mesa, AZ"}}`))
	rec := httptest.NewRecorder()

	handler.SubmitSearchRequest(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "an identical search is already in flight", resp["error"])
}

func TestSubmitSearchRequest_PipelineFailure(t *testing.T) {
	service := &stubIngestionService{
		ingestID:  "req-1",
		ingestErr: apperrors.NewExternalError("provider call failed", nil),
	}
	handler := NewSearchIngestionHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/search-requests",
		bytes.NewBufferString(`{"search_criteria": {"location": "Mesa, AZ"}}`))
	rec := httptest.NewRecorder()

	handler.SubmitSearchRequest(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	// Provider failure details are not leaked to clients.
	assert.Equal(t, "search request failed", resp["error"])
}

func TestGetSearchRequest(t *testing.T) {
	service := &stubIngestionService{
		request: &entities.SearchRequest{ID: "req-1", Status: entities.SearchRequestComplete},
	}
	handler := NewSearchIngestionHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/search-requests/req-1", nil)
	req.SetPathValue("id", "req-1")
	rec := httptest.NewRecorder()

	handler.GetSearchRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp entities.SearchRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.ID)
	assert.Equal(t, entities.SearchRequestComplete, resp.Status)
}

func TestGetSearchRequest_NotFound(t *testing.T) {
	service := &stubIngestionService{getErr: apperrors.NewNotFoundError("search request not found")}
	handler := NewSearchIngestionHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/search-requests/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.GetSearchRequest(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
