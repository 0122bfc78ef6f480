package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

func newMockAdapter(t *testing.T) (repositories.SearchRequestRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSearchRequestAdapter(postgres.NewClientFromDB(db)), mock
}

var searchRequestColumns = []string{
	"id", "agent_id", "search_criteria", "status", "serpapi_query_sent",
	"error_summary", "criteria_fingerprint", "created_at", "updated_at",
}

func TestSearchRequestCreate(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO "user_search_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	agentID := "agent-1"
	request, err := adapter.Create(context.Background(), map[string]any{"location": "Mesa, AZ"}, &agentID)
	require.NoError(t, err)

	assert.NotEmpty(t, request.ID)
	assert.Equal(t, entities.SearchRequestPending, request.Status)
	assert.Equal(t, entities.FingerprintCriteria(map[string]any{"location": "Mesa, AZ"}), request.CriteriaFingerprint)
	assert.Nil(t, request.SerpAPIQuerySent)
	require.NotNil(t, request.AgentID)
	assert.Equal(t, "agent-1", *request.AgentID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRequestGetByID(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	now := time.Now()
	rows := sqlmock.NewRows(searchRequestColumns).AddRow(
		"req-1", nil, []byte(`{"location": "Mesa, AZ"}`), "processing",
		"memory care facilities in Mesa, AZ", nil, "fp-1", now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM "user_search_requests"`).WillReturnRows(rows)

	request, err := adapter.GetByID(context.Background(), "req-1")
	require.NoError(t, err)

	assert.Equal(t, "req-1", request.ID)
	assert.Nil(t, request.AgentID)
	assert.Equal(t, entities.SearchRequestProcessing, request.Status)
	assert.Equal(t, "Mesa, AZ", request.SearchCriteria["location"])
	require.NotNil(t, request.SerpAPIQuerySent)
	assert.Equal(t, "memory care facilities in Mesa, AZ", *request.SerpAPIQuerySent)
	assert.Nil(t, request.ErrorSummary)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRequestGetByID_NotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT .+ FROM "user_search_requests"`).WillReturnError(sql.ErrNoRows)

	_, err := adapter.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSearchRequestMarkProcessing(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE "user_search_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.MarkProcessing(context.Background(), "req-1", "memory care facilities in Mesa, AZ")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRequestMarkProcessing_StatusGuard(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	// No row in pending state matches; the transition must not apply.
	mock.ExpectExec(`UPDATE "user_search_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.MarkProcessing(context.Background(), "req-1", "some query")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSearchRequestMarkComplete(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE "user_search_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.MarkComplete(context.Background(), "req-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRequestMarkFailed(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE "user_search_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.MarkFailed(context.Background(), "req-1", "provider call failed"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRequestMarkFailed_TerminalRow(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`UPDATE "user_search_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.MarkFailed(context.Background(), "req-1", "late failure")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
