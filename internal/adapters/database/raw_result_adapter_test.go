package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

func TestRawResultStore(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	adapter := NewRawResultAdapter(postgres.NewClientFromDB(db))

	mock.ExpectExec(`INSERT INTO "serperapi_raw_results"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := json.RawMessage(`{"places": [{"title": "Desert Bloom"}]}`)
	result, err := adapter.Store(context.Background(), "req-1", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "req-1", result.SearchRequestID)
	assert.Equal(t, entities.ParsingStatusNew, result.ParsingStatus)
	assert.JSONEq(t, string(payload), string(result.RawResponse))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRawResultGetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	adapter := NewRawResultAdapter(postgres.NewClientFromDB(db))

	rows := sqlmock.NewRows([]string{"id", "search_request_id", "raw_response", "parsing_status", "created_at"}).
		AddRow("raw-1", "req-1", []byte(`{"places": []}`), "new", time.Now())
	mock.ExpectQuery(`SELECT .+ FROM "serperapi_raw_results"`).WillReturnRows(rows)

	result, err := adapter.GetByID(context.Background(), "raw-1")
	require.NoError(t, err)

	assert.Equal(t, "raw-1", result.ID)
	assert.Equal(t, "req-1", result.SearchRequestID)
	assert.Equal(t, entities.ParsingStatusNew, result.ParsingStatus)
	assert.JSONEq(t, `{"places": []}`, string(result.RawResponse))
}

func TestRawResultGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	adapter := NewRawResultAdapter(postgres.NewClientFromDB(db))

	mock.ExpectQuery(`SELECT .+ FROM "serperapi_raw_results"`).WillReturnError(sql.ErrNoRows)

	_, err = adapter.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
