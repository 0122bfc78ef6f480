package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
)

type stubSearchRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*entities.SearchRequest
	nextID   int

	createErr     error
	processingErr error
	completeErr   error
}

func newStubSearchRequestRepo() *stubSearchRequestRepo {
	return &stubSearchRequestRepo{requests: make(map[string]*entities.SearchRequest)}
}

func (r *stubSearchRequestRepo) Create(ctx context.Context, criteria map[string]any, agentID *string) (*entities.SearchRequest, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req := &entities.SearchRequest{
		ID:                  fmt.Sprintf("req-%d", r.nextID),
		AgentID:             agentID,
		SearchCriteria:      criteria,
		Status:              entities.SearchRequestPending,
		CriteriaFingerprint: entities.FingerprintCriteria(criteria),
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	r.requests[req.ID] = req
	return req, nil
}

func (r *stubSearchRequestRepo) GetByID(ctx context.Context, id string) (*entities.SearchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("search request not found")
	}
	return req, nil
}

func (r *stubSearchRequestRepo) MarkProcessing(ctx context.Context, id, queryText string) error {
	if r.processingErr != nil {
		return r.processingErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	req := r.requests[id]
	req.Status = entities.SearchRequestProcessing
	req.SerpAPIQuerySent = &queryText
	return nil
}

func (r *stubSearchRequestRepo) MarkComplete(ctx context.Context, id string) error {
	if r.completeErr != nil {
		return r.completeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[id].Status = entities.SearchRequestComplete
	return nil
}

func (r *stubSearchRequestRepo) MarkFailed(ctx context.Context, id, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req := r.requests[id]
	req.Status = entities.SearchRequestFailed
	req.ErrorSummary = &summary
	return nil
}

type stubRawResultRepo struct {
	mu       sync.Mutex
	stored   []*entities.RawSearchResult
	storeErr error
}

func (r *stubRawResultRepo) Store(ctx context.Context, searchRequestID string, payload json.RawMessage) (*entities.RawSearchResult, error) {
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &entities.RawSearchResult{
		ID:              fmt.Sprintf("raw-%d", len(r.stored)+1),
		SearchRequestID: searchRequestID,
		RawResponse:     payload,
		ParsingStatus:   entities.ParsingStatusNew,
		CreatedAt:       time.Now(),
	}
	r.stored = append(r.stored, result)
	return result, nil
}

func (r *stubRawResultRepo) GetByID(ctx context.Context, id string) (*entities.RawSearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.stored {
		if stored.ID == id {
			return stored, nil
		}
	}
	return nil, apperrors.NewNotFoundError("raw result not found")
}

type stubPlacesProvider struct {
	mu      sync.Mutex
	queries []string
	places  []entities.Place
	raw     json.RawMessage
	err     error
}

func (p *stubPlacesProvider) Search(ctx context.Context, query string) ([]entities.Place, json.RawMessage, error) {
	p.mu.Lock()
	p.queries = append(p.queries, query)
	p.mu.Unlock()
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.places, p.raw, nil
}

type stubCacheProvider struct {
	mu     sync.Mutex
	values map[string][]byte

	setIfAbsentErr error
}

func newStubCacheProvider() *stubCacheProvider {
	return &stubCacheProvider{values: make(map[string][]byte)}
}

func (c *stubCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *stubCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *stubCacheProvider) SetIfAbsent(ctx context.Context, key string, value []byte, expirationSeconds int) (bool, error) {
	if c.setIfAbsentErr != nil {
		return false, c.setIfAbsentErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = value
	return true, nil
}

func (c *stubCacheProvider) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *stubCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}

type stubFacilityRepo struct {
	facilities []*entities.Facility
	searchErr  error

	lastFilter repositories.FacilityFilter
}

func (r *stubFacilityRepo) Search(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	r.lastFilter = filter
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.facilities, nil
}

func (r *stubFacilityRepo) GetDetails(ctx context.Context, id string) (*entities.Facility, error) {
	for _, f := range r.facilities {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, apperrors.NewNotFoundError("facility not found")
}

type stubAnalyticsRepo struct {
	mu     sync.Mutex
	events []*entities.AnalyticsEvent
	logErr error

	metricsEvents []*entities.AnalyticsEvent
	metricsErr    error
}

func (r *stubAnalyticsRepo) LogEvent(ctx context.Context, event *entities.AnalyticsEvent) error {
	if r.logErr != nil {
		return r.logErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *stubAnalyticsRepo) GetFacilityMetrics(ctx context.Context, facilityID string, since time.Time) ([]*entities.AnalyticsEvent, error) {
	if r.metricsErr != nil {
		return nil, r.metricsErr
	}
	return r.metricsEvents, nil
}

type stubSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []*entities.SearchSnapshot
	createErr error
}

func (r *stubSnapshotRepo) Create(ctx context.Context, snapshot *entities.SearchSnapshot) error {
	if r.createErr != nil {
		return r.createErr
	}
	if snapshot.ID == "" {
		snapshot.ID = fmt.Sprintf("snap-%d", len(r.snapshots)+1)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}
