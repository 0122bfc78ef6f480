package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/providers"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/observability"
	"github.com/carebridge/seniorplacement/backend/pkg/config"
	apperrors "github.com/carebridge/seniorplacement/backend/pkg/errors"
	"github.com/carebridge/seniorplacement/backend/pkg/retry"
)

// SerperPlacesProvider implements PlacesProvider against a Serper-style
// places search API.
type SerperPlacesProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	metrics    *observability.Metrics
}

// NewSerperPlacesProvider creates a provider from config
func NewSerperPlacesProvider(cfg *config.PlacesConfig, metrics *observability.Metrics) providers.PlacesProvider {
	provider := NewSerperPlacesProviderWithOptions(
		cfg.APIKey,
		cfg.BaseURL,
		&http.Client{Timeout: cfg.Timeout},
		retry.ProviderConfig(),
	)
	provider.(*SerperPlacesProvider).metrics = metrics
	return provider
}

// NewSerperPlacesProviderWithOptions creates a provider with explicit
// dependencies; used by tests.
func NewSerperPlacesProviderWithOptions(apiKey, baseURL string, httpClient *http.Client, retryCfg retry.Config) providers.PlacesProvider {
	return &SerperPlacesProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		retryCfg:   retryCfg,
	}
}

type serperPlacesRequest struct {
	Query string `json:"q"`
}

type serperPlace struct {
	Title       string   `json:"title"`
	Address     string   `json:"address"`
	PhoneNumber *string  `json:"phoneNumber"`
	Website     *string  `json:"website"`
	Rating      *float64 `json:"rating"`
	RatingCount *int     `json:"ratingCount"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	CID         *string  `json:"cid"`
	PlaceID     *string  `json:"placeId"`
}

type serperPlacesResponse struct {
	Places []serperPlace `json:"places"`
}

// Search runs a places query and returns the normalized places alongside
// the raw response body.
func (p *SerperPlacesProvider) Search(ctx context.Context, query string) ([]entities.Place, json.RawMessage, error) {
	if query == "" {
		return nil, nil, apperrors.NewValidationError("search query is required")
	}
	if p.apiKey == "" {
		return nil, nil, apperrors.NewExternalError("places provider API key is not configured", nil)
	}

	var body []byte
	start := time.Now()
	err := retry.Do(ctx, p.retryCfg, func() error {
		var reqErr error
		body, reqErr = p.doSearchRequest(ctx, query)
		return reqErr
	})
	observability.RecordProviderCall(ctx, p.metrics, err == nil, time.Since(start))
	if err != nil {
		return nil, nil, apperrors.NewExternalError("places provider search failed", err)
	}

	var parsed serperPlacesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, apperrors.NewExternalError("failed to decode places provider response", err)
	}

	places := make([]entities.Place, 0, len(parsed.Places))
	for _, raw := range parsed.Places {
		places = append(places, normalizePlace(raw))
	}

	return places, json.RawMessage(body), nil
}

func (p *SerperPlacesProvider) doSearchRequest(ctx context.Context, query string) ([]byte, error) {
	payload, err := json.Marshal(serperPlacesRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/places", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read places response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places provider returned status %d", resp.StatusCode)
	}

	return body, nil
}

func normalizePlace(raw serperPlace) entities.Place {
	return entities.Place{
		Title:       raw.Title,
		Address:     raw.Address,
		PhoneNumber: raw.PhoneNumber,
		Website:     raw.Website,
		Rating:      raw.Rating,
		ReviewCount: raw.RatingCount,
		Latitude:    raw.Latitude,
		Longitude:   raw.Longitude,
		ProviderID:  raw.CID,
		PlaceID:     raw.PlaceID,
	}
}
