package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/carebridge/seniorplacement/backend/internal/domain/entities"
	"github.com/carebridge/seniorplacement/backend/internal/domain/providers"
	"github.com/carebridge/seniorplacement/backend/internal/domain/repositories"
	"github.com/carebridge/seniorplacement/backend/internal/infrastructure/observability"
)

const (
	facilityDetailsTTL = 300
	searchResultsTTL   = 120
)

// CachedFacilityAdapter wraps a FacilityRepository with a read-through cache.
// Cache failures are logged and never surfaced to callers.
type CachedFacilityAdapter struct {
	inner   repositories.FacilityRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedFacilityAdapter creates a caching decorator around the given repository
func NewCachedFacilityAdapter(inner repositories.FacilityRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.FacilityRepository {
	return &CachedFacilityAdapter{inner: inner, cache: cache, metrics: metrics}
}

// Search returns cached results for the filter when available
func (a *CachedFacilityAdapter) Search(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	key := searchCacheKey(filter)

	if data, err := a.cache.Get(ctx, key); err == nil && data != nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(data, &facilities); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, key)
			return facilities, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached search results")
	}
	observability.RecordCacheMiss(ctx, a.metrics, key)

	facilities, err := a.inner.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.storeAsync(key, facilities, searchResultsTTL)
	return facilities, nil
}

// GetDetails returns a cached facility when available
func (a *CachedFacilityAdapter) GetDetails(ctx context.Context, id string) (*entities.Facility, error) {
	key := "facility:details:" + id

	if data, err := a.cache.Get(ctx, key); err == nil && data != nil {
		var facility entities.Facility
		if err := json.Unmarshal(data, &facility); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, key)
			return &facility, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached facility")
	}
	observability.RecordCacheMiss(ctx, a.metrics, key)

	facility, err := a.inner.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	a.storeAsync(key, facility, facilityDetailsTTL)
	return facility, nil
}

func (a *CachedFacilityAdapter) storeAsync(key string, value any, ttlSeconds int) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to encode value for cache")
		return
	}
	go func() {
		if err := a.cache.Set(context.Background(), key, data, ttlSeconds); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache value")
		}
	}()
}

func searchCacheKey(filter repositories.FacilityFilter) string {
	priceMin := "-"
	if filter.PriceMin != nil {
		priceMin = fmt.Sprintf("%.2f", *filter.PriceMin)
	}
	priceMax := "-"
	if filter.PriceMax != nil {
		priceMax = fmt.Sprintf("%.2f", *filter.PriceMax)
	}
	return fmt.Sprintf("facility:search:%s:%s:%s:%s", filter.Location, filter.CareType, priceMin, priceMax)
}
