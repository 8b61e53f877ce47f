package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"windflow/datasource"
	"windflow/models"
)

// CachedForecastSource wraps a ForecastSource and adds caching functionality
type CachedForecastSource struct {
	source         datasource.ForecastSource
	entry          *forecastCacheEntry
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
}

// forecastCacheEntry represents a cached series with its timestamp
type forecastCacheEntry struct {
	Data      models.ForecastSeries
	Timestamp time.Time
}

// NewCachedForecastSource creates a new cached wrapper around a forecast source
func NewCachedForecastSource(source datasource.ForecastSource, cacheDuration time.Duration) *CachedForecastSource {
	return &CachedForecastSource{
		source:        source,
		cacheDuration: cacheDuration,
	}
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *CachedForecastSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchWindSeries fetches the wind series, using cache when available.
// Failed fetches and empty series are never cached.
func (c *CachedForecastSource) FetchWindSeries(ctx context.Context) (models.ForecastSeries, error) {
	c.mutex.RLock()
	entry := c.entry
	c.mutex.RUnlock()

	if entry != nil && time.Since(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		slog.Debug("forecast cache hit", "source", c.source.Name(), "age", time.Since(entry.Timestamp).Round(time.Second))
		return clone(entry.Data), nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	slog.Debug("forecast cache miss", "source", c.source.Name())

	series, err := c.source.FetchWindSeries(ctx)
	if err != nil {
		return nil, err
	}
	if series.Validate() != nil {
		return series, nil
	}

	c.mutex.Lock()
	c.entry = &forecastCacheEntry{
		Data:      clone(series),
		Timestamp: time.Now(),
	}
	c.mutex.Unlock()

	return series, nil
}

// Invalidate drops the cached series
func (c *CachedForecastSource) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entry = nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedForecastSource) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

func clone(s models.ForecastSeries) models.ForecastSeries {
	return append(models.ForecastSeries(nil), s...)
}

// Ensure CachedForecastSource implements ForecastSource
var _ datasource.ForecastSource = (*CachedForecastSource)(nil)
