package datasource

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"windflow/models"
)

// RateLimitedForecastSource wraps a ForecastSource with rate limiting
type RateLimitedForecastSource struct {
	source  ForecastSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedForecastSource creates a new rate limited forecast source
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedForecastSource(source ForecastSource, rps float64, burst int) *RateLimitedForecastSource {
	return &RateLimitedForecastSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchWindSeries fetches forecast data, respecting rate limits
func (r *RateLimitedForecastSource) FetchWindSeries(ctx context.Context) (models.ForecastSeries, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	return r.source.FetchWindSeries(ctx)
}

// Name returns the source name
func (r *RateLimitedForecastSource) Name() string {
	return r.name
}

// Verify that our rate limited type implements the required interface
var _ ForecastSource = (*RateLimitedForecastSource)(nil)
