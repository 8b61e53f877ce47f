package datasource

import (
	"context"

	"windflow/models"
)

// ForecastSource is an interface for services that can fetch hourly wind forecasts
type ForecastSource interface {
	// FetchWindSeries fetches the hourly wind forecast for the configured location
	FetchWindSeries(ctx context.Context) (models.ForecastSeries, error)

	// Name returns the source's name
	Name() string
}
