package models

import (
	"errors"
	"time"
)

// ErrEmptySeries is returned when an operation needs at least one forecast sample
var ErrEmptySeries = errors.New("forecast series is empty")

// ForecastSample is a single hourly wind forecast point
type ForecastSample struct {
	Time              time.Time `json:"time"`               // time this sample is for
	WindSpeed         float64   `json:"wind_speed"`         // in km/h
	WindDirection     float64   `json:"wind_direction"`     // degrees, direction the wind comes from
	CardinalDirection string    `json:"cardinal_direction"` // compass label, e.g. "NE"
}

// ForecastSeries is an ordered, chronological sequence of samples
type ForecastSeries []ForecastSample

// Validate reports ErrEmptySeries for a series with no samples
func (s ForecastSeries) Validate() error {
	if len(s) == 0 {
		return ErrEmptySeries
	}
	return nil
}
