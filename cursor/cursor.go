// Package cursor tracks which forecast sample is on display.
package cursor

import (
	"time"

	"windflow/models"
)

// NearestHour rounds now to the closest whole hour in now's location.
// Minutes 30 and above round up.
func NearestHour(now time.Time) time.Time {
	hour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	if now.Minute() >= 30 {
		hour = hour.Add(time.Hour)
	}
	return hour
}

// FindNearestIndex returns the index of the first sample at or after the hour
// nearest to now. It falls back to 0 when every sample is earlier.
func FindNearestIndex(series models.ForecastSeries, now time.Time) int {
	boundary := NearestHour(now)
	for i, s := range series {
		if !s.Time.Before(boundary) {
			return i
		}
	}
	return 0
}

// Advance returns the index after current, wrapping at the end of the series
func Advance(series models.ForecastSeries, current int) (int, error) {
	if err := series.Validate(); err != nil {
		return 0, err
	}
	next := (current + 1) % len(series)
	if next < 0 {
		next += len(series)
	}
	return next, nil
}

// Cursor is a position within the current forecast series
type Cursor struct {
	series models.ForecastSeries
	index  int
}

// New creates a cursor with no series loaded
func New() *Cursor {
	return &Cursor{}
}

// Replace swaps in a new series and moves to the sample nearest to now.
// An empty series is rejected and the previous one is kept.
func (c *Cursor) Replace(series models.ForecastSeries, now time.Time) error {
	if err := series.Validate(); err != nil {
		return err
	}
	c.series = append(models.ForecastSeries(nil), series...)
	c.index = FindNearestIndex(c.series, now)
	return nil
}

// Advance steps to the next sample and returns it
func (c *Cursor) Advance() (models.ForecastSample, error) {
	next, err := Advance(c.series, c.index)
	if err != nil {
		return models.ForecastSample{}, err
	}
	c.index = next
	return c.series[next], nil
}

// Current returns the selected sample. ok is false before the first Replace.
func (c *Cursor) Current() (models.ForecastSample, bool) {
	if len(c.series) == 0 {
		return models.ForecastSample{}, false
	}
	return c.series[c.index], true
}

// Index returns the selected position
func (c *Cursor) Index() int { return c.index }

// Len returns the number of samples in the series
func (c *Cursor) Len() int { return len(c.series) }
