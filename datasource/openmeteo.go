package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"windflow/models"
)

// DefaultOpenMeteoURL is the public Open-Meteo forecast endpoint
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

const hourlyVariables = "wind_speed_10m,wind_direction_10m"

// StatusError is returned when an upstream API answers with a non-200 status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// OpenMeteoOptions locate the forecast
type OpenMeteoOptions struct {
	BaseURL      string
	Latitude     float64
	Longitude    float64
	ForecastDays int
	Timezone     string // IANA name, "GMT" or "auto"
}

// OpenMeteoProvider implements ForecastSource against the Open-Meteo hourly API
type OpenMeteoProvider struct {
	opts       OpenMeteoOptions
	httpClient *http.Client
}

// NewOpenMeteoProvider creates a new Open-Meteo provider
func NewOpenMeteoProvider(opts OpenMeteoOptions) *OpenMeteoProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOpenMeteoURL
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = 1
	}
	if opts.Timezone == "" {
		opts.Timezone = "GMT"
	}
	return &OpenMeteoProvider{
		opts: opts,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the provider name
func (p *OpenMeteoProvider) Name() string {
	return "OpenMeteo"
}

// openMeteoResponse is the subset of the forecast payload we read
type openMeteoResponse struct {
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	Timezone         string `json:"timezone"`
	Hourly           struct {
		Time          []string   `json:"time"`
		WindSpeed     []*float64 `json:"wind_speed_10m"`
		WindDirection []*float64 `json:"wind_direction_10m"`
	} `json:"hourly"`
}

// FetchWindSeries fetches the hourly wind forecast
func (p *OpenMeteoProvider) FetchWindSeries(ctx context.Context) (models.ForecastSeries, error) {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(p.opts.Latitude, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(p.opts.Longitude, 'f', -1, 64))
	params.Add("hourly", hourlyVariables)
	params.Add("forecast_days", strconv.Itoa(p.opts.ForecastDays))
	params.Add("timezone", p.opts.Timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response openMeteoResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return seriesFromOpenMeteo(response)
}

// seriesFromOpenMeteo zips the parallel hourly arrays into samples. Hours with
// a missing speed or direction are skipped.
func seriesFromOpenMeteo(r openMeteoResponse) (models.ForecastSeries, error) {
	h := r.Hourly
	if len(h.WindSpeed) != len(h.Time) || len(h.WindDirection) != len(h.Time) {
		return nil, fmt.Errorf("malformed hourly block: %d times, %d speeds, %d directions",
			len(h.Time), len(h.WindSpeed), len(h.WindDirection))
	}

	loc := time.FixedZone(r.Timezone, r.UTCOffsetSeconds)
	series := make(models.ForecastSeries, 0, len(h.Time))
	for i, raw := range h.Time {
		if h.WindSpeed[i] == nil || h.WindDirection[i] == nil {
			continue
		}
		ts, err := ParseTime(raw, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse time %q: %w", raw, err)
		}
		direction := *h.WindDirection[i]
		series = append(series, models.ForecastSample{
			Time:              ts,
			WindSpeed:         *h.WindSpeed[i],
			WindDirection:     direction,
			CardinalDirection: CardinalDirection(direction),
		})
	}
	return series, nil
}

// Open-Meteo sends ISO 8601 local times without an offset, e.g. "2024-05-01T13:00"
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTime parses an ISO 8601 timestamp. Values without an offset are read in loc.
func ParseTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

var _ ForecastSource = (*OpenMeteoProvider)(nil)
