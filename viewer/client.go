package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"windflow/datasource"
	"windflow/models"
)

// WindDataPath is the endpoint serving the forecast series
const WindDataPath = "/api/wind-data"

// Client fetches the forecast series from a windflow server
type Client struct {
	baseURL    string
	location   *time.Location
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL. Timestamps without an
// offset are read in loc.
func NewClient(baseURL string, loc *time.Location) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		location: loc,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Name returns the source name
func (c *Client) Name() string {
	return "WindDataAPI"
}

type wireSample struct {
	Time              string  `json:"time"`
	WindSpeed         float64 `json:"wind_speed"`
	WindDirection     float64 `json:"wind_direction"`
	CardinalDirection string  `json:"cardinal_direction"`
}

// FetchWindSeries fetches and decodes the wind data array
func (c *Client) FetchWindSeries(ctx context.Context) (models.ForecastSeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+WindDataPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &datasource.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var raw []wireSample
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	series := make(models.ForecastSeries, 0, len(raw))
	for _, r := range raw {
		ts, err := datasource.ParseTime(r.Time, c.location)
		if err != nil {
			return nil, fmt.Errorf("failed to parse time %q: %w", r.Time, err)
		}
		series = append(series, models.ForecastSample{
			Time:              ts,
			WindSpeed:         r.WindSpeed,
			WindDirection:     r.WindDirection,
			CardinalDirection: r.CardinalDirection,
		})
	}
	return series, nil
}

var _ datasource.ForecastSource = (*Client)(nil)
