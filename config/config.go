// Package config loads the service configuration from a JSON file with
// environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// Duration is a time.Duration read from JSON as "5m" or as nanoseconds
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns d as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the application configuration
type Config struct {
	OpenMeteo struct {
		BaseURL      string  `json:"baseURL"`
		Latitude     float64 `json:"latitude"`
		Longitude    float64 `json:"longitude"`
		ForecastDays int     `json:"forecastDays"`
		Timezone     string  `json:"timezone"`

		RateLimit struct {
			Enabled bool    `json:"enabled"`
			RPS     float64 `json:"rps"`
			Burst   int     `json:"burst"`
		} `json:"rateLimit"`
	} `json:"openMeteo"`

	CacheTTL Duration `json:"cacheTTL"`

	Surface struct {
		Width         float64 `json:"width"`
		Height        float64 `json:"height"`
		Lines         int     `json:"lines"`
		Inset         float64 `json:"inset"`
		CurvatureBase float64 `json:"curvatureBase"`
		CurvatureBias float64 `json:"curvatureBias"`
	} `json:"surface"`

	Animation struct {
		SpeedFactor float64  `json:"speedFactor"`
		BaseScale   Duration `json:"baseScale"`
		MinSpeed    float64  `json:"minSpeed"`
	} `json:"animation"`

	RefreshInterval Duration `json:"refreshInterval"`

	// DisplayTimezone is an IANA zone name; empty means the host's local zone
	DisplayTimezone string `json:"displayTimezone"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.OpenMeteo.Latitude = 34.23075126666799
	config.OpenMeteo.Longitude = -3.9822058161358935
	config.OpenMeteo.ForecastDays = 1
	config.OpenMeteo.Timezone = "GMT"
	// Open-Meteo asks free users to stay under 600 calls per minute
	config.OpenMeteo.RateLimit.Enabled = true
	config.OpenMeteo.RateLimit.RPS = 1
	config.OpenMeteo.RateLimit.Burst = 5

	config.CacheTTL = Duration(time.Minute)

	config.Surface.Width = 1200
	config.Surface.Height = 800
	config.Surface.Lines = 7
	config.Surface.Inset = 400
	config.Surface.CurvatureBase = 50
	config.Surface.CurvatureBias = 20

	config.Animation.SpeedFactor = 10
	config.Animation.BaseScale = Duration(time.Second)
	config.Animation.MinSpeed = 0.1

	config.RefreshInterval = Duration(5 * time.Minute)
	return config
}

// LoadConfig reads filename over the defaults. A missing file yields the
// defaults. Environment overrides are applied last.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open config: %w", err)
	default:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	floats := map[string]*float64{
		"WINDFLOW_LATITUDE":  &c.OpenMeteo.Latitude,
		"WINDFLOW_LONGITUDE": &c.OpenMeteo.Longitude,
	}
	for key, dst := range floats {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = f
	}

	if v := os.Getenv("WINDFLOW_TIMEZONE"); v != "" {
		c.OpenMeteo.Timezone = v
	}
	if v := os.Getenv("WINDFLOW_DISPLAY_TIMEZONE"); v != "" {
		c.DisplayTimezone = v
	}
	if v := os.Getenv("OPEN_METEO_URL"); v != "" {
		c.OpenMeteo.BaseURL = v
	}
	if v := os.Getenv("WINDFLOW_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid WINDFLOW_CACHE_TTL: %w", err)
		}
		c.CacheTTL = Duration(d)
	}
	return nil
}

// MinAnimationSpeed is the smallest accepted animation.minSpeed
const MinAnimationSpeed = 0.001

// Validate checks ranges the rest of the service relies on
func (c *Config) Validate() error {
	if c.OpenMeteo.Latitude < -90 || c.OpenMeteo.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.OpenMeteo.Latitude)
	}
	if c.OpenMeteo.Longitude < -180 || c.OpenMeteo.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.OpenMeteo.Longitude)
	}
	if c.Surface.Width <= 0 || c.Surface.Height <= 0 {
		return fmt.Errorf("surface must have a positive size, got %vx%v", c.Surface.Width, c.Surface.Height)
	}
	if c.Surface.Lines < 0 {
		return fmt.Errorf("negative line count %d", c.Surface.Lines)
	}
	if 2*c.Surface.Inset >= c.Surface.Width {
		return fmt.Errorf("inset %v leaves no room on a surface %v wide", c.Surface.Inset, c.Surface.Width)
	}
	if c.Animation.SpeedFactor <= 0 {
		return fmt.Errorf("speedFactor must be positive, got %v", c.Animation.SpeedFactor)
	}
	if c.Animation.BaseScale <= 0 {
		return fmt.Errorf("baseScale must be positive, got %v", c.Animation.BaseScale.Std())
	}
	if c.Animation.MinSpeed < MinAnimationSpeed {
		return fmt.Errorf("minSpeed %v is below %v", c.Animation.MinSpeed, MinAnimationSpeed)
	}
	return nil
}

// DisplayLocation resolves DisplayTimezone
func (c *Config) DisplayLocation() (*time.Location, error) {
	if c.DisplayTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load display timezone: %w", err)
	}
	return loc, nil
}
