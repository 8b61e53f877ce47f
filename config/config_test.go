package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.OpenMeteo.Latitude != def.OpenMeteo.Latitude || cfg.Surface.Lines != 7 {
		t.Errorf("config = %+v, want defaults", cfg)
	}
	if cfg.RefreshInterval.Std() != 5*time.Minute {
		t.Errorf("refresh interval = %v, want 5m", cfg.RefreshInterval.Std())
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"openMeteo": {"latitude": 51.5, "longitude": -0.12, "forecastDays": 2},
		"surface": {"lines": 3},
		"animation": {"baseScale": "500ms"},
		"refreshInterval": "10m"
	}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OpenMeteo.Latitude != 51.5 || cfg.OpenMeteo.ForecastDays != 2 {
		t.Errorf("openMeteo = %+v", cfg.OpenMeteo)
	}
	if cfg.Surface.Lines != 3 || cfg.Surface.Width != 1200 {
		t.Errorf("surface = %+v, want lines 3 with default width", cfg.Surface)
	}
	if cfg.Animation.BaseScale.Std() != 500*time.Millisecond {
		t.Errorf("baseScale = %v", cfg.Animation.BaseScale.Std())
	}
	if cfg.RefreshInterval.Std() != 10*time.Minute {
		t.Errorf("refreshInterval = %v", cfg.RefreshInterval.Std())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WINDFLOW_LATITUDE", "48.85")
	t.Setenv("WINDFLOW_LONGITUDE", "2.35")
	t.Setenv("WINDFLOW_CACHE_TTL", "30s")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OpenMeteo.Latitude != 48.85 || cfg.OpenMeteo.Longitude != 2.35 {
		t.Errorf("coordinates = %v,%v", cfg.OpenMeteo.Latitude, cfg.OpenMeteo.Longitude)
	}
	if cfg.CacheTTL.Std() != 30*time.Second {
		t.Errorf("cacheTTL = %v", cfg.CacheTTL.Std())
	}
}

func TestInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{"openMeteo":`,
		"bad duration": `{"refreshInterval":"soon"}`,
		"latitude":     `{"openMeteo":{"latitude":120}}`,
		"inset":        `{"surface":{"width":600,"inset":300}}`,
		"min speed":    `{"animation":{"minSpeed":1e-12}}`,
		"zero speed":   `{"animation":{"minSpeed":0}}`,
		"speed factor": `{"animation":{"speedFactor":-1}}`,
		"base scale":   `{"animation":{"baseScale":"0s"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestBadEnvValue(t *testing.T) {
	t.Setenv("WINDFLOW_LATITUDE", "north")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected an error for a non-numeric latitude")
	}
}

func TestDisplayLocation(t *testing.T) {
	cfg := DefaultConfig()
	if loc, err := cfg.DisplayLocation(); err != nil || loc != time.Local {
		t.Errorf("empty timezone = %v, %v; want Local", loc, err)
	}
	cfg.DisplayTimezone = "UTC"
	if loc, err := cfg.DisplayLocation(); err != nil || loc.String() != "UTC" {
		t.Errorf("UTC = %v, %v", loc, err)
	}
	cfg.DisplayTimezone = "Nowhere/Special"
	if _, err := cfg.DisplayLocation(); err == nil {
		t.Error("expected an error for an unknown zone")
	}
}
