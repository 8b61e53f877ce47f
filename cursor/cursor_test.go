package cursor

import (
	"errors"
	"testing"
	"time"

	"windflow/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func seriesAt(times ...time.Time) models.ForecastSeries {
	s := make(models.ForecastSeries, len(times))
	for i, t := range times {
		s[i] = models.ForecastSample{Time: t, WindSpeed: float64(i), WindDirection: float64(i * 45)}
	}
	return s
}

func TestNearestHour(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{at(10, 0), at(10, 0)},
		{at(10, 20), at(10, 0)},
		{at(10, 29), at(10, 0)},
		{at(10, 30), at(11, 0)},
		{at(10, 45), at(11, 0)},
		{at(23, 50), time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 1, 10, 29, 59, 999, time.UTC), at(10, 0)},
	}
	for _, tt := range tests {
		if got := NearestHour(tt.now); !got.Equal(tt.want) {
			t.Errorf("NearestHour(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestNearestHourKeepsLocation(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 5, 1, 10, 40, 0, 0, kolkata)
	got := NearestHour(now)
	want := time.Date(2024, 5, 1, 11, 0, 0, 0, kolkata)
	if !got.Equal(want) {
		t.Fatalf("NearestHour = %v, want %v", got, want)
	}
}

func TestFindNearestIndex(t *testing.T) {
	series := seriesAt(at(10, 0), at(10, 30), at(11, 0))

	tests := []struct {
		now  time.Time
		want int
	}{
		{at(10, 20), 0},
		{at(10, 45), 2},
		{at(9, 10), 0},
		{at(10, 30), 2},
	}
	for _, tt := range tests {
		if got := FindNearestIndex(series, tt.now); got != tt.want {
			t.Errorf("FindNearestIndex(now=%v) = %d, want %d", tt.now.Format("15:04"), got, tt.want)
		}
	}
}

func TestFindNearestIndexFallsBackToZero(t *testing.T) {
	series := seriesAt(at(1, 0), at(2, 0), at(3, 0))
	if got := FindNearestIndex(series, at(18, 5)); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := FindNearestIndex(nil, at(18, 5)); got != 0 {
		t.Fatalf("empty series: got %d, want 0", got)
	}
}

func TestAdvanceIsCyclic(t *testing.T) {
	for length := 1; length <= 24; length++ {
		series := make(models.ForecastSeries, length)
		for start := 0; start < length; start++ {
			idx := start
			for i := 0; i < length; i++ {
				next, err := Advance(series, idx)
				if err != nil {
					t.Fatal(err)
				}
				idx = next
			}
			if idx != start {
				t.Fatalf("length %d: %d advances from %d ended at %d", length, length, start, idx)
			}
		}
	}
}

func TestAdvanceEmptySeries(t *testing.T) {
	if _, err := Advance(nil, 0); !errors.Is(err, models.ErrEmptySeries) {
		t.Fatalf("err = %v, want ErrEmptySeries", err)
	}
}

func TestCursor(t *testing.T) {
	c := New()
	if _, ok := c.Current(); ok {
		t.Fatal("new cursor has a current sample")
	}
	if _, err := c.Advance(); !errors.Is(err, models.ErrEmptySeries) {
		t.Fatalf("Advance on empty cursor = %v", err)
	}

	series := seriesAt(at(10, 0), at(11, 0), at(12, 0))
	if err := c.Replace(series, at(10, 50)); err != nil {
		t.Fatal(err)
	}
	if c.Index() != 1 {
		t.Fatalf("index = %d, want 1", c.Index())
	}

	s, err := c.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if !s.Time.Equal(at(12, 0)) {
		t.Fatalf("advanced to %v", s.Time)
	}
	if s, _ = c.Advance(); !s.Time.Equal(at(10, 0)) {
		t.Fatalf("did not wrap, got %v", s.Time)
	}

	if err := c.Replace(nil, at(10, 0)); !errors.Is(err, models.ErrEmptySeries) {
		t.Fatalf("Replace(nil) = %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("empty Replace dropped the previous series")
	}

	series[0].WindSpeed = 99
	c.Replace(series, at(9, 0))
	series[0].WindSpeed = 1
	if cur, _ := c.Current(); cur.WindSpeed != 99 {
		t.Fatal("cursor shares storage with the caller's series")
	}
}
