package viewer

import (
	"fmt"
	"strconv"
	"time"

	"windflow/models"
)

// TimeLayout renders forecast times the way a US-English locale prints them
const TimeLayout = "1/2/2006, 3:04:05 PM"

// FormatDisplay formats a sample for the info panel. Times are shown in loc,
// or in the sample's own location when loc is nil.
func FormatDisplay(s models.ForecastSample, loc *time.Location) models.DisplayFields {
	t := s.Time
	if loc != nil {
		t = t.In(loc)
	}
	return models.DisplayFields{
		ForecastTime:  t.Format(TimeLayout),
		WindSpeed:     fmt.Sprintf("%.2f km/h", s.WindSpeed),
		WindDirection: strconv.FormatFloat(s.WindDirection, 'f', -1, 64) + "°",
		Cardinal:      s.CardinalDirection,
	}
}
