package models

// ErrorMarker replaces every display field when a fetch fails
const ErrorMarker = "Error fetching data"

// DisplayFields are the formatted values published alongside the streamlines
type DisplayFields struct {
	ForecastTime  string `json:"forecast_time"`
	WindSpeed     string `json:"wind_speed"`
	WindDirection string `json:"wind_direction"`
	Cardinal      string `json:"cardinal_direction"`
}

// ErrorDisplay returns display fields that all carry the error marker
func ErrorDisplay() DisplayFields {
	return DisplayFields{
		ForecastTime:  ErrorMarker,
		WindSpeed:     ErrorMarker,
		WindDirection: ErrorMarker,
		Cardinal:      ErrorMarker,
	}
}

// IsError reports whether every field carries the error marker
func (d DisplayFields) IsError() bool {
	return d == ErrorDisplay()
}
