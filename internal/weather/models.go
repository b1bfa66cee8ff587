package weather

import (
	"strconv"
	"time"
)

// Location represents a place for which we export weather metrics.
// Latitude/Longitude must be provided; Name is optional.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// LatString returns the shortest decimal representation of the latitude.
// It is used both as a store key component and as the `lat` metric label,
// so two coordinates that format identically share a series.
func (l Location) LatString() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64)
}

// LonString returns the shortest decimal representation of the longitude.
func (l Location) LonString() string {
	return strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

// DisplayName returns the configured name, or "lat,lon" when none was given.
func (l Location) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.LatString() + "," + l.LonString()
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.LatString() + ":" + l.LonString()
}

// CurrentConditions holds one current-conditions reading from the provider.
// Fields the provider omitted are zero; the exporter treats that as a valid
// reading, not an error.
type CurrentConditions struct {
	Temperature2m       float64 `json:"temperature_2m"`
	RelativeHumidity2m  float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	Precipitation       float64 `json:"precipitation"`
	Rain                float64 `json:"rain"`
	Showers             float64 `json:"showers"`
	Snowfall            float64 `json:"snowfall"`
	WeatherCode         float64 `json:"weather_code"`
	CloudCover          float64 `json:"cloud_cover"`
	PressureMsl         float64 `json:"pressure_msl"`
	SurfacePressure     float64 `json:"surface_pressure"`
	WindSpeed10m        float64 `json:"wind_speed_10m"`
	WindDirection10m    float64 `json:"wind_direction_10m"`
	WindGusts10m        float64 `json:"wind_gusts_10m"`
	Visibility          float64 `json:"visibility"`
	IsDay               float64 `json:"is_day"`
}

// Snapshot is the latest exported reading for a location.
type Snapshot struct {
	Location  Location          `json:"location"`
	Timestamp time.Time         `json:"timestamp"` // always UTC
	Current   CurrentConditions `json:"current"`
}
