package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/openmeteo-exporter/internal/weather"
)

// labelNames identify one location's series across every instrument.
var labelNames = []string{"lat", "lon", "name"}

// Registry owns every instrument the exporter publishes. It wraps its own
// prometheus registry rather than the package-global default so it can be
// constructed in isolation (one per process in practice, one per test case
// in tests).
type Registry struct {
	registry *prometheus.Registry

	Temperature         *prometheus.GaugeVec
	RelativeHumidity    *prometheus.GaugeVec
	ApparentTemperature *prometheus.GaugeVec
	Precipitation       *prometheus.GaugeVec
	Rain                *prometheus.GaugeVec
	Showers             *prometheus.GaugeVec
	Snowfall            *prometheus.GaugeVec
	WeatherCode         *prometheus.GaugeVec
	CloudCover          *prometheus.GaugeVec
	PressureMsl         *prometheus.GaugeVec
	SurfacePressure     *prometheus.GaugeVec
	WindSpeed           *prometheus.GaugeVec
	WindDirection       *prometheus.GaugeVec
	WindGusts           *prometheus.GaugeVec
	Visibility          *prometheus.GaugeVec
	IsDay               *prometheus.GaugeVec

	LastScrapeTimestamp *prometheus.GaugeVec
	ScrapeSuccess       *prometheus.GaugeVec
	ScrapeErrorsTotal   *prometheus.CounterVec
}

// NewRegistry creates a Registry with all instruments registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	gauge := func(name, help string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: name,
			Help: help,
		}, labelNames)
	}

	return &Registry{
		registry: reg,

		Temperature:         gauge("openmeteo_temperature_celsius", "Temperature at 2 meters in Celsius"),
		RelativeHumidity:    gauge("openmeteo_relative_humidity_percent", "Relative humidity percentage"),
		ApparentTemperature: gauge("openmeteo_apparent_temperature_celsius", "Apparent/feels-like temperature in Celsius"),
		Precipitation:       gauge("openmeteo_precipitation_mm", "Total precipitation in millimeters"),
		Rain:                gauge("openmeteo_rain_mm", "Rain amount in millimeters"),
		Showers:             gauge("openmeteo_showers_mm", "Shower amount in millimeters"),
		Snowfall:            gauge("openmeteo_snowfall_cm", "Snowfall amount in centimeters"),
		WeatherCode:         gauge("openmeteo_weather_code", "WMO Weather interpretation code"),
		CloudCover:          gauge("openmeteo_cloud_cover_percent", "Cloud cover percentage"),
		PressureMsl:         gauge("openmeteo_pressure_msl_hpa", "Atmospheric pressure at mean sea level in hPa"),
		SurfacePressure:     gauge("openmeteo_surface_pressure_hpa", "Surface atmospheric pressure in hPa"),
		WindSpeed:           gauge("openmeteo_wind_speed_kmh", "Wind speed at 10 meters in km/h"),
		WindDirection:       gauge("openmeteo_wind_direction_degrees", "Wind direction at 10 meters in degrees (0-360)"),
		WindGusts:           gauge("openmeteo_wind_gusts_kmh", "Wind gusts at 10 meters in km/h"),
		Visibility:          gauge("openmeteo_visibility_meters", "Visibility distance in meters"),
		IsDay:               gauge("openmeteo_is_day", "Whether it is day (1) or night (0)"),

		LastScrapeTimestamp: gauge("openmeteo_last_scrape_timestamp", "Unix timestamp of the last successful scrape"),
		ScrapeSuccess:       gauge("openmeteo_scrape_success", "Whether the last scrape was successful (0 or 1)"),

		ScrapeErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "openmeteo_scrape_errors_total",
			Help: "Total number of scrape errors",
		}, labelNames),
	}
}

// Labels returns the label set identifying a location's series.
func Labels(loc weather.Location) prometheus.Labels {
	return prometheus.Labels{
		"lat":  loc.LatString(),
		"lon":  loc.LonString(),
		"name": loc.DisplayName(),
	}
}

// SetCurrent overwrites every weather gauge for the location with the values
// of the given reading.
func (r *Registry) SetCurrent(loc weather.Location, cur weather.CurrentConditions) {
	labels := Labels(loc)

	r.Temperature.With(labels).Set(cur.Temperature2m)
	r.RelativeHumidity.With(labels).Set(cur.RelativeHumidity2m)
	r.ApparentTemperature.With(labels).Set(cur.ApparentTemperature)
	r.Precipitation.With(labels).Set(cur.Precipitation)
	r.Rain.With(labels).Set(cur.Rain)
	r.Showers.With(labels).Set(cur.Showers)
	r.Snowfall.With(labels).Set(cur.Snowfall)
	r.WeatherCode.With(labels).Set(cur.WeatherCode)
	r.CloudCover.With(labels).Set(cur.CloudCover)
	r.PressureMsl.With(labels).Set(cur.PressureMsl)
	r.SurfacePressure.With(labels).Set(cur.SurfacePressure)
	r.WindSpeed.With(labels).Set(cur.WindSpeed10m)
	r.WindDirection.With(labels).Set(cur.WindDirection10m)
	r.WindGusts.With(labels).Set(cur.WindGusts10m)
	r.Visibility.With(labels).Set(cur.Visibility)
	r.IsDay.With(labels).Set(cur.IsDay)
}

// RecordSuccess marks the location's last scrape as successful at the given
// wall-clock time.
func (r *Registry) RecordSuccess(loc weather.Location, at time.Time) {
	labels := Labels(loc)
	r.LastScrapeTimestamp.With(labels).Set(float64(at.Unix()))
	r.ScrapeSuccess.With(labels).Set(1)
}

// RecordFailure marks the location's last scrape as failed. The error counter
// moves only when counted is true; an incomplete-but-reachable response flips
// scrape_success without counting as an error.
func (r *Registry) RecordFailure(loc weather.Location, counted bool) {
	labels := Labels(loc)
	r.ScrapeSuccess.With(labels).Set(0)
	if counted {
		r.ScrapeErrorsTotal.With(labels).Inc()
	}
}

// Handler serves the registry's instruments in the Prometheus exposition
// format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for test inspection.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
