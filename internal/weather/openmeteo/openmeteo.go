package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/openmeteo-exporter/internal/weather"
)

// CurrentFields is the fixed list of current-conditions fields requested from
// the API, in request order. The exporter's gauge set mirrors this list.
var CurrentFields = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"apparent_temperature",
	"precipitation",
	"rain",
	"showers",
	"snowfall",
	"weather_code",
	"cloud_cover",
	"pressure_msl",
	"surface_pressure",
	"wind_speed_10m",
	"wind_direction_10m",
	"wind_gusts_10m",
	"visibility",
	"is_day",
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// Client implements the weather.Provider interface for Open-Meteo.
// Each Fetch is a single attempt behind a circuit breaker; there is no retry,
// a failed cycle simply waits for the next sweep.
type Client struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

func New(client *http.Client) *Client {
	return NewWithBaseURL(client, defaultBaseURL)
}

// NewWithBaseURL creates a Client against a non-default endpoint, e.g. a
// self-hosted Open-Meteo instance.
func NewWithBaseURL(client *http.Client, baseURL string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Fetch requests current conditions for the given coordinates. Fields the
// response omits are left at zero; a response without a `current` object
// returns weather.ErrNoCurrent.
func (c *Client) Fetch(ctx context.Context, loc weather.Location) (weather.CurrentConditions, error) {
	values := url.Values{}
	values.Set("latitude", loc.LatString())
	values.Set("longitude", loc.LonString())
	values.Set("current", strings.Join(CurrentFields, ","))

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.CurrentConditions{}, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, errServerError
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.CurrentConditions{}, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return weather.CurrentConditions{}, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return weather.CurrentConditions{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	// The `current` object also carries non-numeric bookkeeping fields
	// (time, interval), so decode into a generic map and pick out the
	// numeric fields we asked for.
	var payload struct {
		Current map[string]any `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, err
	}

	if payload.Current == nil {
		return weather.CurrentConditions{}, weather.ErrNoCurrent
	}

	cur := payload.Current
	return weather.CurrentConditions{
		Temperature2m:       numeric(cur, "temperature_2m"),
		RelativeHumidity2m:  numeric(cur, "relative_humidity_2m"),
		ApparentTemperature: numeric(cur, "apparent_temperature"),
		Precipitation:       numeric(cur, "precipitation"),
		Rain:                numeric(cur, "rain"),
		Showers:             numeric(cur, "showers"),
		Snowfall:            numeric(cur, "snowfall"),
		WeatherCode:         numeric(cur, "weather_code"),
		CloudCover:          numeric(cur, "cloud_cover"),
		PressureMsl:         numeric(cur, "pressure_msl"),
		SurfacePressure:     numeric(cur, "surface_pressure"),
		WindSpeed10m:        numeric(cur, "wind_speed_10m"),
		WindDirection10m:    numeric(cur, "wind_direction_10m"),
		WindGusts10m:        numeric(cur, "wind_gusts_10m"),
		Visibility:          numeric(cur, "visibility"),
		IsDay:               numeric(cur, "is_day"),
	}, nil
}

// numeric returns the field as a float64, or 0 when it is absent or not a
// number. Missing fields are a lenient default, not an error.
func numeric(m map[string]any, field string) float64 {
	v, _ := m[field].(float64)
	return v
}
