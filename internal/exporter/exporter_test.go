package exporter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/i474232898/openmeteo-exporter/internal/metrics"
	"github.com/i474232898/openmeteo-exporter/internal/store"
	"github.com/i474232898/openmeteo-exporter/internal/weather"
)

var berlin = weather.Location{Lat: 52.5, Lon: 13.4, Name: "berlin"}

// stubProvider returns canned conditions or errors per fetch.
type stubProvider struct {
	conditions weather.CurrentConditions
	err        error
	calls      int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(ctx context.Context, loc weather.Location) (weather.CurrentConditions, error) {
	p.calls++
	if p.err != nil {
		return weather.CurrentConditions{}, p.err
	}
	return p.conditions, nil
}

func newTestExporter(provider weather.Provider, st weather.Store) (*Exporter, *metrics.Registry) {
	reg := metrics.NewRegistry()
	exp := New(provider, reg, st)
	exp.now = func() time.Time { return time.Unix(1714564800, 0) }
	return exp, reg
}

func TestCollectSuccess(t *testing.T) {
	provider := &stubProvider{conditions: weather.CurrentConditions{
		Temperature2m:      15.2,
		WindSpeed10m:       10,
		RelativeHumidity2m: 61,
	}}
	memStore := store.NewMemoryStore()
	exp, reg := newTestExporter(provider, memStore)

	if err := exp.Collect(context.Background(), berlin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	labels := metrics.Labels(berlin)
	if got := testutil.ToFloat64(reg.Temperature.With(labels)); got != 15.2 {
		t.Errorf("expected temperature 15.2, got %v", got)
	}
	if got := testutil.ToFloat64(reg.WindSpeed.With(labels)); got != 10 {
		t.Errorf("expected wind speed 10, got %v", got)
	}
	// Fields the provider defaulted publish as zero.
	if got := testutil.ToFloat64(reg.Precipitation.With(labels)); got != 0 {
		t.Errorf("expected precipitation 0, got %v", got)
	}
	if got := testutil.ToFloat64(reg.ScrapeSuccess.With(labels)); got != 1 {
		t.Errorf("expected scrape_success 1, got %v", got)
	}
	if got := testutil.ToFloat64(reg.LastScrapeTimestamp.With(labels)); got != 1714564800 {
		t.Errorf("expected last scrape timestamp 1714564800, got %v", got)
	}
	if got := testutil.ToFloat64(reg.ScrapeErrorsTotal.With(labels)); got != 0 {
		t.Errorf("expected no scrape errors, got %v", got)
	}

	snapshot, err := memStore.GetLatest(berlin)
	if err != nil {
		t.Fatalf("expected stored snapshot: %v", err)
	}
	if snapshot.Current.Temperature2m != 15.2 {
		t.Errorf("expected stored temperature 15.2, got %v", snapshot.Current.Temperature2m)
	}
}

func TestCollectTransportFailure(t *testing.T) {
	provider := &stubProvider{conditions: weather.CurrentConditions{Temperature2m: 15.2}}
	exp, reg := newTestExporter(provider, nil)

	// First cycle succeeds, second fails; gauges must keep the prior value.
	if err := exp.Collect(context.Background(), berlin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider.err = errors.New("connection refused")
	if err := exp.Collect(context.Background(), berlin); err == nil {
		t.Fatal("expected error from failed collection")
	}

	labels := metrics.Labels(berlin)
	if got := testutil.ToFloat64(reg.Temperature.With(labels)); got != 15.2 {
		t.Errorf("expected temperature to keep prior value 15.2, got %v", got)
	}
	if got := testutil.ToFloat64(reg.ScrapeSuccess.With(labels)); got != 0 {
		t.Errorf("expected scrape_success 0, got %v", got)
	}
	if got := testutil.ToFloat64(reg.ScrapeErrorsTotal.With(labels)); got != 1 {
		t.Errorf("expected exactly 1 scrape error, got %v", got)
	}
}

// TestCollectIncompleteResponse covers the soft-failure path: the response
// was reachable but had no current conditions, so the scrape is unsuccessful
// without counting as an error.
func TestCollectIncompleteResponse(t *testing.T) {
	provider := &stubProvider{err: weather.ErrNoCurrent}
	exp, reg := newTestExporter(provider, nil)

	if err := exp.Collect(context.Background(), berlin); !errors.Is(err, weather.ErrNoCurrent) {
		t.Fatalf("expected ErrNoCurrent, got %v", err)
	}

	labels := metrics.Labels(berlin)
	if got := testutil.ToFloat64(reg.ScrapeSuccess.With(labels)); got != 0 {
		t.Errorf("expected scrape_success 0, got %v", got)
	}
	if got := testutil.ToFloat64(reg.ScrapeErrorsTotal.With(labels)); got != 0 {
		t.Errorf("expected no scrape error increment, got %v", got)
	}
}

func TestCollectWithoutStore(t *testing.T) {
	provider := &stubProvider{conditions: weather.CurrentConditions{Temperature2m: 1}}
	exp, _ := newTestExporter(provider, nil)

	if err := exp.Collect(context.Background(), berlin); err != nil {
		t.Fatalf("unexpected error with nil store: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls)
	}
}
