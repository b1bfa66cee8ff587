package exporter

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/i474232898/openmeteo-exporter/internal/metrics"
	"github.com/i474232898/openmeteo-exporter/internal/weather"
)

// Exporter collects current conditions for one location at a time and
// publishes them to the metric registry and the latest-snapshot store.
// It keeps no per-cycle state of its own; everything it remembers lives in
// the registry and store.
type Exporter struct {
	provider weather.Provider
	registry *metrics.Registry
	store    weather.Store

	// now is swappable in tests.
	now func() time.Time
}

// New creates an Exporter. store may be nil when no JSON API is served.
func New(provider weather.Provider, registry *metrics.Registry, store weather.Store) *Exporter {
	return &Exporter{
		provider: provider,
		registry: registry,
		store:    store,
		now:      time.Now,
	}
}

// Collect fetches current conditions for the location and updates the
// registry. A failure is fully absorbed here: it is logged and recorded in
// the scrape bookkeeping metrics, and the returned error exists only so the
// caller can log sweep-level context. Other locations are never affected.
//
// A reachable response without a current-conditions object flips
// scrape_success to 0 but does not increment the error counter; transport and
// parse failures do both.
func (e *Exporter) Collect(ctx context.Context, loc weather.Location) error {
	log.Printf("exporter: collecting weather data for %s (%s, %s)",
		loc.DisplayName(), loc.LatString(), loc.LonString())

	cur, err := e.provider.Fetch(ctx, loc)
	if err != nil {
		if errors.Is(err, weather.ErrNoCurrent) {
			log.Printf("exporter: no current weather data in response for %s", loc.DisplayName())
			e.registry.RecordFailure(loc, false)
			return err
		}

		log.Printf("exporter: collection failed for %s (%s, %s): %v",
			loc.DisplayName(), loc.LatString(), loc.LonString(), err)
		e.registry.RecordFailure(loc, true)
		return err
	}

	e.registry.SetCurrent(loc, cur)
	e.registry.RecordSuccess(loc, e.now())

	if e.store != nil {
		e.store.SaveSnapshot(loc, weather.Snapshot{
			Location:  loc,
			Timestamp: e.now().UTC(),
			Current:   cur,
		})
	}

	log.Printf("exporter: successfully collected weather data for %s", loc.DisplayName())
	return nil
}
