package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/openmeteo-exporter/internal/exporter"
	"github.com/i474232898/openmeteo-exporter/internal/weather"
)

// ErrNoLocations is returned when Start is called with an empty location
// list. The process is expected to treat it as fatal rather than idling with
// nothing to collect.
var ErrNoLocations = errors.New("no locations configured")

// Scheduler periodically collects weather data for the configured locations.
// It runs until Stop is called; collection failures never stop it.
type Scheduler struct {
	scheduler *gocron.Scheduler
	exporter  *exporter.Exporter
	locations []weather.Location
	interval  time.Duration

	// fetchTimeout bounds each location's collection within a sweep.
	fetchTimeout time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, exp *exporter.Exporter) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		exporter:     exp,
		locations:    locations,
		interval:     interval,
		fetchTimeout: 30 * time.Second,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
// The first sweep runs immediately, then every interval.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		return ErrNoLocations
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).StartImmediately().Do(s.Sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Sweep collects every configured location once. Locations are independent,
// so they are collected concurrently; each failure stays inside its own
// collection. The recover is a second line of defense so a sweep can never
// take the process down.
func (s *Scheduler) Sweep() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: recovered from sweep failure: %v", r)
		}
	}()

	log.Println("scheduler: running weather collection sweep")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("scheduler: recovered from collection panic for %s: %v",
						loc.DisplayName(), r)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
			defer cancel()

			// Collect records and logs its own failures.
			_ = s.exporter.Collect(ctx, loc)
		}()
	}
	wg.Wait()

	log.Println("scheduler: completed weather collection sweep")
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
