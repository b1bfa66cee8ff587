package weather

import (
	"context"
	"errors"
)

// ErrNoCurrent is returned by a provider when the response was reachable and
// parseable but carried no current-conditions object. Callers treat it as a
// soft failure: the scrape is unsuccessful, but it does not count as a scrape
// error the way a transport or parse failure does.
var ErrNoCurrent = errors.New("no current conditions in provider response")

// Provider abstracts the current-conditions data source (Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (CurrentConditions, error)
}

// Store is the contract the in-memory store (and any future persistent store)
// must satisfy.
type Store interface {
	SaveSnapshot(loc Location, snapshot Snapshot)
	GetLatest(loc Location) (Snapshot, error)
}
