package health

import (
	"context"
	"errors"

	"github.com/reelscout/reelscout/internal/tmdb"
)

// Lookup is the search call being tracked.
type Lookup interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error)
}

// TrackedLookup records the outcome of every search on a health item.
// Timeouts mark the item as warning, other failures as error. Lookups
// cancelled by the caller leave the status unchanged.
type TrackedLookup struct {
	next   Lookup
	health *Service
	id     string
}

// Track wraps next so its outcomes update item id.
func Track(next Lookup, svc *Service, id string) *TrackedLookup {
	return &TrackedLookup{next: next, health: svc, id: id}
}

func (t *TrackedLookup) SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error) {
	results, err := t.next.SearchMovies(ctx, query)

	switch {
	case err == nil:
		t.health.ClearStatus(t.id)
	case errors.Is(err, context.Canceled):
	case errors.Is(err, context.DeadlineExceeded):
		t.health.SetWarning(t.id, "search timed out")
	default:
		t.health.SetError(t.id, err.Error())
	}
	return results, err
}
