package tui

import "github.com/reelscout/reelscout/internal/tmdb"

// lookupResultMsg carries the outcome of the lookup dispatched for Generation.
type lookupResultMsg struct {
	Generation uint64
	Query      string
	Results    []tmdb.MovieResult
	Err        error
}
