// Package search holds the per-session search state and the transitions that
// move it between statuses.
//
// State is a value. Every transition takes a State and returns a new one; the
// input is never modified. Controller wraps the transitions with the lookup
// side effect and change notification.
package search

import (
	"fmt"

	"github.com/reelscout/reelscout/internal/movie"
)

// DefaultPageSize is the number of records on one page.
const DefaultPageSize = 5

// Status is the lifecycle position of a search.
type Status int

const (
	StatusInitial Status = iota
	StatusInProgress
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusInProgress:
		return "in_progress"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusInitial, StatusInProgress, StatusSuccess, StatusFailure} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown search status %q", text)
}

// State is the search state of one session.
type State struct {
	Query     string
	Status    Status
	Results   []movie.Record // full list from the last successful lookup
	MinRating *float64
	Sort      movie.Sort
	Page      int // 0-based
	PageSize  int
	Err       string
	// Generation is bumped for every dispatched lookup. Completions carrying
	// an older generation are dropped.
	Generation uint64
}

// NewState returns the state shown before any search.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Status:   StatusInitial,
		Results:  []movie.Record{},
		Sort:     movie.DefaultSort(),
		PageSize: pageSize,
	}
}

// Submit starts a lookup for query. It reports false and returns s unchanged
// while a lookup is already in progress.
func Submit(s State, query string) (State, bool) {
	switch s.Status {
	case StatusInProgress:
		return s, false
	case StatusInitial, StatusSuccess, StatusFailure:
	}
	s.Query = query
	s.Status = StatusInProgress
	s.Err = ""
	s.Generation++
	return s, true
}

// Complete stores the records of a successful lookup.
func Complete(s State, gen uint64, records []movie.Record) State {
	if s.Status != StatusInProgress || s.Generation != gen {
		return s
	}
	if records == nil {
		records = []movie.Record{}
	}
	s.Results = records
	s.Status = StatusSuccess
	s.Page = 0
	s.Err = ""
	return s
}

// Fail records a failed lookup. Results from earlier searches are cleared.
func Fail(s State, gen uint64, err error) State {
	if s.Status != StatusInProgress || s.Generation != gen {
		return s
	}
	s.Results = []movie.Record{}
	s.Status = StatusFailure
	s.Page = 0
	if err != nil {
		s.Err = err.Error()
	}
	return s
}

// SetMinRating replaces the rating filter. nil removes it.
func SetMinRating(s State, minRating *float64) State {
	if minRating != nil {
		v := *minRating
		minRating = &v
	}
	s.MinRating = minRating
	s.Page = 0
	return s
}

// SetSort replaces the sort order.
func SetSort(s State, sort movie.Sort) State {
	s.Sort = sort
	s.Page = 0
	return s
}

// SetPage moves to page i, clamped to the pages that exist.
func SetPage(s State, i int) State {
	count := movie.PageCount(len(Working(s)), s.PageSize)
	switch {
	case count == 0 || i < 0:
		i = 0
	case i >= count:
		i = count - 1
	}
	s.Page = i
	return s
}

// Working derives the filtered and sorted list from the full results.
func Working(s State) []movie.Record {
	return movie.SortRecords(movie.Filter(s.Results, s.MinRating), s.Sort)
}
