package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelscout/reelscout/internal/search"
)

// lookupCmd runs one lookup bounded by timeout.
func lookupCmd(lookup search.Lookup, gen uint64, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		raw, err := lookup.SearchMovies(ctx, query)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		return lookupResultMsg{Generation: gen, Query: query, Results: raw, Err: err}
	}
}
