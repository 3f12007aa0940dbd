package tui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelscout/reelscout/internal/movie"
	"github.com/reelscout/reelscout/internal/search"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case lookupResultMsg:
		m.handleLookupResult(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state.Status != search.StatusInProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		return m, m.cycleFocus(1)
	case "shift+tab":
		return m, m.cycleFocus(-1)
	case "pgdown":
		m.state = search.SetPage(m.state, m.state.Page+1)
		return m, nil
	case "pgup":
		m.state = search.SetPage(m.state, m.state.Page-1)
		return m, nil
	}

	switch m.focus {
	case FocusQuery:
		if msg.Type == tea.KeyEnter {
			return m, m.submit()
		}
	case FocusRating:
		if msg.Type == tea.KeyEnter {
			m.applyRating()
			return m, nil
		}
	case FocusResults:
		m.handleResultsKey(msg)
		return m, nil
	}

	return m, m.updateFocusedInput(msg)
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "s":
		sort := m.state.Sort
		if sort.Field == movie.SortByRating {
			sort.Field = movie.SortByReleaseDate
		} else {
			sort.Field = movie.SortByRating
		}
		m.state = search.SetSort(m.state, sort)
	case "o":
		sort := m.state.Sort
		sort.Ascending = !sort.Ascending
		m.state = search.SetSort(m.state, sort)
	case "right", "l":
		m.state = search.SetPage(m.state, m.state.Page+1)
	case "left", "h":
		m.state = search.SetPage(m.state, m.state.Page-1)
	}
}

// submit dispatches a lookup for the query input. It does nothing while a
// lookup is in flight.
func (m *Model) submit() tea.Cmd {
	query := m.queryInput.Value()
	next, ok := search.Submit(m.state, query)
	if !ok {
		return nil
	}
	m.state = next

	if strings.TrimSpace(query) == "" {
		m.state = search.Complete(m.state, next.Generation, []movie.Record{})
		return nil
	}

	return tea.Batch(
		lookupCmd(m.lookup, next.Generation, query, m.timeout),
		m.spinner.Tick,
	)
}

func (m *Model) handleLookupResult(msg lookupResultMsg) {
	if msg.Err != nil {
		m.state = search.Fail(m.state, msg.Generation, &search.LookupError{Query: msg.Query, Err: msg.Err})
		return
	}
	m.state = search.Complete(m.state, msg.Generation, movie.NormalizeAll(msg.Results))

	// the rating input is only reachable with results
	if !search.Project(m.state).HasResults && m.focus != FocusQuery {
		m.setFocus(FocusQuery)
	}
}

// applyRating sets the filter from the rating input. Blank clears it.
func (m *Model) applyRating() {
	raw := strings.TrimSpace(m.ratingInput.Value())
	if raw == "" {
		m.ratingErr = ""
		m.state = search.SetMinRating(m.state, nil)
		return
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 10 {
		m.ratingErr = "rating must be a number between 0 and 10"
		return
	}
	m.ratingErr = ""
	m.state = search.SetMinRating(m.state, &v)
}

// focusOrder lists the focusable widgets. Filter and results only take
// focus once a search returned something.
func (m *Model) focusOrder() []Focus {
	if search.Project(m.state).HasResults {
		return []Focus{FocusQuery, FocusRating, FocusResults}
	}
	return []Focus{FocusQuery}
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	order := m.focusOrder()
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(order)) % len(order)
	return m.setFocus(order[idx])
}

func (m *Model) setFocus(f Focus) tea.Cmd {
	m.focus = f
	m.queryInput.Blur()
	m.ratingInput.Blur()

	switch f {
	case FocusQuery:
		return m.queryInput.Focus()
	case FocusRating:
		return m.ratingInput.Focus()
	case FocusResults:
	}
	return nil
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case FocusQuery:
		m.queryInput, cmd = m.queryInput.Update(msg)
	case FocusRating:
		m.ratingInput, cmd = m.ratingInput.Update(msg)
	case FocusResults:
	}
	return cmd
}
