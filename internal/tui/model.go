// Package tui is the terminal front end. It drives the search state
// transitions directly from the bubbletea update loop.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelscout/reelscout/internal/search"
)

// Focus is the widget receiving key input.
type Focus int

const (
	FocusQuery Focus = iota
	FocusRating
	FocusResults
)

// Options configures a Model.
type Options struct {
	PageSize int
	Timeout  time.Duration
}

// Model is the bubbletea model of the search screen.
type Model struct {
	lookup  search.Lookup
	timeout time.Duration

	state search.State

	queryInput  textinput.Model
	ratingInput textinput.Model
	spinner     spinner.Model
	focus       Focus
	ratingErr   string

	width, height int
}

// New creates a model in the initial state with the query input focused.
func New(lookup search.Lookup, opts Options) *Model {
	if opts.PageSize <= 0 {
		opts.PageSize = search.DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = search.DefaultTimeout
	}

	qi := textinput.New()
	qi.Placeholder = "Movie Name"
	qi.Prompt = "Search: "
	qi.CharLimit = 256
	qi.Width = 40
	qi.Focus()

	ri := textinput.New()
	ri.Placeholder = "Filter by rating"
	ri.Prompt = "Min rating: "
	ri.CharLimit = 5
	ri.Width = 16

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle()

	return &Model{
		lookup:      lookup,
		timeout:     opts.Timeout,
		state:       search.NewState(opts.PageSize),
		queryInput:  qi,
		ratingInput: ri,
		spinner:     sp,
		focus:       FocusQuery,
		width:       80,
		height:      24,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current search state.
func (m *Model) State() search.State {
	return m.state
}

// SearchView returns the projection rendered on screen.
func (m *Model) SearchView() search.View {
	return search.Project(m.state)
}

// Focused returns the widget receiving key input.
func (m *Model) Focused() Focus {
	return m.focus
}
