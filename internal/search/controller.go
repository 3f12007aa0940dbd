package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelscout/reelscout/internal/movie"
	"github.com/reelscout/reelscout/internal/tmdb"
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

// Lookup is the movie search service.
type Lookup interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error)
}

// Options configures a Controller.
type Options struct {
	PageSize int
	Timeout  time.Duration
}

// Controller owns the State of one session and runs its lookups.
type Controller struct {
	lookup Lookup
	opts   Options
	logger zerolog.Logger

	mu        sync.Mutex
	state     State
	idle      chan struct{} // closed when no lookup is in flight
	listeners map[int]func(View)
	nextID    int
}

// NewController creates a controller in the initial state.
func NewController(lookup Lookup, opts Options, logger zerolog.Logger) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	idle := make(chan struct{})
	close(idle)
	return &Controller{
		lookup:    lookup,
		opts:      opts,
		logger:    logger.With().Str("component", "search").Logger(),
		state:     NewState(opts.PageSize),
		idle:      idle,
		listeners: make(map[int]func(View)),
	}
}

// Submit dispatches a lookup for query. It returns false without doing
// anything when a lookup is already in flight.
//
// A blank query completes immediately with no results and no service call.
func (c *Controller) Submit(query string) bool {
	c.mu.Lock()
	next, ok := Submit(c.state, query)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug().Str("query", query).Msg("Lookup already in progress, ignoring submit")
		return false
	}
	c.state = next
	gen := next.Generation
	done := make(chan struct{})
	c.idle = done
	c.mu.Unlock()

	c.notify()

	if strings.TrimSpace(query) == "" {
		c.finish(gen, query, []tmdb.MovieResult{}, nil, done)
		return true
	}

	go c.run(gen, query, done)
	return true
}

func (c *Controller) run(gen uint64, query string, done chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.lookup.SearchMovies(ctx, query)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	c.logger.Debug().
		Str("query", query).
		Uint64("generation", gen).
		Dur("elapsed", time.Since(start)).
		Int("results", len(raw)).
		Err(err).
		Msg("Lookup finished")

	c.finish(gen, query, raw, err, done)
}

func (c *Controller) finish(gen uint64, query string, raw []tmdb.MovieResult, err error, done chan struct{}) {
	c.mu.Lock()
	if err != nil {
		lerr := &LookupError{Query: query, Err: err}
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn().Str("query", query).Dur("timeout", c.opts.Timeout).Msg("Lookup timed out")
		} else {
			c.logger.Warn().Err(err).Str("query", query).Msg("Lookup failed")
		}
		c.state = Fail(c.state, gen, lerr)
	} else {
		c.state = Complete(c.state, gen, movie.NormalizeAll(raw))
	}
	c.mu.Unlock()

	c.notify()
	close(done)
}

// Wait blocks until no lookup is in flight or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a snapshot of the current state. Its slices must not be modified.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the projection of the current state.
func (c *Controller) View() View {
	return Project(c.State())
}

// SetMinRating changes the rating filter and returns the new view.
func (c *Controller) SetMinRating(minRating *float64) View {
	return c.apply(func(s State) State { return SetMinRating(s, minRating) })
}

// SetSort changes the sort order and returns the new view.
func (c *Controller) SetSort(sort movie.Sort) View {
	return c.apply(func(s State) State { return SetSort(s, sort) })
}

// SetPage moves to page i (0-based) and returns the new view.
func (c *Controller) SetPage(i int) View {
	return c.apply(func(s State) State { return SetPage(s, i) })
}

func (c *Controller) apply(fn func(State) State) View {
	c.mu.Lock()
	c.state = fn(c.state)
	v := Project(c.state)
	c.mu.Unlock()

	c.notify()
	return v
}

// Subscribe registers fn to receive the view after every transition. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(View)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	if len(c.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	v := Project(c.state)
	listeners := make([]func(View), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(v)
	}
}
