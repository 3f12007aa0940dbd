//nolint:revive // Package name 'api' is intentionally generic for the HTTP API layer
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/reelscout/reelscout/internal/config"
	"github.com/reelscout/reelscout/internal/health"
	"github.com/reelscout/reelscout/internal/reporting"
	"github.com/reelscout/reelscout/internal/scheduler"
	"github.com/reelscout/reelscout/internal/search"
	"github.com/reelscout/reelscout/internal/session"
	"github.com/reelscout/reelscout/internal/websocket"
	"github.com/reelscout/reelscout/web"
)

// Provider is the movie search service behind every session's controller.
type Provider interface {
	search.Lookup
	Name() string
	IsConfigured() bool
	Test(ctx context.Context) error
}

// Deps are the collaborators the server is built from. Scheduler and Logs
// are optional; their routes are not registered when nil.
type Deps struct {
	Provider  Provider
	Hub       *websocket.Hub
	Scheduler *scheduler.Scheduler
	Logs      LogsProvider
}

// Server is the HTTP front end.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger zerolog.Logger

	provider  Provider
	hub       *websocket.Hub
	scheduler *scheduler.Scheduler
	logs      LogsProvider

	sessions *session.Store
	cookies  *session.Cookies
	health   *health.Service

	startTime time.Time
}

// NewServer creates the HTTP server and its session store.
func NewServer(cfg *config.Config, deps Deps, logger zerolog.Logger) (*Server, error) {
	if deps.Provider == nil {
		return nil, errors.New("api: a movie search provider is required")
	}
	if deps.Hub == nil {
		return nil, errors.New("api: a websocket hub is required")
	}

	renderer, err := NewRenderer(web.Templates())
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	s := &Server{
		echo:      e,
		cfg:       cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		provider:  deps.Provider,
		hub:       deps.Hub,
		scheduler: deps.Scheduler,
		logs:      deps.Logs,
		cookies:   session.NewCookies(cfg.Session),
		health:    health.NewService(logger),
		startTime: time.Now(),
	}

	s.health.SetBroadcaster(deps.Hub)
	s.health.RegisterItem(health.ProviderID, deps.Provider.Name())
	lookup := health.Track(deps.Provider, s.health, health.ProviderID)

	opts := search.Options{
		PageSize: cfg.Search.PageSize,
		Timeout:  cfg.Search.LookupTimeout,
	}
	s.sessions = session.NewStore(session.Config{
		TTL:         cfg.Session.TTL,
		MaxSessions: cfg.Session.MaxSessions,
	}, func() *search.Controller {
		return search.NewController(lookup, opts, logger)
	}, logger)

	// open sockets hold the old controller; drop them so the browser
	// reconnects to whatever session replaces it
	s.sessions.OnRemove(func(id string) {
		s.hub.CloseSession(id)
	})
	s.hub.SetMessageHandler(s.handleClientMessage)

	e.HTTPErrorHandler = s.handleError
	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// handleError reports server errors before delegating to echo's default
// JSON error response.
func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	if code >= http.StatusInternalServerError {
		reporting.CaptureError(c, err)
	}

	s.echo.DefaultHTTPErrorHandler(err, c)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Sessions returns the session store, for the sweep task.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Health returns the dependency health tracker, for the provider check task.
func (s *Server) Health() *health.Service {
	return s.health
}
