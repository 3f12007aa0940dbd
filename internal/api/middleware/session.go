package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/reelscout/reelscout/internal/search"
	"github.com/reelscout/reelscout/internal/session"
)

const (
	// SessionHeader lets API clients without a cookie jar carry their session.
	SessionHeader = "X-Session-ID"

	controllerKey = "searchController"
	sessionIDKey  = "sessionID"
)

// Session resolves the caller's session, creating one when needed, and stores
// its controller on the context. A SessionHeader ID is only honoured while that
// session is live; otherwise the signed cookie decides, and a new session gets
// a server-minted ID. The ID is written back to both.
func Session(store *session.Store, cookies *session.Cookies, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			var (
				controller *search.Controller
				id         string
			)
			if requested := req.Header.Get(SessionHeader); requested != "" {
				if existing, ok := store.Get(requested); ok {
					controller, id = existing, requested
				}
			}
			if controller == nil {
				controller, id = store.GetOrCreate(cookies.ID(req))
			}

			if err := cookies.Save(c.Response(), req, id); err != nil {
				logger.Warn().Err(err).Msg("Failed to write session cookie")
			}
			c.Response().Header().Set(SessionHeader, id)

			c.Set(controllerKey, controller)
			c.Set(sessionIDKey, id)
			return next(c)
		}
	}
}

// Controller returns the search controller of the request's session.
func Controller(c echo.Context) *search.Controller {
	controller, _ := c.Get(controllerKey).(*search.Controller)
	return controller
}

// SessionID returns the request's session ID.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}
