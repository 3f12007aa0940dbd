package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/reelscout/reelscout/internal/api/handlers"
	apimw "github.com/reelscout/reelscout/internal/api/middleware"
	"github.com/reelscout/reelscout/internal/health"
	"github.com/reelscout/reelscout/internal/reporting"
	"github.com/reelscout/reelscout/web"
)

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Panics are reported before Recover turns them into a 500
	if reporting.Enabled() {
		s.echo.Use(reporting.Middleware())
	}

	// Request ID
	s.echo.Use(middleware.RequestID())

	// Security headers
	s.echo.Use(apimw.SecurityHeaders(s.cfg.TMDB.ImageBaseURL))

	// Request body size limit
	s.echo.Use(middleware.BodyLimit("1M"))

	// Request logging
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/static/")
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	// Gzip compression
	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.StaticFS("/static", web.Static())

	sess := apimw.Session(s.sessions, s.cookies, s.logger)

	// Server-rendered pages
	pages := s.echo.Group("", sess)
	pages.GET("/", s.indexPage)
	pages.POST("/search", s.submitSearchForm)
	pages.POST("/filter", s.filterForm)
	pages.POST("/sort", s.sortForm)
	pages.GET("/ws", s.serveWebSocket)

	api := s.echo.Group("/api/v1")
	api.GET("/health", s.healthCheck)
	api.GET("/status", s.getStatus)

	searchGroup := api.Group("/search", sess)
	searchGroup.GET("", s.getSearch)
	searchGroup.POST("", s.postSearch)
	searchGroup.PUT("/filter", s.putFilter)
	searchGroup.PUT("/sort", s.putSort)
	searchGroup.PUT("/page", s.putPage)
	searchGroup.GET("/wait", s.waitSearch)
	searchGroup.DELETE("", s.deleteSession)

	system := api.Group("/system")
	system.POST("/tmdb/test", s.testProvider)
	health.NewHandlers(s.health, map[string]health.Tester{
		health.ProviderID: s.provider,
	}).RegisterRoutes(system.Group("/health"))
	if s.scheduler != nil {
		handlers.NewSchedulerHandler(s.scheduler).RegisterRoutes(system.Group("/tasks"))
	}
	if s.logs != nil {
		NewLogsHandlers(s.logs).RegisterRoutes(system.Group("/logs"))
	}
}
