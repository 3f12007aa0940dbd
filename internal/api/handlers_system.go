package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reelscout/reelscout/internal/config"
	"github.com/reelscout/reelscout/internal/health"
	"github.com/reelscout/reelscout/internal/reporting"
)

const providerTestTimeout = 10 * time.Second

type providerStatus struct {
	Name       string        `json:"name"`
	Configured bool          `json:"configured"`
	Health     health.Status `json:"health"`
}

type statusResponse struct {
	Version          string         `json:"version"`
	StartTime        time.Time      `json:"startTime"`
	Uptime           string         `json:"uptime"`
	DeveloperMode    bool           `json:"developerMode"`
	ErrorReporting   bool           `json:"errorReporting"`
	TMDB             providerStatus `json:"tmdb"`
	Sessions         int            `json:"sessions"`
	WebsocketClients int            `json:"websocketClients"`
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getStatus reports version and runtime counters.
// GET /api/v1/status
func (s *Server) getStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Version:        config.Version,
		StartTime:      s.startTime,
		Uptime:         time.Since(s.startTime).Round(time.Second).String(),
		DeveloperMode:  s.cfg.DeveloperMode,
		ErrorReporting: reporting.Enabled(),
		TMDB: providerStatus{
			Name:       s.provider.Name(),
			Configured: s.provider.IsConfigured(),
			Health:     s.providerHealth(),
		},
		Sessions:         s.sessions.Len(),
		WebsocketClients: s.hub.ClientCount(),
	})
}

// testProvider checks the movie search credentials.
// POST /api/v1/system/tmdb/test
func (s *Server) testProvider(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), providerTestTimeout)
	defer cancel()

	if err := health.Check(ctx, s.health, health.ProviderID, s.provider); err != nil {
		s.logger.Warn().Err(err).Str("provider", s.provider.Name()).Msg("Provider test failed")
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Connection successful",
		"provider": s.provider.Name(),
	})
}

func (s *Server) providerHealth() health.Status {
	if item := s.health.GetItem(health.ProviderID); item != nil {
		return item.Status
	}
	return health.StatusOK
}
