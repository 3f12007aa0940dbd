package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Tester checks connectivity of a tracked dependency.
type Tester interface {
	Test(ctx context.Context) error
}

const testTimeout = 10 * time.Second

// Handlers provides HTTP handlers for health endpoints.
type Handlers struct {
	health *Service
	checks map[string]Tester
}

// NewHandlers creates health handlers. checks maps item IDs to the tester
// run by the test endpoint.
func NewHandlers(health *Service, checks map[string]Tester) *Handlers {
	return &Handlers{health: health, checks: checks}
}

// RegisterRoutes registers health routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetSummary)
	g.GET("/:id", h.GetItem)
	g.POST("/:id/test", h.TestItem)
}

// GetSummary returns every tracked item.
// GET /api/v1/system/health
func (h *Handlers) GetSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.GetSummary())
}

// GetItem returns one tracked item.
// GET /api/v1/system/health/:id
func (h *Handlers) GetItem(c echo.Context) error {
	item := h.health.GetItem(c.Param("id"))
	if item == nil {
		return echo.NewHTTPError(http.StatusNotFound, "health item not found")
	}
	return c.JSON(http.StatusOK, item)
}

// TestItem runs the connectivity check of an item and records the result.
// POST /api/v1/system/health/:id/test
func (h *Handlers) TestItem(c echo.Context) error {
	id := c.Param("id")
	tester, ok := h.checks[id]
	if !ok || h.health.GetItem(id) == nil {
		return echo.NewHTTPError(http.StatusNotFound, "health item not found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), testTimeout)
	defer cancel()

	Check(ctx, h.health, id, tester)
	return c.JSON(http.StatusOK, h.health.GetItem(id))
}

// Check runs tester and records the outcome on item id.
func Check(ctx context.Context, svc *Service, id string, tester Tester) error {
	if err := tester.Test(ctx); err != nil {
		svc.SetError(id, err.Error())
		return err
	}
	svc.ClearStatus(id)
	return nil
}
