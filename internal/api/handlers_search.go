package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apimw "github.com/reelscout/reelscout/internal/api/middleware"
	"github.com/reelscout/reelscout/internal/movie"
)

const (
	defaultWaitTimeout = 5 * time.Second
	maxWaitTimeout     = 30 * time.Second
	maxRating          = 10
)

var errInvalidMinRating = errors.New("min rating must be a number between 0 and 10")

type submitRequest struct {
	Query string `json:"query" form:"query"`
}

type filterRequest struct {
	MinRating *float64 `json:"minRating"`
}

type sortRequest struct {
	Field     string `json:"field"`
	Ascending bool   `json:"ascending"`
}

type pageRequest struct {
	Page *int `json:"page"`
}

// getSearch returns the session's current view.
// GET /api/v1/search
func (s *Server) getSearch(c echo.Context) error {
	return c.JSON(http.StatusOK, apimw.Controller(c).View())
}

// postSearch starts a lookup. The response is 202 with the in-progress view,
// or 409 with the current view when a lookup is already running.
// POST /api/v1/search
func (s *Server) postSearch(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	controller := apimw.Controller(c)
	if !controller.Submit(req.Query) {
		return c.JSON(http.StatusConflict, controller.View())
	}
	return c.JSON(http.StatusAccepted, controller.View())
}

// putFilter sets the minimum rating; null clears it.
// PUT /api/v1/search/filter
func (s *Server) putFilter(c echo.Context) error {
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.MinRating != nil && !validRating(*req.MinRating) {
		return echo.NewHTTPError(http.StatusBadRequest, errInvalidMinRating.Error())
	}

	return c.JSON(http.StatusOK, apimw.Controller(c).SetMinRating(req.MinRating))
}

// putSort changes the sort order.
// PUT /api/v1/search/sort
func (s *Server) putSort(c echo.Context) error {
	var req sortRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	field, err := movie.ParseSortField(req.Field)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, apimw.Controller(c).SetSort(movie.Sort{
		Field:     field,
		Ascending: req.Ascending,
	}))
}

// putPage selects a 0-based page. Out of range pages are clamped.
// PUT /api/v1/search/page
func (s *Server) putPage(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Page == nil || *req.Page < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "page must be a non-negative integer")
	}

	return c.JSON(http.StatusOK, apimw.Controller(c).SetPage(*req.Page))
}

// waitSearch blocks until the running lookup finishes or the timeout passes,
// then returns the view. A timeout is not an error; the view is still in
// progress.
// GET /api/v1/search/wait?timeout=5s
func (s *Server) waitSearch(c echo.Context) error {
	timeout, err := parseWaitTimeout(c.QueryParam("timeout"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	controller := apimw.Controller(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()
	if err := controller.Wait(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		// client went away
		return err
	}

	return c.JSON(http.StatusOK, controller.View())
}

// deleteSession discards the session's search state.
// DELETE /api/v1/search
func (s *Server) deleteSession(c echo.Context) error {
	s.sessions.Delete(apimw.SessionID(c))
	return c.NoContent(http.StatusNoContent)
}

// parseMinRating reads a form value. Blank clears the filter.
func parseMinRating(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validRating(v) {
		return nil, errInvalidMinRating
	}
	return &v, nil
}

func validRating(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= maxRating
}

func parseWaitTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return defaultWaitTimeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q", raw)
	}
	return min(d, maxWaitTimeout), nil
}
