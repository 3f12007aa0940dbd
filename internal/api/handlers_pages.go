package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apimw "github.com/reelscout/reelscout/internal/api/middleware"
	"github.com/reelscout/reelscout/internal/config"
	"github.com/reelscout/reelscout/internal/movie"
	"github.com/reelscout/reelscout/internal/search"
)

// submitGrace is how long a form submission waits for its lookup before
// redirecting, so fast lookups skip the loading page.
const submitGrace = 300 * time.Millisecond

type indexData struct {
	Version     string
	View        search.View
	Cards       []card
	Pager       pager
	MinRating   string
	SortOptions []sortOption
	Ascending   bool
	Refresh     bool
}

type card struct {
	movie.Record
	PosterURL string
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

func (s *Server) newIndexData(view search.View) indexData {
	page := indexData{
		Version:   config.Version,
		View:      view,
		Cards:     make([]card, 0, len(view.Items)),
		Pager:     buildPager(view.Page, view.PageCount),
		Ascending: view.Sort.Ascending,
		Refresh:   view.IsInProgress(),
	}

	for _, r := range view.Items {
		page.Cards = append(page.Cards, card{
			Record:    r,
			PosterURL: movie.PosterURL(s.cfg.TMDB.ImageBaseURL, s.cfg.TMDB.PosterSize, r.PosterPath),
		})
	}

	if view.MinRating != nil {
		page.MinRating = strconv.FormatFloat(*view.MinRating, 'f', -1, 64)
	}

	for _, f := range []movie.SortField{movie.SortByRating, movie.SortByReleaseDate} {
		page.SortOptions = append(page.SortOptions, sortOption{
			Value:    f.String(),
			Label:    f.Label(),
			Selected: f == view.Sort.Field,
		})
	}
	return page
}

// indexPage renders the search page. ?page=N selects a 1-based page.
// GET /
func (s *Server) indexPage(c echo.Context) error {
	controller := apimw.Controller(c)
	view := controller.View()

	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		view = controller.SetPage(n - 1)
	}

	return c.Render(http.StatusOK, "index", s.newIndexData(view))
}

// submitSearchForm starts a lookup and redirects back to the page.
// POST /search
func (s *Server) submitSearchForm(c echo.Context) error {
	controller := apimw.Controller(c)

	if controller.Submit(c.FormValue("query")) {
		ctx, cancel := context.WithTimeout(c.Request().Context(), submitGrace)
		defer cancel()
		_ = controller.Wait(ctx)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// filterForm sets or clears the minimum rating.
// POST /filter
func (s *Server) filterForm(c echo.Context) error {
	minRating, err := parseMinRating(c.FormValue("min_rating"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	apimw.Controller(c).SetMinRating(minRating)
	return c.Redirect(http.StatusSeeOther, "/")
}

// sortForm changes the sort order.
// POST /sort
func (s *Server) sortForm(c echo.Context) error {
	field, err := movie.ParseSortField(c.FormValue("sort"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	apimw.Controller(c).SetSort(movie.Sort{
		Field:     field,
		Ascending: parseCheckbox(c.FormValue("ascending")),
	})
	return c.Redirect(http.StatusSeeOther, "/")
}

// parseCheckbox treats any of the usual truthy form values as checked.
func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
