package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const searchPrompt = "Search the movies in the search bar to get movie details"

func titles(doc *goquery.Document) []string {
	var out []string
	doc.Find(".movie-card-container .movie-title").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func submitForm(t *testing.T, b *browser, path string, form url.Values) {
	t.Helper()
	rec := b.postForm(path, form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST %s status = %d, want %d (body %s)", path, rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("POST %s redirect = %q, want /", path, loc)
	}
}

func TestIndexPage_Initial(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	doc := ts.browser(t).document("/")

	if got, _ := doc.Find("body").Attr("data-status"); got != "initial" {
		t.Errorf("data-status = %q, want initial", got)
	}
	if got := strings.TrimSpace(doc.Find("h1.search-heading").Text()); got != searchPrompt {
		t.Errorf("heading = %q, want prompt", got)
	}
	if doc.Find("input[name=query]").Length() != 1 {
		t.Error("query input missing")
	}
	if n := doc.Find("form[action='/filter'], form[action='/sort']").Length(); n != 0 {
		t.Errorf("found %d filter/sort forms without results", n)
	}
	if doc.Find(".pagination").Length() != 0 {
		t.Error("pager shown without results")
	}
	if doc.Find("meta[http-equiv=refresh]").Length() != 0 {
		t.Error("initial page should not auto refresh")
	}
}

func TestIndexPage_SearchResults(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)

	submitForm(t, b, "/search", url.Values{"query": {"matrix"}})
	doc := b.document("/")

	if got, _ := doc.Find("body").Attr("data-status"); got != "success" {
		t.Fatalf("data-status = %q, want success", got)
	}

	want := []string{"The Matrix", "The Animatrix", "The Matrix Reloaded", "The Matrix Revolutions", "The Matrix Resurrections"}
	got := titles(doc)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("titles = %v, want %v", got, want)
	}

	first := doc.Find(".movie-card-container").First()
	if src, _ := first.Find("img.movie-poster").Attr("src"); src != "https://image.tmdb.org/t/p/w400/p96dm7sCMn4VYAStA6siNz30G1r.jpg" {
		t.Errorf("poster src = %q", src)
	}
	if text := first.Find(".release-date").Text(); !strings.Contains(text, "1999-03-31") {
		t.Errorf("release date = %q", text)
	}
	if text := first.Find(".rating").Text(); !strings.Contains(text, "8.2") || !strings.Contains(text, "26,104 votes") {
		t.Errorf("rating = %q", text)
	}

	// the fixture without a poster renders a placeholder
	if doc.Find("[data-movie-id='55931'] .movie-poster-missing").Length() != 1 {
		t.Error("missing poster placeholder not rendered")
	}

	if doc.Find("form[action='/filter']").Length() != 1 || doc.Find("form[action='/sort']").Length() != 1 {
		t.Error("filter and sort forms should be shown with results")
	}
	if got, _ := doc.Find("select[name=sort] option[selected]").Attr("value"); got != "rating" {
		t.Errorf("selected sort = %q, want rating", got)
	}
	if doc.Find(".pagination").Length() != 0 {
		t.Error("pager shown for a single page")
	}
	if got, _ := doc.Find("input[name=query]").Attr("value"); got != "matrix" {
		t.Errorf("query input value = %q, want matrix", got)
	}
}

func TestIndexPage_Pagination(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)

	submitForm(t, b, "/search", url.Values{"query": {"the"}})
	doc := b.document("/")

	if n := len(titles(doc)); n != 5 {
		t.Fatalf("first page cards = %d, want 5", n)
	}
	if got := strings.TrimSpace(doc.Find(".pagination li.active").Text()); got != "1" {
		t.Errorf("active page = %q, want 1", got)
	}
	if href, _ := doc.Find(".pagination a[rel=next]").Attr("href"); href != "/?page=2" {
		t.Errorf("next href = %q, want /?page=2", href)
	}
	if doc.Find(".pagination li.previous.disabled").Length() != 1 {
		t.Error("previous should be disabled on the first page")
	}

	doc = b.document("/?page=2")
	if n := len(titles(doc)); n != 2 {
		t.Errorf("second page cards = %d, want 2", n)
	}
	if got := strings.TrimSpace(doc.Find(".pagination li.active").Text()); got != "2" {
		t.Errorf("active page = %q, want 2", got)
	}

	// the page persists in the session
	doc = b.document("/")
	if got := strings.TrimSpace(doc.Find(".pagination li.active").Text()); got != "2" {
		t.Errorf("active page after reload = %q, want 2", got)
	}
}

func TestIndexPage_InvalidPage(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)

	for _, page := range []string{"abc", "0", "-3"} {
		if rec := b.get("/?page=" + page); rec.Code != http.StatusBadRequest {
			t.Errorf("page=%s status = %d, want %d", page, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestFilterForm(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)
	submitForm(t, b, "/search", url.Values{"query": {"matrix"}})

	submitForm(t, b, "/filter", url.Values{"min_rating": {"8"}})
	doc := b.document("/")
	if got := titles(doc); len(got) != 1 || got[0] != "The Matrix" {
		t.Errorf("filtered titles = %v, want [The Matrix]", got)
	}
	if got, _ := doc.Find("input[name=min_rating]").Attr("value"); got != "8" {
		t.Errorf("min_rating value = %q, want 8", got)
	}

	// loosening the filter brings the other records back
	submitForm(t, b, "/filter", url.Values{"min_rating": {""}})
	if n := len(titles(b.document("/"))); n != 5 {
		t.Errorf("cards after clearing filter = %d, want 5", n)
	}

	if rec := b.postForm("/filter", url.Values{"min_rating": {"lots"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid rating status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestFilterForm_NothingMatches(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)
	submitForm(t, b, "/search", url.Values{"query": {"matrix"}})
	submitForm(t, b, "/filter", url.Values{"min_rating": {"9.5"}})

	doc := b.document("/")
	if got := strings.TrimSpace(doc.Find("h1.search-heading").Text()); got != searchPrompt {
		t.Errorf("heading = %q, want prompt", got)
	}
	// the controls stay so the filter can be loosened
	if doc.Find("form[action='/filter']").Length() != 1 {
		t.Error("filter form hidden after filtering everything out")
	}
}

func TestSortForm(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)
	submitForm(t, b, "/search", url.Values{"query": {"matrix"}})

	submitForm(t, b, "/sort", url.Values{"sort": {"release_date"}, "ascending": {"on"}})
	doc := b.document("/")

	want := []string{"The Matrix", "The Matrix Reloaded", "The Animatrix", "The Matrix Revolutions", "The Matrix Resurrections"}
	if got := titles(doc); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("titles = %v, want %v", got, want)
	}
	if _, checked := doc.Find("input[name=ascending]").Attr("checked"); !checked {
		t.Error("ascending checkbox should be checked")
	}

	if rec := b.postForm("/sort", url.Values{"sort": {"title"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid sort status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestIndexPage_NoMatches(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)
	submitForm(t, b, "/search", url.Values{"query": {"zzzz"}})

	doc := b.document("/")
	if got := strings.TrimSpace(doc.Find("h1.search-heading").Text()); got != searchPrompt {
		t.Errorf("heading = %q, want prompt", got)
	}
	if doc.Find("form[action='/filter']").Length() != 0 {
		t.Error("filter form shown without results")
	}
}

func TestIndexPage_Failure(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.provider.Err = errors.New("connection reset")
	b := ts.browser(t)
	submitForm(t, b, "/search", url.Values{"query": {"matrix"}})

	doc := b.document("/")
	if got := strings.TrimSpace(doc.Find(".failure-view h1").Text()); got != "Failure" {
		t.Errorf("failure heading = %q, want Failure", got)
	}
	if strings.Contains(doc.Text(), "connection reset") {
		t.Error("failure view leaks the underlying error")
	}
	if len(titles(doc)) != 0 {
		t.Error("failure view shows records")
	}
}

func TestIndexPage_InProgress(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.provider.Delay = 2 * time.Second
	b := ts.browser(t)
	submitForm(t, b, "/search", url.Values{"query": {"matrix"}})

	doc := b.document("/")
	if got, _ := doc.Find("body").Attr("data-status"); got != "in_progress" {
		t.Errorf("data-status = %q, want in_progress", got)
	}
	if doc.Find(".loader-container").Length() != 1 {
		t.Error("loader not shown")
	}
	if doc.Find("meta[http-equiv=refresh]").Length() != 1 {
		t.Error("in-progress page should auto refresh")
	}
	if _, disabled := doc.Find("button.search-button").Attr("disabled"); !disabled {
		t.Error("search button should be disabled while in progress")
	}
}

func TestStaticAssets(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)

	for _, path := range []string{"/static/style.css", "/static/app.js"} {
		if rec := b.get(path); rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
