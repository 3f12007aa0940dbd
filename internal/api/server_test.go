package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/reelscout/reelscout/internal/config"
	"github.com/reelscout/reelscout/internal/health"
	"github.com/reelscout/reelscout/internal/scheduler"
	"github.com/reelscout/reelscout/internal/scheduler/tasks"
	"github.com/reelscout/reelscout/internal/search"
	"github.com/reelscout/reelscout/internal/tmdb/mock"
	"github.com/reelscout/reelscout/internal/websocket"
)

type testServer struct {
	*Server
	provider *mock.TMDBClient
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Session.Secret = "test-secret-test-secret-12345678"
	return cfg
}

func setupTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	provider := mock.NewTMDBClient()
	hub := websocket.NewHub(zerolog.Nop())

	sched, err := scheduler.New(zerolog.Nop())
	if err != nil {
		t.Fatalf("scheduler.New: %v", err)
	}

	server, err := NewServer(cfg, Deps{
		Provider:  provider,
		Hub:       hub,
		Scheduler: sched,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := tasks.RegisterSessionSweepTask(sched, server.Sessions()); err != nil {
		t.Fatalf("RegisterSessionSweepTask: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		sched.Stop()
	})

	return &testServer{Server: server, provider: provider}
}

// browser keeps the session cookie between requests.
type browser struct {
	t       *testing.T
	server  *testServer
	cookies map[string]*http.Cookie
}

func (ts *testServer) browser(t *testing.T) *browser {
	return &browser{t: t, server: ts, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.server.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) sendJSON(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

func (b *browser) document(target string) *goquery.Document {
	b.t.Helper()
	rec := b.get(target)
	if rec.Code != http.StatusOK {
		b.t.Fatalf("GET %s status = %d, want %d", target, rec.Code, http.StatusOK)
	}
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		b.t.Fatalf("parse HTML: %v", err)
	}
	return doc
}

// search submits a query through the JSON API and waits for it to finish.
func (b *browser) search(query string) search.View {
	b.t.Helper()
	rec := b.sendJSON(http.MethodPost, "/api/v1/search", `{"query":"`+query+`"}`)
	if rec.Code != http.StatusAccepted {
		b.t.Fatalf("POST /api/v1/search status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	return decodeView(b.t, b.get("/api/v1/search/wait?timeout=2s"))
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) search.View {
	t.Helper()
	var v search.View
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode view: %v (body %s)", err, rec.Body.String())
	}
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := httptest.NewRecorder()
		ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
		var response map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if response["status"] != "ok" {
			t.Errorf("%s status field = %q, want ok", path, response["status"])
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	rec := ts.browser(t).get("/")

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); !strings.Contains(got, "img-src 'self' data: https://image.tmdb.org") {
		t.Errorf("Content-Security-Policy = %q, want TMDB image host allowed", got)
	}
	if got := rec.Header().Get("Cache-Control"); !strings.Contains(got, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestSession_CookieAndHeader(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)

	rec := b.get("/api/v1/search")
	id := rec.Header().Get("X-Session-ID")
	if id == "" {
		t.Fatal("X-Session-ID header missing")
	}
	if _, ok := b.cookies["reelscout-session"]; !ok {
		t.Fatal("session cookie not set")
	}

	// the cookie resolves the same session
	if again := b.get("/api/v1/search").Header().Get("X-Session-ID"); again != id {
		t.Errorf("session from cookie = %q, want %q", again, id)
	}

	// the header works without a cookie
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("X-Session-ID", id)
	rec = httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Session-ID"); got != id {
		t.Errorf("session from header = %q, want %q", got, id)
	}

	if ts.Sessions().Len() != 1 {
		t.Errorf("sessions = %d, want 1", ts.Sessions().Len())
	}
}

func TestSearchAPI_InitialView(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	v := decodeView(t, ts.browser(t).get("/api/v1/search"))

	if v.Status != search.StatusInitial {
		t.Errorf("status = %v, want initial", v.Status)
	}
	if len(v.Items) != 0 || v.HasResults {
		t.Errorf("initial view has results: %+v", v)
	}
}

func TestSearchAPI_SubmitAndWait(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	v := ts.browser(t).search("matrix")

	if v.Status != search.StatusSuccess {
		t.Fatalf("status = %v, want success", v.Status)
	}
	if v.Total != 5 || v.Matching != 5 {
		t.Errorf("total/matching = %d/%d, want 5/5", v.Total, v.Matching)
	}
	if len(v.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(v.Items))
	}
	// default sort is rating, highest first
	if v.Items[0].Title != "The Matrix" {
		t.Errorf("first item = %q, want The Matrix", v.Items[0].Title)
	}
	if v.Items[4].Title != "The Matrix Resurrections" {
		t.Errorf("last item = %q, want The Matrix Resurrections", v.Items[4].Title)
	}
}

func TestSearchAPI_ConflictWhileInProgress(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.provider.Delay = 2 * time.Second
	b := ts.browser(t)

	if rec := b.sendJSON(http.MethodPost, "/api/v1/search", `{"query":"matrix"}`); rec.Code != http.StatusAccepted {
		t.Fatalf("first submit status = %d, want %d", rec.Code, http.StatusAccepted)
	}

	rec := b.sendJSON(http.MethodPost, "/api/v1/search", `{"query":"dune"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second submit status = %d, want %d", rec.Code, http.StatusConflict)
	}
	v := decodeView(t, rec)
	if v.Status != search.StatusInProgress || v.Query != "matrix" {
		t.Errorf("conflict view = %v/%q, want in_progress/matrix", v.Status, v.Query)
	}

	// a short wait returns the in-progress view instead of an error
	rec = b.get("/api/v1/search/wait?timeout=10ms")
	if rec.Code != http.StatusOK {
		t.Fatalf("wait status = %d, want %d", rec.Code, http.StatusOK)
	}
	if v := decodeView(t, rec); v.Status != search.StatusInProgress {
		t.Errorf("status after short wait = %v, want in_progress", v.Status)
	}
}

func TestSearchAPI_Failure(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.provider.Err = errors.New("connection refused")

	v := ts.browser(t).search("matrix")
	if v.Status != search.StatusFailure {
		t.Fatalf("status = %v, want failure", v.Status)
	}
	if len(v.Items) != 0 {
		t.Errorf("failure view has %d items", len(v.Items))
	}
	if item := ts.Health().GetItem(health.ProviderID); item.Message != "connection refused" {
		t.Errorf("provider health message = %q, want connection refused", item.Message)
	}
}

func TestSearchAPI_EmptyQuery(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	v := ts.browser(t).search("  ")
	if v.Status != search.StatusSuccess || v.Total != 0 {
		t.Errorf("blank query view = %v/%d, want success/0", v.Status, v.Total)
	}
}

func TestSearchAPI_FilterIsNonDestructive(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)
	b.search("matrix")

	rec := b.sendJSON(http.MethodPut, "/api/v1/search/filter", `{"minRating":7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("filter status = %d, want %d", rec.Code, http.StatusOK)
	}
	if v := decodeView(t, rec); v.Matching != 3 || v.Total != 5 {
		t.Errorf("matching/total = %d/%d, want 3/5", v.Matching, v.Total)
	}

	rec = b.sendJSON(http.MethodPut, "/api/v1/search/filter", `{"minRating":null}`)
	if v := decodeView(t, rec); v.Matching != 5 {
		t.Errorf("matching after clearing = %d, want 5", v.Matching)
	}
}

func TestSearchAPI_Sort(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)
	b.search("matrix")

	rec := b.sendJSON(http.MethodPut, "/api/v1/search/sort", `{"field":"release_date","ascending":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sort status = %d, want %d", rec.Code, http.StatusOK)
	}
	v := decodeView(t, rec)
	want := []string{"1999-03-31", "2003-05-15", "2003-06-02", "2003-11-05", "2021-12-16"}
	for i, item := range v.Items {
		if item.ReleaseDate != want[i] {
			t.Errorf("item %d date = %q, want %q", i, item.ReleaseDate, want[i])
		}
	}
}

func TestSearchAPI_Paging(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)

	v := b.search("the")
	if v.Total != 7 || v.PageCount != 2 {
		t.Fatalf("total/pageCount = %d/%d, want 7/2", v.Total, v.PageCount)
	}

	v = decodeView(t, b.sendJSON(http.MethodPut, "/api/v1/search/page", `{"page":1}`))
	if v.Page != 1 || len(v.Items) != 2 {
		t.Errorf("page/items = %d/%d, want 1/2", v.Page, len(v.Items))
	}

	// sorting resets the page
	v = decodeView(t, b.sendJSON(http.MethodPut, "/api/v1/search/sort", `{"field":"rating"}`))
	if v.Page != 0 {
		t.Errorf("page after sort = %d, want 0", v.Page)
	}

	v = decodeView(t, b.sendJSON(http.MethodPut, "/api/v1/search/page", `{"page":9}`))
	if v.Page != 1 {
		t.Errorf("clamped page = %d, want 1", v.Page)
	}
}

func TestSearchAPI_BadRequests(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"rating above range", http.MethodPut, "/api/v1/search/filter", `{"minRating":11}`},
		{"negative rating", http.MethodPut, "/api/v1/search/filter", `{"minRating":-1}`},
		{"unknown sort field", http.MethodPut, "/api/v1/search/sort", `{"field":"title"}`},
		{"missing page", http.MethodPut, "/api/v1/search/page", `{}`},
		{"negative page", http.MethodPut, "/api/v1/search/page", `{"page":-1}`},
		{"malformed body", http.MethodPost, "/api/v1/search", `{"query":`},
		{"invalid wait timeout", http.MethodGet, "/api/v1/search/wait?timeout=soon", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := b.sendJSON(tt.method, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestSession_UnknownHeaderIDIsNotAdopted(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	chosen := "0b6c7f4e-2f7a-4c1d-9a51-3f0e8d2b7c11"
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("X-Session-ID", chosen)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Session-ID")
	if got == "" || got == chosen {
		t.Fatalf("session ID = %q, want a server-minted ID", got)
	}
	if _, ok := ts.Sessions().Get(chosen); ok {
		t.Errorf("session %q created from the request header", chosen)
	}
	if _, ok := ts.Sessions().Get(got); !ok {
		t.Errorf("minted session %q not stored", got)
	}

	// a stale header falls back to the cookie
	b := ts.browser(t)
	cookieID := b.get("/api/v1/search").Header().Get("X-Session-ID")
	req = httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("X-Session-ID", chosen)
	if again := b.do(req).Header().Get("X-Session-ID"); again != cookieID {
		t.Errorf("session with stale header = %q, want cookie session %q", again, cookieID)
	}
}

func TestSearchAPI_DeleteSession(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	b := ts.browser(t)
	b.search("matrix")

	rec := b.do(httptest.NewRequest(http.MethodDelete, "/api/v1/search", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if ts.Sessions().Len() != 0 {
		t.Errorf("sessions = %d, want 0", ts.Sessions().Len())
	}

	// the next request starts over
	if v := decodeView(t, b.get("/api/v1/search")); v.Status != search.StatusInitial {
		t.Errorf("status = %v, want initial", v.Status)
	}
}

func TestGetStatus(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.browser(t).get("/api/v1/search")

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var status statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.TMDB.Name != "tmdb-mock" || !status.TMDB.Configured {
		t.Errorf("tmdb = %+v, want configured tmdb-mock", status.TMDB)
	}
	if status.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", status.Sessions)
	}
	if status.Version != config.Version {
		t.Errorf("version = %q, want %q", status.Version, config.Version)
	}
}

func TestSystemRoutes(t *testing.T) {
	ts := setupTestServer(t, testConfig())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPost, "/api/v1/system/tmdb/test", http.StatusOK},
		{http.MethodGet, "/api/v1/system/tasks", http.StatusOK},
		{http.MethodGet, "/api/v1/system/tasks/session-sweep", http.StatusOK},
		{http.MethodGet, "/api/v1/system/tasks/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/system/health", http.StatusOK},
		{http.MethodPost, "/api/v1/system/health/provider/test", http.StatusOK},
		{http.MethodGet, "/api/v1/system/health/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ts.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSystemRoutes_ProviderTestFailure(t *testing.T) {
	ts := setupTestServer(t, testConfig())
	ts.provider.Err = errors.New("unauthorized")

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/system/tmdb/test", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if got := ts.providerHealth(); got != health.StatusError {
		t.Errorf("provider health = %q, want %q", got, health.StatusError)
	}
}
