package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTrackedServer(t *testing.T) (*gin.Engine, *Tracker) {
	t.Helper()

	cfg := testConfig(t)
	cfg.TrackingEnabled = true
	cfg.Admin = AdminConfig{Username: "owner", Password: "hunter22"}

	store := openTestStore(t)
	tracker, err := newTracker(store, zap.NewNop())
	require.NoError(t, err)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return fixed }

	return newTestServer(t, cfg, Deps{Tracker: tracker}), tracker
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()

	rec := doRequest(r, http.MethodPost, "/admin/login", url.Values{
		"username": {"owner"},
		"password": {"hunter22"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	for _, c := range rec.Result().Cookies() {
		if c.Name == adminCookie {
			return c
		}
	}
	t.Fatal("admin cookie not set")
	return nil
}

func authedRequest(r http.Handler, cookie *http.Cookie, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTrackerRecordsPagesAndProjects(t *testing.T) {
	r, tracker := newTrackedServer(t)

	doRequest(r, http.MethodGet, "/", nil)
	doRequest(r, http.MethodGet, "/?section=work", nil)
	doRequest(r, http.MethodGet, "/work/4", nil)
	doRequest(r, http.MethodGet, "/work/4", nil)
	doRequest(r, http.MethodGet, "/work/42", nil)
	doRequest(r, http.MethodGet, "/static/app.css", nil)
	doRequest(r, http.MethodGet, "/healthz", nil)

	dnt := httptest.NewRequest(http.MethodGet, "/", nil)
	dnt.Header.Set("DNT", "1")
	r.ServeHTTP(httptest.NewRecorder(), dnt)

	stats, err := tracker.store.Stats(context.Background(), tracker.now())
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.TotalVisits, "only page requests without DNT are counted")
	require.EqualValues(t, 1, stats.UniqueVisitors)
	require.Equal(t, []ProjectStat{{Index: 4, Views: 2}}, stats.TopProjects)
	require.Len(t, stats.RecentVisits[0].HashedIP, 16)
}

func TestTrackerSkipsUnmatchedAndFailedRequests(t *testing.T) {
	r, tracker := newTrackedServer(t)

	rec := doRequest(r, http.MethodGet, "/wp-login.php", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	doRequest(r, http.MethodGet, "/.env", nil)
	doRequest(r, http.MethodGet, "/", nil)

	stats, err := tracker.store.Stats(context.Background(), tracker.now())
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalVisits, "only the rendered home page counts")
	require.Len(t, stats.RecentVisits, 1)
	require.Equal(t, "/", stats.RecentVisits[0].Path)
}

func TestHashIPIsStableAndOpaque(t *testing.T) {
	t.Parallel()

	tracker, err := newTracker(nil, zap.NewNop())
	require.NoError(t, err)

	a := tracker.hashIP("203.0.113.7")
	require.Equal(t, a, tracker.hashIP("203.0.113.7"))
	require.NotEqual(t, a, tracker.hashIP("203.0.113.8"))
	require.NotContains(t, a, "203")
}

func TestAdminRequiresLogin(t *testing.T) {
	r, _ := newTrackedServer(t)

	for _, target := range []string{"/admin/dashboard", "/admin/api/stats", "/admin/export/stats"} {
		rec := doRequest(r, http.MethodGet, target, nil)
		require.Equal(t, http.StatusFound, rec.Code, target)
		require.Equal(t, "/admin/login", rec.Header().Get("Location"))
	}

	bogus := &http.Cookie{Name: adminCookie, Value: "guess"}
	rec := authedRequest(r, bogus, http.MethodGet, "/admin/dashboard")
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTrackedServer(t)

	rec := doRequest(r, http.MethodPost, "/admin/login", url.Values{
		"username": {"owner"},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Invalid credentials", strings.TrimSpace(doc.Find(".login-error").Text()))
}

func TestAdminDashboardAndAPI(t *testing.T) {
	r, _ := newTrackedServer(t)
	doRequest(r, http.MethodGet, "/", nil)
	doRequest(r, http.MethodGet, "/work/2", nil)

	cookie := login(t, r)

	rec := authedRequest(r, cookie, http.MethodGet, "/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, "1", strings.TrimSpace(doc.Find("#total-visits").Text()))
	require.Equal(t, "1", strings.TrimSpace(doc.Find("#project-views").Text()))
	require.Contains(t, doc.Find(".top-projects tbody").Text(), "Project 2")

	rec = authedRequest(r, cookie, http.MethodGet, "/admin/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.EqualValues(t, 1, stats.TotalVisits)

	rec = authedRequest(r, cookie, http.MethodGet, "/admin/export/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "admin-stats.json")

	rec = authedRequest(r, cookie, http.MethodPost, "/admin/privacy/cleanup")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = authedRequest(r, cookie, http.MethodGet, "/admin/logout")
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestAdminDashboardWithoutTracking(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin = AdminConfig{Username: "owner", Password: "hunter22"}
	r := newTestServer(t, cfg, Deps{})

	cookie := login(t, r)
	rec := authedRequest(r, cookie, http.MethodGet, "/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec.Body.Bytes())
	require.Equal(t, 1, doc.Find(".tracking-disabled").Length())
}
