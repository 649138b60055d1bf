package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/session"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName:   "sf_session",
		Secret:       "test-secret",
		Issuer:       "storefront",
		TTL:          time.Hour,
		SecureCookie: true,
	}
}

func newSessionStack(t *testing.T) (*session.Store, *session.CookieCodec) {
	t.Helper()
	store, err := session.NewStore(session.NewMemoryBackend(), time.Hour)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	codec, err := session.NewCookieCodec(testSessionConfig())
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return store, codec
}

func sessionIDHandler(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values, ok := session.FromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		*seen = values.ID()
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSessionIssuesCookie(t *testing.T) {
	store, codec := newSessionStack(t)
	var seen string
	handler := Session(store, codec, testSessionConfig(), nil)(sessionIDHandler(&seen))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sf_session" {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure || cookies[0].SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes %+v", cookies[0])
	}
	sid, err := codec.Decode(cookies[0].Value)
	if err != nil || sid != seen || seen == "" {
		t.Fatalf("cookie carries %q, handler saw %q (err=%v)", sid, seen, err)
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	store, codec := newSessionStack(t)
	value, err := codec.Encode("existing-session")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var seen string
	handler := Session(store, codec, testSessionConfig(), nil)(sessionIDHandler(&seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: value})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "existing-session" {
		t.Fatalf("expected existing session, got %q", seen)
	}
}

func TestSessionReplacesTamperedCookie(t *testing.T) {
	store, codec := newSessionStack(t)
	other := testSessionConfig()
	other.Secret = "someone-else"
	foreign, err := session.NewCookieCodec(other)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	value, err := foreign.Encode("chosen-by-client")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	var seen string
	handler := Session(store, codec, testSessionConfig(), logg)(sessionIDHandler(&seen))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: value})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "" || seen == "chosen-by-client" {
		t.Fatalf("expected fresh session, got %q", seen)
	}
	if !strings.Contains(buf.String(), "session.cookie_rejected") {
		t.Fatalf("expected rejection log, got %s", buf.String())
	}
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "req-123" || rec.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("expected propagated id, got ctx=%q header=%q", seen, rec.Header().Get(requestIDHeader))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestLoggingRecordsStatusAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	reg := prometheus.NewRegistry()
	m := metrics.NewCartMetrics(reg)

	r := chi.NewRouter()
	r.Use(Logging(logg, m))
	r.Get("/items/{itemId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc", nil))

	if !strings.Contains(buf.String(), `"status":418`) {
		t.Fatalf("expected status in log, got %s", buf.String())
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() != "http_request_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "route" && label.GetValue() == "/items/{itemId}" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatal("expected histogram sample for route pattern")
	}
}
