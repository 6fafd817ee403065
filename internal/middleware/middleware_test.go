package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelebee/connect/internal/infrastructure/observability"
)

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics("test", reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/accounts/{accountId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/acct_123", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/accounts/{accountId}", "200"))
	assert.Equal(t, 1.0, count)
}

func TestMetrics_RecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics("test", reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "502"))
	assert.Equal(t, 1.0, count)
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "no HSTS without TLS")
}

func TestTracing_PassesThrough(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Tracing())
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
