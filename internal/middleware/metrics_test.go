package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendbook/internal/middleware"
)

// TestMetrics_CountsRequestsByRoutePattern verifies that the middleware
// records one counter increment per request, labeled with the chi route
// pattern rather than the raw URL.
func TestMetrics_CountsRequestsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/friends/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/friends/abc", "/friends/def"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	count, err := testutil.GatherAndCount(reg, "friendbook_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "both URLs collapse into one route-pattern series")

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "friendbook_http_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		assert.Equal(t, float64(2), mf.GetMetric()[0].GetCounter().GetValue())
		for _, l := range mf.GetMetric()[0].GetLabel() {
			if l.GetName() == "path" {
				assert.Equal(t, "/friends/{id}", l.GetValue())
			}
		}
	}
}

// TestMetrics_RecordsErrorStatus verifies that the status label reflects the
// downstream handler's response code.
func TestMetrics_RecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, mf := range families {
		if mf.GetName() != "friendbook_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == "500" {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "expected a series with status=500")
}
