package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/internal/metrics"
	"github.com/pkordes/visaflow/internal/middleware"
)

// routeLabels gathers reg and returns the route label of every request series.
func routeLabels(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var routes []string
	for _, f := range families {
		if f.GetName() != "visaflow_http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" {
					routes = append(routes, l.GetValue())
				}
			}
		}
	}
	return routes
}

// TestMetricsHandler_UsesRoutePattern verifies requests are labelled by the
// chi route pattern, not the raw path.
func TestMetricsHandler_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(middleware.NewMetricsHandler(metrics.New(reg)))
	r.Get("/api/trips/{userId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, []string{"/api/trips/{userId}"}, routeLabels(t, reg))
}

// TestMetricsHandler_Unmatched verifies requests no route matches share one label.
func TestMetricsHandler_Unmatched(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(middleware.NewMetricsHandler(metrics.New(reg)))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"unmatched"}, routeLabels(t, reg))
}
