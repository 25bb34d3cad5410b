package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/visaflow/internal/middleware"
)

const webOrigin = "http://localhost:8081"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSHandler_Origins(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"configured origin is echoed", webOrigin, webOrigin},
		{"other origin gets no header", "https://attacker.test", ""},
	}
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSHandler_ExposesTotalCount(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)
	req := httptest.NewRequest(http.MethodGet, "/api/trips/1", nil)
	req.Header.Set("Origin", webOrigin)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Total-Count")
}

func TestCORSHandler_Preflight(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)
			req := httptest.NewRequest(http.MethodOptions, "/api/trips", nil)
			req.Header.Set("Origin", webOrigin)
			req.Header.Set("Access-Control-Request-Method", method)
			// Browsers send requested header names in lowercase.
			req.Header.Set("Access-Control-Request-Headers", "content-type")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Less(t, rec.Code, 300)
			assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), method)
		})
	}
}
