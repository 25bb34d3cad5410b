package handler

import (
	"net/http"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/spec"
)

// banner is the body of GET /api/.
const banner = "VisaFlow API v1.0"

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// GetRoot handles GET /api/.
func (s *Server) GetRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.MessageResponse{Message: banner})
}

// GetOpenAPI handles GET /openapi.yaml and serves the embedded API description.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(spec.OpenAPI)
}
