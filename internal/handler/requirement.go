package handler

import (
	"net/http"

	"github.com/pkordes/visaflow/internal/api"
)

// ListCountries handles GET /api/countries.
func (s *Server) ListCountries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.CountriesFromDomain(s.requirements.Countries()))
}

// CheckRequirements handles POST /api/check-requirements.
// An uncovered nationality/destination pair is a 200 with found=false.
func (s *Server) CheckRequirements(w http.ResponseWriter, r *http.Request) {
	var body api.CheckRequirementsRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := s.requirements.Check(body.Domain())
	if err != nil {
		s.writeServiceError(w, r, err, "requirement not found")
		return
	}
	writeJSON(w, http.StatusOK, api.RequirementFromDomain(req))
}
