package handler

import (
	"net/http"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/internal/domain"
)

// RegisterAlerts handles POST /api/alerts. Responds 201 with the alerts that
// were stored; alerts whose trigger time has passed are dropped.
func (s *Server) RegisterAlerts(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterAlertsRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	alerts := make([]domain.ScheduledAlert, len(body.Alerts))
	for i, a := range body.Alerts {
		alerts[i] = a.Domain()
	}

	stored, err := s.alerts.Register(r.Context(), alerts)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, api.AlertsFromDomain(stored))
}

// ListAlerts handles GET /api/users/{id}/alerts and returns the user's
// undelivered alerts by trigger time.
func (s *Server) ListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(r, "id")
	if !ok {
		badRequest(w, "invalid user id")
		return
	}
	alerts, err := s.alerts.ListPending(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, api.AlertsFromDomain(alerts))
}
