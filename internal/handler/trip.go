package handler

import (
	"net/http"
	"strconv"

	"github.com/pkordes/visaflow/internal/api"
	"github.com/pkordes/visaflow/internal/domain"
)

// CreateTrip handles POST /api/trips.
// The server assigns id, total_days and status; the response is the stored trip.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body api.CreateTripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	userID, draft := body.Draft()

	created, err := s.trips.Create(r.Context(), userID, draft)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, api.TripFromDomain(created))
}

// ListTrips handles GET /api/trips/{userId}.
// Trips come back in creation order as a bare JSON array. Supports ?status=
// and ?page= / ?limit= (defaults: page=1, limit=20, max=100); the unpaged
// total is returned in the X-Total-Count header.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(r, "userId")
	if !ok {
		badRequest(w, "invalid user id")
		return
	}
	q := r.URL.Query()
	page, err := optionalInt(q.Get("page"))
	if err != nil {
		badRequest(w, "page must be an integer")
		return
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		badRequest(w, "limit must be an integer")
		return
	}
	params := domain.NewPaginationParams(page, limit)
	status := domain.TripStatus(q.Get("status"))

	trips, total, err := s.trips.ListByUser(r.Context(), userID, status, params)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, api.TripsFromDomain(trips))
}

// DeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badRequest(w, "invalid trip id")
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompleteTrip handles PATCH /api/trips/{id}/complete.
func (s *Server) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badRequest(w, "invalid trip id")
		return
	}
	trip, err := s.trips.Complete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, api.TripFromDomain(trip))
}

// optionalInt parses an optional integer query value; "" yields nil.
func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
