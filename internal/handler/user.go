package handler

import (
	"net/http"

	"github.com/pkordes/visaflow/internal/api"
)

// CreateUser handles POST /api/users. The body is ignored: a user starts
// bare, in trial, and is filled in with PATCH.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Create(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, api.UserFromDomain(u))
}

// GetUser handles GET /api/users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badRequest(w, "invalid user id")
		return
	}
	u, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, api.UserFromDomain(u))
}

// UpdateUser handles PATCH /api/users/{id}. An update naming no fields is
// rejected with 400 before reaching the service.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badRequest(w, "invalid user id")
		return
	}
	var body api.UpdateUserRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	patch := body.Patch()
	if patch.IsEmpty() {
		badRequest(w, "no update data provided")
		return
	}

	u, err := s.users.Update(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, api.UserFromDomain(u))
}
