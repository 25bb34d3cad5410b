// Package handler implements the HTTP handlers for the VisaFlow API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, user.go, ...) but share the same Server struct
// so they can access its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
)

// UserServicer defines the business operations the user handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type UserServicer interface {
	Create(ctx context.Context) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
}

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, userID uuid.UUID, draft domain.TripDraft) (domain.Trip, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Complete(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequirementServicer answers visa requirement lookups.
type RequirementServicer interface {
	Countries() []domain.Country
	Check(check domain.RequirementCheck) (domain.VisaRequirement, error)
}

// AlertServicer stores and lists scheduled expiry alerts.
type AlertServicer interface {
	Register(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error)
	ListPending(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error)
}

// Services bundles the Server's dependencies. Tests may leave fields nil
// when the routes under test do not reach them.
type Services struct {
	Users        UserServicer
	Trips        TripServicer
	Requirements RequirementServicer
	Alerts       AlertServicer
}

// Server implements every API endpoint.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	users        UserServicer
	trips        TripServicer
	requirements RequirementServicer
	alerts       AlertServicer
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(log *slog.Logger, svc Services) *Server {
	return &Server{
		users:        svc.Users,
		trips:        svc.Trips,
		requirements: svc.Requirements,
		alerts:       svc.Alerts,
		log:          log,
	}
}

// Routes returns the API router. The ops routes (/healthz, /openapi.yaml)
// sit at the root; everything else lives under /api.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.GetRoot)
		r.Get("/countries", s.ListCountries)
		r.Post("/check-requirements", s.CheckRequirements)

		r.Post("/users", s.CreateUser)
		r.Get("/users/{id}", s.GetUser)
		r.Patch("/users/{id}", s.UpdateUser)
		r.Get("/users/{id}/alerts", s.ListAlerts)

		r.Post("/trips", s.CreateTrip)
		r.Get("/trips/{userId}", s.ListTrips)
		r.Delete("/trips/{id}", s.DeleteTrip)
		r.Patch("/trips/{id}/complete", s.CompleteTrip)

		r.Post("/alerts", s.RegisterAlerts)
	})
	return r
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}
