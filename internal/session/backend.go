// Package session is the client-side core of VisaFlow: the trip list facade
// that keeps a local copy in step with the backend, the onboarding state
// machine, and the Session object that owns both for one traveller.
//
// Nothing here talks HTTP directly. The backend is reached through the small
// interfaces below, which *client.Client satisfies.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
)

// TripBackend is the remote store of trips.
type TripBackend interface {
	ListTrips(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	CreateTrip(ctx context.Context, userID uuid.UUID, draft domain.TripDraft) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
	CompleteTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

// UserBackend is the remote store of users.
type UserBackend interface {
	CreateUser(ctx context.Context) (domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
}

// RequirementsBackend answers visa requirement lookups.
type RequirementsBackend interface {
	CheckRequirements(ctx context.Context, check domain.RequirementCheck) (domain.VisaRequirement, error)
	Countries(ctx context.Context) ([]domain.Country, error)
}

// AlertSink durably stores scheduled alerts and returns those it kept.
type AlertSink interface {
	RegisterAlerts(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error)
}

// PermissionChecker reports whether the traveller allows notifications.
type PermissionChecker interface {
	NotificationsPermitted(ctx context.Context) bool
}

// Store persists the session identifier between runs.
type Store interface {
	// Load returns the stored identifier; ok is false when none is stored.
	Load() (id uuid.UUID, ok bool, err error)
	Save(id uuid.UUID) error
	Clear() error
}
