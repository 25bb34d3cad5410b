package session_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/session"
)

// The mocks below are hand-written test doubles for the backend interfaces.
// Each method is a function field; set only the ones your test needs.

type mockTripBackend struct {
	listTrips    func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	createTrip   func(ctx context.Context, userID uuid.UUID, draft domain.TripDraft) (domain.Trip, error)
	deleteTrip   func(ctx context.Context, id uuid.UUID) error
	completeTrip func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

func (m *mockTripBackend) ListTrips(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listTrips(ctx, userID)
}
func (m *mockTripBackend) CreateTrip(ctx context.Context, userID uuid.UUID, d domain.TripDraft) (domain.Trip, error) {
	return m.createTrip(ctx, userID, d)
}
func (m *mockTripBackend) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	return m.deleteTrip(ctx, id)
}
func (m *mockTripBackend) CompleteTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.completeTrip(ctx, id)
}

type mockUserBackend struct {
	createUser func(ctx context.Context) (domain.User, error)
	getUser    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	updateUser func(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
}

func (m *mockUserBackend) CreateUser(ctx context.Context) (domain.User, error) {
	return m.createUser(ctx)
}
func (m *mockUserBackend) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getUser(ctx, id)
}
func (m *mockUserBackend) UpdateUser(ctx context.Context, id uuid.UUID, p domain.UserPatch) (domain.User, error) {
	return m.updateUser(ctx, id, p)
}

type mockRequirements struct {
	check     func(ctx context.Context, c domain.RequirementCheck) (domain.VisaRequirement, error)
	countries func(ctx context.Context) ([]domain.Country, error)
}

func (m *mockRequirements) CheckRequirements(ctx context.Context, c domain.RequirementCheck) (domain.VisaRequirement, error) {
	return m.check(ctx, c)
}
func (m *mockRequirements) Countries(ctx context.Context) ([]domain.Country, error) {
	return m.countries(ctx)
}

type mockSink struct {
	register func(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error)
}

func (m *mockSink) RegisterAlerts(ctx context.Context, a []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
	return m.register(ctx, a)
}

type permission bool

func (p permission) NotificationsPermitted(context.Context) bool { return bool(p) }

// memStore is an in-memory session.Store.
type memStore struct {
	id      uuid.UUID
	saveErr error
	saves   int
	clears  int
}

func (s *memStore) Load() (uuid.UUID, bool, error) { return s.id, s.id != uuid.Nil, nil }
func (s *memStore) Save(id uuid.UUID) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.id = id
	return nil
}
func (s *memStore) Clear() error {
	s.clears++
	s.id = uuid.Nil
	return nil
}

// compile-time checks: the mocks must satisfy the session interfaces.
var (
	_ session.TripBackend         = (*mockTripBackend)(nil)
	_ session.UserBackend         = (*mockUserBackend)(nil)
	_ session.RequirementsBackend = (*mockRequirements)(nil)
	_ session.AlertSink           = (*mockSink)(nil)
	_ session.PermissionChecker   = permission(true)
	_ session.Store               = (*memStore)(nil)
)
