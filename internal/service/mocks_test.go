package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/repo"
)

// The mocks below are hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.

type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByUser   func(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByUser(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByUser(ctx, userID, status, p)
}
func (m *mockTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
	return m.updateStatus(ctx, id, status)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockUserRepo struct {
	create  func(ctx context.Context) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
	update  func(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context) (domain.User, error) {
	return m.create(ctx)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error) {
	return m.update(ctx, id, patch)
}

type mockAlertRepo struct {
	createBatch       func(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error)
	listPendingByUser func(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error)
	listDue           func(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledAlert, error)
	markDelivered     func(ctx context.Context, id uuid.UUID, at time.Time) error
}

func (m *mockAlertRepo) CreateBatch(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
	return m.createBatch(ctx, alerts)
}
func (m *mockAlertRepo) ListPendingByUser(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error) {
	return m.listPendingByUser(ctx, userID)
}
func (m *mockAlertRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledAlert, error) {
	return m.listDue(ctx, now, limit)
}
func (m *mockAlertRepo) MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.markDelivered(ctx, id, at)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TripRepo  = (*mockTripRepo)(nil)
	_ repo.UserRepo  = (*mockUserRepo)(nil)
	_ repo.AlertRepo = (*mockAlertRepo)(nil)
)

// existingUsers is a UserRepo whose GetByID always succeeds.
func existingUsers() *mockUserRepo {
	return &mockUserRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			return domain.User{ID: id}, nil
		},
	}
}
