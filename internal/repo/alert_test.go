package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/repo"
)

func TestAlertRepo_CreateBatch_ListDue_MarkDelivered(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	owner := newTestUser(t, tx)
	trip, err := repo.NewTripRepo(tx).Create(ctx, tripFixture(owner.ID))
	require.NoError(t, err)
	r := repo.NewAlertRepo(tx)

	early := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 29, 9, 0, 0, 0, time.UTC)
	created, err := r.CreateBatch(ctx, []domain.ScheduledAlert{
		{TripID: trip.ID, UserID: owner.ID, OffsetDays: 14, TriggerAt: early, Title: "Visa Alert", Body: "14 days"},
		{TripID: trip.ID, UserID: owner.ID, OffsetDays: 1, TriggerAt: late, Title: "🚨 CRITICAL", Body: "tomorrow"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, uuid.Nil, created[0].ID)
	assert.Nil(t, created[0].DeliveredAt)

	due, err := r.ListDue(ctx, early.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 14, due[0].OffsetDays)

	require.NoError(t, r.MarkDelivered(ctx, due[0].ID, early.Add(time.Minute)))
	assert.ErrorIs(t, r.MarkDelivered(ctx, due[0].ID, early.Add(time.Minute)), domain.ErrNotFound,
		"an alert is delivered once")

	pending, err := r.ListPendingByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].OffsetDays)
}

func TestAlertRepo_CreateBatch_SameOffsetKeepsOneRow(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	owner := newTestUser(t, tx)
	trip, err := repo.NewTripRepo(tx).Create(ctx, tripFixture(owner.ID))
	require.NoError(t, err)
	r := repo.NewAlertRepo(tx)

	a := domain.ScheduledAlert{TripID: trip.ID, UserID: owner.ID, OffsetDays: 7,
		TriggerAt: time.Date(2025, 6, 23, 9, 0, 0, 0, time.UTC), Title: "t", Body: "b"}
	first, err := r.CreateBatch(ctx, []domain.ScheduledAlert{a})
	require.NoError(t, err)
	second, err := r.CreateBatch(ctx, []domain.ScheduledAlert{a})
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)
	pending, err := r.ListPendingByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestAlertRepo_CreateBatch_Empty(t *testing.T) {
	r := repo.NewAlertRepo(newTestTx(t))

	got, err := r.CreateBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAlertRepo_DeletingTripRemovesAlerts(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	owner := newTestUser(t, tx)
	trips := repo.NewTripRepo(tx)
	trip, err := trips.Create(ctx, tripFixture(owner.ID))
	require.NoError(t, err)
	r := repo.NewAlertRepo(tx)
	_, err = r.CreateBatch(ctx, []domain.ScheduledAlert{{TripID: trip.ID, UserID: owner.ID, OffsetDays: 3,
		TriggerAt: time.Date(2025, 6, 27, 9, 0, 0, 0, time.UTC), Title: "t", Body: "b"}})
	require.NoError(t, err)

	require.NoError(t, trips.Delete(ctx, trip.ID))

	pending, err := r.ListPendingByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
