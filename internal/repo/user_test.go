package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/repo"
)

func TestUserRepo_Create_Defaults(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))

	got, err := r.Create(context.Background())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.True(t, got.NotificationsEnabled)
	assert.False(t, got.OnboardingCompleted)
	assert.Equal(t, domain.SubscriptionTrial, got.SubscriptionStatus)
	assert.False(t, got.TrialStart.IsZero())
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_Update_Partial(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	ctx := context.Background()
	created, err := r.Create(ctx)
	require.NoError(t, err)

	name, code, done := "Ada", "GB", true
	got, err := r.Update(ctx, created.ID, domain.UserPatch{
		FirstName:           &name,
		NationalityCode:     &code,
		OnboardingCompleted: &done,
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "GB", got.NationalityCode)
	assert.True(t, got.OnboardingCompleted)
	assert.True(t, got.NotificationsEnabled, "untouched fields keep their value")

	off := false
	expired := domain.SubscriptionExpired
	got, err = r.Update(ctx, created.ID, domain.UserPatch{NotificationsEnabled: &off, SubscriptionStatus: &expired})

	require.NoError(t, err)
	assert.False(t, got.NotificationsEnabled)
	assert.Equal(t, domain.SubscriptionExpired, got.SubscriptionStatus)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestUserRepo_Update_NotFound(t *testing.T) {
	r := repo.NewUserRepo(newTestTx(t))
	name := "Ghost"

	_, err := r.Update(context.Background(), uuid.New(), domain.UserPatch{FirstName: &name})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
