package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/visaflow/internal/domain"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create inserts a bare user with every column at its default: trial
	// subscription starting now, notifications on, onboarding incomplete.
	Create(ctx context.Context) (domain.User, error)

	// GetByID retrieves a user. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// Update applies the non-nil fields of patch and returns the updated
	// record. Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, first_name, nationality, nationality_code, notifications_enabled,
		onboarding_completed, trial_start, subscription_status, created_at`

func (r *pgUserRepo) Create(ctx context.Context) (domain.User, error) {
	const q = `INSERT INTO users DEFAULT VALUES RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return u, nil
}

// Update uses COALESCE so that a NULL argument (nil patch field) keeps the
// current column value.
func (r *pgUserRepo) Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error) {
	const q = `
		UPDATE users
		SET first_name            = COALESCE(@first_name, first_name),
		    nationality           = COALESCE(@nationality, nationality),
		    nationality_code      = COALESCE(@nationality_code, nationality_code),
		    notifications_enabled = COALESCE(@notifications_enabled, notifications_enabled),
		    onboarding_completed  = COALESCE(@onboarding_completed, onboarding_completed),
		    subscription_status   = COALESCE(@subscription_status, subscription_status)
		WHERE id = @id
		RETURNING ` + userColumns

	var subscription *string
	if patch.SubscriptionStatus != nil {
		s := string(*patch.SubscriptionStatus)
		subscription = &s
	}

	args := pgx.NamedArgs{
		"id":                    id,
		"first_name":            patch.FirstName,
		"nationality":           patch.Nationality,
		"nationality_code":      patch.NationalityCode,
		"notifications_enabled": patch.NotificationsEnabled,
		"onboarding_completed":  patch.OnboardingCompleted,
		"subscription_status":   subscription,
	}

	u, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Update: %w", err)
	}
	return u, nil
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u            domain.User
		id           pgtype.UUID
		subscription string
	)

	err := s.Scan(&id, &u.FirstName, &u.Nationality, &u.NationalityCode, &u.NotificationsEnabled,
		&u.OnboardingCompleted, &u.TrialStart, &subscription, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	u.SubscriptionStatus = domain.SubscriptionStatus(subscription)
	return u, nil
}
