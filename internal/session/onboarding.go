package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
)

// State is a step of onboarding.
type State string

const (
	StateWelcome             State = "welcome"
	StateNotificationsPrompt State = "notifications-prompt"
	StateProfileSetup        State = "profile-setup"
	StateComplete            State = "complete"
)

// Profile is what the traveller enters on the profile step.
type Profile struct {
	FirstName       string
	Nationality     string
	NationalityCode string
}

// Onboarding walks a new traveller from welcome to a completed backend user:
//
//	welcome → notifications-prompt → profile-setup → complete
//
// The user is created on the backend in two calls (create, then patch). The
// identifier is persisted right after the first, so a failed second call
// leaves an identifier the next attempt reuses instead of a lost orphan.
type Onboarding struct {
	users UserBackend
	store Store
	log   *slog.Logger

	mu            sync.Mutex
	state         State
	userID        uuid.UUID
	notifications bool
	user          domain.User
}

// NewOnboarding returns a machine in the welcome state. Call Resume to pick
// up a persisted session.
func NewOnboarding(users UserBackend, store Store, log *slog.Logger) *Onboarding {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Onboarding{users: users, store: store, log: log, state: StateWelcome}
}

// Resume restores the state from the persisted identifier:
//   - none stored: welcome
//   - user completed onboarding: complete
//   - user exists but never completed: welcome, identifier kept for reuse
//   - backend no longer knows the user: identifier cleared, welcome
//
// Any other backend failure is returned with the identifier kept, so Resume
// can be retried.
func (o *Onboarding) Resume(ctx context.Context) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, ok, err := o.store.Load()
	if err != nil {
		return o.state, fmt.Errorf("session.Onboarding.Resume: %w", err)
	}
	if !ok {
		o.reset()
		return o.state, nil
	}

	o.userID = id
	user, err := o.users.GetUser(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		o.log.InfoContext(ctx, "stored user unknown to backend, starting over", "user_id", id)
		if err := o.store.Clear(); err != nil {
			o.log.WarnContext(ctx, "clear session failed", "error", err)
		}
		o.reset()
		return o.state, nil
	case err != nil:
		return o.state, fmt.Errorf("session.Onboarding.Resume: %w", err)
	}

	if user.OnboardingCompleted {
		o.user = user
		o.notifications = user.NotificationsEnabled
		o.state = StateComplete
		return o.state, nil
	}
	o.log.InfoContext(ctx, "resuming incomplete onboarding", "user_id", id)
	o.state = StateWelcome
	return o.state, nil
}

// Begin leaves the welcome screen.
func (o *Onboarding) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transition(StateWelcome, StateNotificationsPrompt)
}

// RecordNotificationPermission stores the traveller's answer to the
// notifications prompt and moves on to profile setup, whatever the answer.
func (o *Onboarding) RecordNotificationPermission(granted bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.transition(StateNotificationsPrompt, StateProfileSetup); err != nil {
		return err
	}
	o.notifications = granted
	return nil
}

// CompleteProfile creates (or reuses) the backend user and fills in the
// profile. On a failed update the state stays at profile-setup and the
// identifier is kept, so the call can simply be repeated.
func (o *Onboarding) CompleteProfile(ctx context.Context, p Profile) (domain.User, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateProfileSetup {
		return domain.User{}, fmt.Errorf("session.Onboarding.CompleteProfile: %w: in state %s", domain.ErrInvalidTransition, o.state)
	}
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.Nationality = strings.TrimSpace(p.Nationality)
	p.NationalityCode = strings.ToUpper(strings.TrimSpace(p.NationalityCode))
	if p.FirstName == "" {
		return domain.User{}, fmt.Errorf("session.Onboarding.CompleteProfile: %w: first name is required", domain.ErrValidation)
	}
	if p.NationalityCode == "" {
		return domain.User{}, fmt.Errorf("session.Onboarding.CompleteProfile: %w: nationality is required", domain.ErrValidation)
	}

	if o.userID == uuid.Nil {
		created, err := o.users.CreateUser(ctx)
		if err != nil {
			return domain.User{}, fmt.Errorf("session.Onboarding.CompleteProfile: %w", err)
		}
		o.userID = created.ID
		if err := o.store.Save(created.ID); err != nil {
			// The identifier still lives in memory for a retry in this run.
			o.log.WarnContext(ctx, "persist session failed", "user_id", created.ID, "error", err)
		}
	}

	completed := true
	notifications := o.notifications
	user, err := o.users.UpdateUser(ctx, o.userID, domain.UserPatch{
		FirstName:            &p.FirstName,
		Nationality:          &p.Nationality,
		NationalityCode:      &p.NationalityCode,
		NotificationsEnabled: &notifications,
		OnboardingCompleted:  &completed,
	})
	if err != nil {
		o.log.ErrorContext(ctx, "complete profile failed", "user_id", o.userID, "error", err)
		return domain.User{}, fmt.Errorf("session.Onboarding.CompleteProfile: %w", err)
	}

	o.user = user
	o.state = StateComplete
	return user, nil
}

// State returns the current step.
func (o *Onboarding) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// UserID returns the held identifier; ok is false when none is held.
func (o *Onboarding) UserID() (uuid.UUID, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.userID, o.userID != uuid.Nil
}

// NotificationsGranted reports the recorded answer to the notifications prompt.
func (o *Onboarding) NotificationsGranted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.notifications
}

// User returns the completed user; ok is false before completion.
func (o *Onboarding) User() (domain.User, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.user, o.state == StateComplete
}

// Reset forgets the identifier and returns to welcome. It does not touch
// the store.
func (o *Onboarding) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reset()
}

func (o *Onboarding) reset() {
	o.state = StateWelcome
	o.userID = uuid.Nil
	o.notifications = false
	o.user = domain.User{}
}

func (o *Onboarding) transition(from, to State) error {
	if o.state != from {
		return fmt.Errorf("%w: %s → %s from %s", domain.ErrInvalidTransition, from, to, o.state)
	}
	o.state = to
	return nil
}
