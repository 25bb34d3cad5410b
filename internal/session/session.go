package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/visa"
)

// Deps are the collaborators a Session is built from.
type Deps struct {
	Users        UserBackend
	Trips        TripBackend
	Requirements RequirementsBackend
	// Alerts receives expiry alerts. Nil disables scheduling.
	Alerts AlertSink
	Store  Store
	Logger *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Scheduler defaults to the 14/7/3/1 ladder at 09:00 local time.
	Scheduler *visa.Scheduler
	// ActiveRule defaults to visa.FirstMatch.
	ActiveRule visa.ActiveRule
}

// Session is one traveller's view of VisaFlow: onboarding progress, the
// cached user and the trip list. It is an explicit object passed to
// whatever drives it; there is no package-level instance.
type Session struct {
	onboarding   *Onboarding
	trips        *TripBook
	users        UserBackend
	requirements RequirementsBackend
	store        Store
	now          func() time.Time
	log          *slog.Logger

	mu   sync.RWMutex
	user domain.User
}

// New builds a Session. Call Start before anything else.
func New(d Deps) *Session {
	log := d.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := d.Clock
	if now == nil {
		now = time.Now
	}
	scheduler := visa.NewScheduler(time.Local)
	if d.Scheduler != nil {
		scheduler = *d.Scheduler
	}
	rule := d.ActiveRule
	if rule == "" {
		rule = visa.FirstMatch
	}

	s := &Session{
		onboarding:   NewOnboarding(d.Users, d.Store, log),
		users:        d.Users,
		requirements: d.Requirements,
		store:        d.Store,
		now:          now,
		log:          log,
	}
	opts := []TripBookOption{
		WithActiveRule(rule),
		WithTripClock(now),
		WithTripLogger(log),
	}
	if d.Alerts != nil {
		opts = append(opts, WithAlerts(d.Alerts, s, scheduler))
	}
	s.trips = NewTripBook(d.Trips, opts...)
	return s
}

// Start resumes onboarding from the store and, for a completed user, loads
// their trips. A failed trip load is returned but leaves the session usable.
func (s *Session) Start(ctx context.Context) (State, error) {
	state, err := s.onboarding.Resume(ctx)
	if err != nil {
		return state, fmt.Errorf("session.Session.Start: %w", err)
	}
	if state != StateComplete {
		return state, nil
	}
	user, _ := s.onboarding.User()
	s.setUser(user)
	if err := s.trips.Load(ctx, user.ID); err != nil {
		return state, fmt.Errorf("session.Session.Start: %w", err)
	}
	return state, nil
}

// Onboarding exposes the onboarding machine for the welcome and
// notifications steps.
func (s *Session) Onboarding() *Onboarding { return s.onboarding }

// Trips exposes the trip list.
func (s *Session) Trips() *TripBook { return s.trips }

// CompleteProfile finishes onboarding and caches the resulting user.
func (s *Session) CompleteProfile(ctx context.Context, p Profile) (domain.User, error) {
	user, err := s.onboarding.CompleteProfile(ctx, p)
	if err != nil {
		return domain.User{}, err
	}
	s.setUser(user)
	return user, nil
}

// User returns the cached user; ok is false until onboarding completes.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.user.ID != uuid.Nil
}

// UpdateUser sends a partial update and refreshes the cached user.
// An empty patch is rejected before any backend call.
func (s *Session) UpdateUser(ctx context.Context, patch domain.UserPatch) (domain.User, error) {
	user, ok := s.User()
	if !ok {
		return domain.User{}, fmt.Errorf("session.Session.UpdateUser: %w: no user", domain.ErrInvalidTransition)
	}
	if patch.IsEmpty() {
		return domain.User{}, fmt.Errorf("session.Session.UpdateUser: %w: no update data provided", domain.ErrValidation)
	}
	updated, err := s.users.UpdateUser(ctx, user.ID, patch)
	if err != nil {
		s.log.ErrorContext(ctx, "update user failed", "user_id", user.ID, "error", err)
		return domain.User{}, fmt.Errorf("session.Session.UpdateUser: %w", err)
	}
	s.setUser(updated)
	return updated, nil
}

// CreateTrip creates a trip for the current user.
func (s *Session) CreateTrip(ctx context.Context, draft domain.TripDraft) (CreateResult, error) {
	user, ok := s.User()
	if !ok {
		return CreateResult{}, fmt.Errorf("session.Session.CreateTrip: %w: no user", domain.ErrInvalidTransition)
	}
	return s.trips.Create(ctx, user.ID, draft)
}

// Reload refreshes the trip list from the backend.
func (s *Session) Reload(ctx context.Context) error {
	user, ok := s.User()
	if !ok {
		return fmt.Errorf("session.Session.Reload: %w: no user", domain.ErrInvalidTransition)
	}
	return s.trips.Load(ctx, user.ID)
}

// CheckRequirements looks up what the traveller needs to enter destination,
// using their nationality and a tourism purpose.
func (s *Session) CheckRequirements(ctx context.Context, destinationCode string) (domain.VisaRequirement, error) {
	user, ok := s.User()
	if !ok {
		return domain.VisaRequirement{}, fmt.Errorf("session.Session.CheckRequirements: %w: no user", domain.ErrInvalidTransition)
	}
	return s.CheckRequirementsFor(ctx, domain.RequirementCheck{
		NationalityCode: user.NationalityCode,
		DestinationCode: destinationCode,
		Purpose:         domain.PurposeTourism,
	})
}

// CheckRequirementsFor runs an explicit lookup.
func (s *Session) CheckRequirementsFor(ctx context.Context, check domain.RequirementCheck) (domain.VisaRequirement, error) {
	if strings.TrimSpace(check.NationalityCode) == "" || strings.TrimSpace(check.DestinationCode) == "" {
		return domain.VisaRequirement{}, fmt.Errorf("session.Session.CheckRequirements: %w: nationality and destination are required", domain.ErrValidation)
	}
	req, err := s.requirements.CheckRequirements(ctx, check)
	if err != nil {
		s.log.ErrorContext(ctx, "check requirements failed", "destination_code", check.DestinationCode, "error", err)
		return domain.VisaRequirement{}, fmt.Errorf("session.Session.CheckRequirements: %w", err)
	}
	return req, nil
}

// Countries returns the country reference list.
func (s *Session) Countries(ctx context.Context) ([]domain.Country, error) {
	cs, err := s.requirements.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("session.Session.Countries: %w", err)
	}
	return cs, nil
}

// TrialDaysLeft returns the whole days left in the free trial.
func (s *Session) TrialDaysLeft() int {
	user, _ := s.User()
	return visa.TrialDaysLeft(user.TrialStart, s.now())
}

// NotificationsPermitted implements PermissionChecker from the cached
// user's notification preference.
func (s *Session) NotificationsPermitted(context.Context) bool {
	user, ok := s.User()
	return ok && user.NotificationsEnabled
}

// Logout forgets the traveller locally: the stored identifier, the cached
// user and the trip list. Nothing is deleted on the backend.
func (s *Session) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("session.Session.Logout: %w", err)
	}
	s.onboarding.Reset()
	s.trips.Clear()
	s.setUser(domain.User{})
	return nil
}

func (s *Session) setUser(u domain.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// DraftFromRequirement pre-fills a trip draft from a requirement answer:
// the visa type follows the verdict and the exit date is entry plus the
// permitted stay. ok is false when the answer carries no permitted stay.
func DraftFromRequirement(req domain.VisaRequirement, country domain.Country, entry time.Time) (domain.TripDraft, bool) {
	if !req.Found || req.PermittedDays == nil || *req.PermittedDays <= 0 {
		return domain.TripDraft{}, false
	}
	entry = domain.Date(entry)
	return domain.TripDraft{
		Country:     country.Name,
		CountryCode: country.Code,
		VisaType:    visaTypeFor(req.Verdict),
		EntryDate:   entry,
		ExitDate:    entry.AddDate(0, 0, *req.PermittedDays),
	}, true
}

func visaTypeFor(v domain.Verdict) domain.VisaType {
	switch v {
	case domain.VerdictVisaFree:
		return domain.VisaFree
	case domain.VerdictEVisa:
		return domain.EVisa
	case domain.VerdictVisaOnArrival:
		return domain.VisaOnArrival
	default:
		return domain.TouristVisa
	}
}
