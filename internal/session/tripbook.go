package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/visa"
)

// CreateResult describes a successful TripBook.Create.
type CreateResult struct {
	// Trip is the backend's record, with its assigned id and status.
	Trip domain.Trip
	// FirstTrip is true when the user had no trips before the call. It is
	// false whenever their trip history could not be read.
	FirstTrip bool
	// Alerts are the expiry alerts the sink stored for the trip.
	Alerts []domain.ScheduledAlert
	// AlertErr is set when scheduling failed. The trip is still created.
	AlertErr error
}

// TripBook is the client-side list of a traveller's trips. Mutations go to
// the backend first; the local list only changes once the backend confirms,
// so a failed call leaves it exactly as it was.
type TripBook struct {
	backend   TripBackend
	sink      AlertSink
	perm      PermissionChecker
	scheduler visa.Scheduler
	rule      visa.ActiveRule
	now       func() time.Time
	log       *slog.Logger

	// op serialises backend mutations; mu guards trips and loaded.
	op    sync.Mutex
	mu    sync.RWMutex
	trips []domain.Trip
	// loaded is set once trips mirrors the backend.
	loaded bool
}

// TripBookOption configures a TripBook.
type TripBookOption func(*TripBook)

// WithAlerts enables expiry alerts: after each create the scheduler's
// alerts go to sink, provided perm grants notifications.
func WithAlerts(sink AlertSink, perm PermissionChecker, scheduler visa.Scheduler) TripBookOption {
	return func(b *TripBook) {
		b.sink = sink
		b.perm = perm
		b.scheduler = scheduler
	}
}

// WithActiveRule sets how Active picks between several active trips.
func WithActiveRule(rule visa.ActiveRule) TripBookOption {
	return func(b *TripBook) { b.rule = rule }
}

// WithTripClock replaces time.Now, for tests.
func WithTripClock(now func() time.Time) TripBookOption {
	return func(b *TripBook) { b.now = now }
}

// WithTripLogger sets the logger. The default discards.
func WithTripLogger(log *slog.Logger) TripBookOption {
	return func(b *TripBook) { b.log = log }
}

// NewTripBook returns an empty TripBook backed by backend.
func NewTripBook(backend TripBackend, opts ...TripBookOption) *TripBook {
	b := &TripBook{
		backend:   backend,
		scheduler: visa.NewScheduler(time.Local),
		rule:      visa.FirstMatch,
		now:       time.Now,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		trips:     []domain.Trip{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the list with the user's trips from the backend.
// On failure the list is unchanged.
func (b *TripBook) Load(ctx context.Context, userID uuid.UUID) error {
	b.op.Lock()
	defer b.op.Unlock()

	if err := b.load(ctx, userID); err != nil {
		b.log.ErrorContext(ctx, "load trips failed", "user_id", userID, "error", err)
		return fmt.Errorf("session.TripBook.Load: %w", err)
	}
	return nil
}

// load fetches the list. The caller holds op.
func (b *TripBook) load(ctx context.Context, userID uuid.UUID) error {
	trips, err := b.backend.ListTrips(ctx, userID)
	if err != nil {
		return err
	}
	if trips == nil {
		trips = []domain.Trip{}
	}

	b.mu.Lock()
	b.trips = trips
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Create validates draft, stores it through the backend and appends the
// backend's record to the list. Validation fails before any backend call.
// Alert scheduling runs after the trip is stored and never fails the create.
// When the list was never loaded Create loads it first; if that fails too
// the trip is still created but is not reported as the first.
func (b *TripBook) Create(ctx context.Context, userID uuid.UUID, draft domain.TripDraft) (CreateResult, error) {
	if err := draft.Validate(); err != nil {
		return CreateResult{}, fmt.Errorf("session.TripBook.Create: %w", err)
	}

	b.op.Lock()
	defer b.op.Unlock()

	b.mu.RLock()
	loaded := b.loaded
	b.mu.RUnlock()
	if !loaded {
		if err := b.load(ctx, userID); err != nil {
			b.log.WarnContext(ctx, "trip history unavailable", "user_id", userID, "error", err)
		}
	}

	b.mu.RLock()
	first := b.loaded && len(b.trips) == 0
	b.mu.RUnlock()

	trip, err := b.backend.CreateTrip(ctx, userID, draft)
	if err != nil {
		b.log.ErrorContext(ctx, "create trip failed", "user_id", userID, "country_code", draft.CountryCode, "error", err)
		return CreateResult{}, fmt.Errorf("session.TripBook.Create: %w", err)
	}

	b.mu.Lock()
	b.trips = append(b.trips, trip)
	b.mu.Unlock()

	res := CreateResult{Trip: trip, FirstTrip: first}
	res.Alerts, res.AlertErr = b.scheduleAlerts(ctx, trip)
	return res, nil
}

// scheduleAlerts computes the trip's expiry alerts and hands them to the
// sink. Without a sink or permission nothing is scheduled.
func (b *TripBook) scheduleAlerts(ctx context.Context, trip domain.Trip) ([]domain.ScheduledAlert, error) {
	if b.sink == nil {
		return nil, nil
	}
	permitted := b.perm != nil && b.perm.NotificationsPermitted(ctx)
	alerts := b.scheduler.Schedule(trip, b.now(), permitted)
	if len(alerts) == 0 {
		return nil, nil
	}

	stored, err := b.sink.RegisterAlerts(ctx, alerts)
	if err != nil {
		b.log.WarnContext(ctx, "schedule alerts failed", "trip_id", trip.ID, "error", err)
		return nil, fmt.Errorf("session.TripBook.scheduleAlerts: %w", err)
	}
	b.log.DebugContext(ctx, "alerts scheduled", "trip_id", trip.ID, "count", len(stored))
	return stored, nil
}

// Delete removes a trip through the backend, then from the list.
// On failure the list is unchanged.
func (b *TripBook) Delete(ctx context.Context, id uuid.UUID) error {
	b.op.Lock()
	defer b.op.Unlock()

	if err := b.backend.DeleteTrip(ctx, id); err != nil {
		b.log.ErrorContext(ctx, "delete trip failed", "trip_id", id, "error", err)
		return fmt.Errorf("session.TripBook.Delete: %w", err)
	}

	b.mu.Lock()
	b.trips = slices.DeleteFunc(b.trips, func(t domain.Trip) bool { return t.ID == id })
	b.mu.Unlock()
	return nil
}

// Complete marks a trip completed through the backend and replaces the
// local copy with the backend's record.
func (b *TripBook) Complete(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	b.op.Lock()
	defer b.op.Unlock()

	trip, err := b.backend.CompleteTrip(ctx, id)
	if err != nil {
		b.log.ErrorContext(ctx, "complete trip failed", "trip_id", id, "error", err)
		return domain.Trip{}, fmt.Errorf("session.TripBook.Complete: %w", err)
	}

	b.mu.Lock()
	for i := range b.trips {
		if b.trips[i].ID == id {
			b.trips[i] = trip
		}
	}
	b.mu.Unlock()
	return trip, nil
}

// Trips returns a copy of the list in creation order.
func (b *TripBook) Trips() []domain.Trip {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.trips)
}

// Active returns the trip shown on the tracking screen; ok is false when
// no trip is active.
func (b *TripBook) Active() (domain.Trip, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return visa.ActiveTrip(b.trips, b.rule)
}

// Clear empties the local list without touching the backend. The next
// Create reloads before deciding whether a trip is the first.
func (b *TripBook) Clear() {
	b.mu.Lock()
	b.trips = []domain.Trip{}
	b.loaded = false
	b.mu.Unlock()
}
