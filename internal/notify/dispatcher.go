// Package notify delivers stored expiry alerts once their trigger time has
// passed. Delivery is at most once per alert: an alert is marked delivered
// right after its notifier call succeeds and is never retried as catch-up
// once marked.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
)

// DefaultBatchSize caps how many due alerts one poll delivers.
const DefaultBatchSize = 100

// Store is the subset of repo.AlertRepo the dispatcher needs.
type Store interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledAlert, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Notifier hands one alert to a delivery channel (push, mail, log).
type Notifier interface {
	Notify(ctx context.Context, alert domain.ScheduledAlert) error
}

// Recorder receives delivery counts. *metrics.Metrics satisfies it.
type Recorder interface {
	AlertDelivered()
	AlertFailed()
	DispatchRun(outcome string)
}

// Dispatcher polls the store for due alerts and delivers them.
type Dispatcher struct {
	store     Store
	notifier  Notifier
	recorder  Recorder
	log       *slog.Logger
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher constructs a Dispatcher that polls every interval.
func NewDispatcher(store Store, notifier Notifier, log *slog.Logger, interval time.Duration, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:     store,
		notifier:  notifier,
		recorder:  nopRecorder{},
		log:       log,
		interval:  interval,
		batchSize: DefaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run polls until ctx is cancelled. A failed poll is logged and the loop
// carries on at the next tick. Run returns nil on cancellation so it can sit
// in an errgroup next to the HTTP server.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.InfoContext(ctx, "alert dispatcher started", "interval", d.interval.String())
	for {
		if _, err := d.DispatchDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.log.ErrorContext(ctx, "alert dispatch failed", "error", err)
		}
		select {
		case <-ctx.Done():
			d.log.InfoContext(context.WithoutCancel(ctx), "alert dispatcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// DispatchDue delivers every alert due at the current time, up to the batch
// size, and returns how many were delivered. A notifier failure skips that
// alert for this poll; it stays pending and is tried again next poll.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	now := d.now()
	due, err := d.store.ListDue(ctx, now, d.batchSize)
	if err != nil {
		d.recorder.DispatchRun("error")
		return 0, fmt.Errorf("notify.Dispatcher.DispatchDue: %w", err)
	}

	delivered := 0
	for _, a := range due {
		if err := d.notifier.Notify(ctx, a); err != nil {
			d.recorder.AlertFailed()
			d.log.WarnContext(ctx, "alert delivery failed",
				"alert_id", a.ID, "trip_id", a.TripID, "error", err)
			continue
		}
		if err := d.store.MarkDelivered(ctx, a.ID, now); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Another dispatcher or a trip deletion got there first.
				continue
			}
			d.recorder.DispatchRun("error")
			return delivered, fmt.Errorf("notify.Dispatcher.DispatchDue: %w", err)
		}
		d.recorder.AlertDelivered()
		delivered++
	}
	d.recorder.DispatchRun("ok")
	return delivered, nil
}

type nopRecorder struct{}

func (nopRecorder) AlertDelivered()    {}
func (nopRecorder) AlertFailed()       {}
func (nopRecorder) DispatchRun(string) {}
