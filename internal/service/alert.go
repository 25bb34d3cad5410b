package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/repo"
)

// AlertService stores the expiry alerts clients schedule at trip creation,
// so they survive client restarts and can be delivered by the dispatcher.
type AlertService struct {
	alerts repo.AlertRepo
	trips  repo.TripRepo
	now    func() time.Time
}

// NewAlertService constructs an AlertService. Pass nil for now to use time.Now.
func NewAlertService(alerts repo.AlertRepo, trips repo.TripRepo, now func() time.Time) *AlertService {
	if now == nil {
		now = time.Now
	}
	return &AlertService{alerts: alerts, trips: trips, now: now}
}

// Register validates and stores alerts, returning the stored records.
// Alerts whose trigger time is not in the future are skipped silently:
// a late alert is never delivered as catch-up.
// Returns domain.ErrNotFound if a referenced trip does not exist and
// domain.ErrValidation if an alert is malformed or names the wrong user.
func (s *AlertService) Register(ctx context.Context, alerts []domain.ScheduledAlert) ([]domain.ScheduledAlert, error) {
	now := s.now()
	owners := make(map[uuid.UUID]uuid.UUID)
	keep := make([]domain.ScheduledAlert, 0, len(alerts))

	for _, a := range alerts {
		if err := validateAlert(a); err != nil {
			return nil, fmt.Errorf("service.AlertService.Register: %w", err)
		}
		owner, seen := owners[a.TripID]
		if !seen {
			trip, err := s.trips.GetByID(ctx, a.TripID)
			if err != nil {
				return nil, fmt.Errorf("service.AlertService.Register: %w", err)
			}
			owner = trip.UserID
			owners[a.TripID] = owner
		}
		if owner != a.UserID {
			return nil, fmt.Errorf("service.AlertService.Register: %w: alert user does not own trip", domain.ErrValidation)
		}
		if !a.TriggerAt.After(now) {
			continue
		}
		keep = append(keep, a)
	}

	stored, err := s.alerts.CreateBatch(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("service.AlertService.Register: %w", err)
	}
	return stored, nil
}

// ListPending returns a user's undelivered alerts by trigger time.
func (s *AlertService) ListPending(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledAlert, error) {
	alerts, err := s.alerts.ListPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.AlertService.ListPending: %w", err)
	}
	if alerts == nil {
		alerts = []domain.ScheduledAlert{}
	}
	return alerts, nil
}

func validateAlert(a domain.ScheduledAlert) error {
	switch {
	case a.TripID == uuid.Nil:
		return fmt.Errorf("%w: trip_id is required", domain.ErrValidation)
	case a.OffsetDays < 0:
		return fmt.Errorf("%w: offset_days must not be negative", domain.ErrValidation)
	case a.TriggerAt.IsZero():
		return fmt.Errorf("%w: trigger_at is required", domain.ErrValidation)
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	return nil
}
