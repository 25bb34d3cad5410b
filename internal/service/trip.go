// Package service contains the business logic for the VisaFlow API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the users repo because a trip can only be created for an
// existing user.
type TripService struct {
	trips repo.TripRepo
	users repo.UserRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, users repo.UserRepo) *TripService {
	return &TripService{trips: trips, users: users}
}

// Create validates the draft, verifies the owner exists, then persists the
// trip with a computed TotalDays and status active.
// Returns domain.ErrValidation if the draft violates business rules.
// Returns domain.ErrNotFound if the owner does not exist.
func (s *TripService) Create(ctx context.Context, userID uuid.UUID, draft domain.TripDraft) (domain.Trip, error) {
	if err := draft.Validate(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip := domain.Trip{
		UserID:              userID,
		Country:             draft.Country,
		CountryCode:         draft.CountryCode,
		VisaType:            draft.VisaType,
		EntryDate:           domain.Date(draft.EntryDate),
		ExitDate:            domain.Date(draft.ExitDate),
		ExtensionsAvailable: draft.ExtensionsAvailable,
		TotalDays:           draft.TotalDays(),
		Status:              domain.TripActive,
	}
	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns one page of a user's trips, optionally filtered by
// status, plus the total count. Always returns a non-nil slice so callers can
// safely range over it.
func (s *TripService) ListByUser(ctx context.Context, userID uuid.UUID, status domain.TripStatus, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	trips, total, err := s.trips.ListByUser(ctx, userID, status, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListByUser: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Complete marks a trip as completed.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Complete(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.UpdateStatus(ctx, id, domain.TripCompleted)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Complete: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}
