package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/repo"
)

// UserService implements business logic for User operations.
type UserService struct {
	users repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided UserRepo.
func NewUserService(r repo.UserRepo) *UserService {
	return &UserService{users: r}
}

// Create inserts a bare user. Profile fields arrive later via Update.
func (s *UserService) Create(ctx context.Context) (domain.User, error) {
	u, err := s.users.Create(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	return u, nil
}

// GetByID returns a single user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return u, nil
}

// Update applies a partial update.
// Returns domain.ErrValidation for an empty patch or an unknown subscription
// status, domain.ErrNotFound if the user does not exist.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error) {
	if err := normalizePatch(&patch); err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	u, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	return u, nil
}

// normalizePatch trims text fields, upper-cases the nationality code and
// rejects patches that would change nothing.
func normalizePatch(p *domain.UserPatch) error {
	if p.IsEmpty() {
		return fmt.Errorf("%w: no update data provided", domain.ErrValidation)
	}
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	p.FirstName = trim(p.FirstName)
	p.Nationality = trim(p.Nationality)
	if code := trim(p.NationalityCode); code != nil {
		upper := strings.ToUpper(*code)
		p.NationalityCode = &upper
	}
	if p.SubscriptionStatus != nil && !p.SubscriptionStatus.Valid() {
		return fmt.Errorf("%w: unknown subscription_status %q", domain.ErrValidation, *p.SubscriptionStatus)
	}
	return nil
}
