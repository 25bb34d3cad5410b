package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus tracks where a user is in the paid-plan lifecycle.
type SubscriptionStatus string

const (
	SubscriptionTrial   SubscriptionStatus = "trial"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Valid reports whether s is a known SubscriptionStatus.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionExpired:
		return true
	}
	return false
}

// TrialLength is how long the free trial lasts from TrialStart.
const TrialLength = 7 * 24 * time.Hour

// User is a traveller. The backend owns the record; clients hold a cached,
// possibly stale copy.
type User struct {
	ID                   uuid.UUID
	FirstName            string
	Nationality          string
	NationalityCode      string
	NotificationsEnabled bool
	OnboardingCompleted  bool
	TrialStart           time.Time
	SubscriptionStatus   SubscriptionStatus
	CreatedAt            time.Time
}

// UserPatch is a partial update. Nil fields are left untouched.
type UserPatch struct {
	FirstName            *string
	Nationality          *string
	NationalityCode      *string
	NotificationsEnabled *bool
	OnboardingCompleted  *bool
	SubscriptionStatus   *SubscriptionStatus
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil &&
		p.Nationality == nil &&
		p.NationalityCode == nil &&
		p.NotificationsEnabled == nil &&
		p.OnboardingCompleted == nil &&
		p.SubscriptionStatus == nil
}
