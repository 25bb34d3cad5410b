package visa

import (
	"fmt"
	"time"

	"github.com/pkordes/visaflow/internal/domain"
)

// DefaultOffsets is the alert ladder: days before the exit date at which a
// reminder fires.
var DefaultOffsets = []int{14, 7, 3, 1}

// DefaultAlertHour is the local hour of day alerts fire at.
const DefaultAlertHour = 9

// Scheduler turns a trip's exit date into the list of expiry reminders to
// hand to a notification service. It never starts timers itself.
type Scheduler struct {
	// Offsets are days before exit, largest first. Nil means DefaultOffsets.
	Offsets []int
	// IncludeExpiryDay adds a 0-day "expires today" alert after the ladder.
	IncludeExpiryDay bool
	// Hour is the local hour alerts fire at.
	Hour int
	// Location is the traveller's time zone. Nil means UTC.
	Location *time.Location
}

// NewScheduler returns a Scheduler with the default ladder at 09:00 in loc.
func NewScheduler(loc *time.Location) Scheduler {
	return Scheduler{Hour: DefaultAlertHour, Location: loc}
}

func (s Scheduler) offsets() []int {
	offsets := s.Offsets
	if offsets == nil {
		offsets = DefaultOffsets
	}
	if !s.IncludeExpiryDay {
		return offsets
	}
	out := make([]int, 0, len(offsets)+1)
	for _, o := range offsets {
		if o != 0 {
			out = append(out, o)
		}
	}
	return append(out, 0)
}

// TriggerTime is when the alert offsetDays before exit fires.
func (s Scheduler) TriggerTime(exit time.Time, offsetDays int) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := exit.Date()
	return time.Date(y, m, d-offsetDays, s.Hour, 0, 0, 0, loc)
}

// Schedule returns one alert per ladder rung whose trigger time is strictly
// after now. Rungs already in the past are dropped, not fired late.
// Without notification permission nothing is scheduled; that is not an error.
func (s Scheduler) Schedule(trip domain.Trip, now time.Time, permitted bool) []domain.ScheduledAlert {
	if !permitted {
		return nil
	}
	var alerts []domain.ScheduledAlert
	for _, offset := range s.offsets() {
		at := s.TriggerTime(trip.ExitDate, offset)
		if !at.After(now) {
			continue
		}
		title, body := alertText(placeName(trip), offset)
		alerts = append(alerts, domain.ScheduledAlert{
			TripID:     trip.ID,
			UserID:     trip.UserID,
			OffsetDays: offset,
			TriggerAt:  at,
			Title:      title,
			Body:       body,
		})
	}
	return alerts
}

func placeName(trip domain.Trip) string {
	if trip.Country != "" {
		return trip.Country
	}
	return trip.CountryCode
}

func alertText(country string, offset int) (title, body string) {
	prefix := "Your visa for " + country + " expires"
	switch offset {
	case 0:
		return "🚨 EXPIRES TODAY", prefix + " today"
	case 1:
		return "🚨 CRITICAL", prefix + " TOMORROW"
	case 3:
		return "🚨 URGENT", prefix + " in 3 days"
	case 7:
		return "⚠️ Visa Warning", prefix + " in 1 week"
	default:
		return "Visa Alert", fmt.Sprintf("%s in %d days", prefix, offset)
	}
}
