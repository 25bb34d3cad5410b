// Package visa holds the date arithmetic every VisaFlow screen derives its
// display values from: days remaining, the severity ladder, window progress,
// the expiry alert schedule, and the active-trip selection rule.
// Everything here is pure; the current time is always passed in.
package visa

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Tier is the severity of a visa given the days left before exit.
type Tier string

const (
	TierOnTrack  Tier = "on-track"
	TierWarning  Tier = "warning"
	TierUrgent   Tier = "urgent"
	TierCritical Tier = "critical"
	TierExpired  Tier = "expired"
)

// ColorRole names the palette slot a tier is rendered with. Hex carries the
// value used by the reference palette.
type ColorRole string

const (
	ColorSuccess  ColorRole = "success"
	ColorWarning  ColorRole = "warning"
	ColorUrgent   ColorRole = "urgent"
	ColorCritical ColorRole = "critical"
)

// Hex returns the reference palette value for c.
func (c ColorRole) Hex() string {
	switch c {
	case ColorSuccess:
		return "#10b981"
	case ColorWarning:
		return "#f59e0b"
	case ColorUrgent:
		return "#fb923c"
	default:
		return "#ef4444"
	}
}

// Status is the classifier output for one daysLeft value.
type Status struct {
	DaysLeft int
	Tier     Tier
	Label    string
	Color    ColorRole
}

// Classify maps daysLeft onto the severity ladder. Lower bounds are
// inclusive: 14 is on-track, 7 is warning, 3 is urgent, 1 is critical.
func Classify(daysLeft int) Status {
	s := Status{DaysLeft: daysLeft}
	switch {
	case daysLeft >= 14:
		s.Tier, s.Label, s.Color = TierOnTrack, "On Track", ColorSuccess
	case daysLeft >= 7:
		s.Tier, s.Label, s.Color = TierWarning, "Plan Exit Soon", ColorWarning
	case daysLeft >= 3:
		s.Tier, s.Label, s.Color = TierUrgent, "Urgent: Exit Soon", ColorUrgent
	case daysLeft >= 1:
		s.Tier, s.Label, s.Color = TierCritical, "CRITICAL: Exit Now", ColorCritical
	default:
		s.Tier, s.Label, s.Color = TierExpired, "EXPIRED TODAY", ColorCritical
	}
	return s
}

// DaysLeft returns the number of days from now until exit, rounding any
// fraction up: a visa expiring in 23 hours has 1 day left, not 0.
// The result is negative once exit is more than a day in the past.
func DaysLeft(exit, now time.Time) int {
	return int(math.Ceil(float64(exit.Sub(now)) / float64(day)))
}

// StatusAt is shorthand for Classify(DaysLeft(exit, now)).
func StatusAt(exit, now time.Time) Status {
	return Classify(DaysLeft(exit, now))
}

// InLocation returns midnight of date's calendar day in loc. Trip dates are
// stored as UTC midnights; the tracker counts down to the traveller's
// local midnight.
func InLocation(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
