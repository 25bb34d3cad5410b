package visa

import "github.com/pkordes/visaflow/internal/domain"

// ActiveRule decides which trip is "the" active trip when several trips
// carry status active at once.
type ActiveRule string

const (
	// FirstMatch picks the first active trip in list order.
	FirstMatch ActiveRule = "first"
	// SoonestExpiring picks the active trip with the earliest exit date;
	// ties keep list order.
	SoonestExpiring ActiveRule = "soonest"
)

// ParseActiveRule maps a config value onto an ActiveRule, defaulting to
// FirstMatch for anything unrecognised.
func ParseActiveRule(s string) ActiveRule {
	if ActiveRule(s) == SoonestExpiring {
		return SoonestExpiring
	}
	return FirstMatch
}

// ActiveTrip returns the trip presented on the tracking screen.
// ok is false when no trip in the list is active.
func ActiveTrip(trips []domain.Trip, rule ActiveRule) (trip domain.Trip, ok bool) {
	for _, t := range trips {
		if t.Status != domain.TripActive {
			continue
		}
		if !ok {
			trip, ok = t, true
			if rule != SoonestExpiring {
				return trip, true
			}
			continue
		}
		if t.ExitDate.Before(trip.ExitDate) {
			trip = t
		}
	}
	return trip, ok
}
