package visa

import (
	"time"

	"github.com/pkordes/visaflow/internal/domain"
)

// TrialDaysLeft returns the whole days remaining in a user's free trial,
// rounded up and never negative. A zero TrialStart means the trial has not
// been recorded yet and the full length is reported.
func TrialDaysLeft(trialStart, now time.Time) int {
	full := int(domain.TrialLength / day)
	if trialStart.IsZero() {
		return full
	}
	left := DaysLeft(trialStart.Add(domain.TrialLength), now)
	if left < 0 {
		return 0
	}
	return left
}
