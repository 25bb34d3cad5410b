package visa

import "time"

// Progress returns how much of the [entry, exit] window has elapsed at now,
// as a percentage clamped to [0, 100]. A zero-length or inverted window is
// reported as fully consumed (100).
func Progress(entry, exit, now time.Time) float64 {
	total := exit.Sub(entry)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(entry)
	switch {
	case elapsed <= 0:
		return 0
	case elapsed >= total:
		return 100
	}
	return float64(elapsed) / float64(total) * 100
}
