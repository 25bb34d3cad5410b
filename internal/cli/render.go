package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/visaflow/internal/domain"
	"github.com/pkordes/visaflow/internal/visa"
)

const barWidth = 30

// paint wraps s in a 24-bit ANSI foreground colour for role. With color
// off s is returned unchanged.
func paint(s string, role visa.ColorRole, color bool) string {
	if !color {
		return s
	}
	hex := strings.TrimPrefix(role.Hex(), "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return s
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", v>>16&0xff, v>>8&0xff, v&0xff, s)
}

// progressBar renders pct (0-100) as a fixed-width bar.
func progressBar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// dayWord returns "day" or "days" for n.
func dayWord(n int) string {
	if n == 1 || n == -1 {
		return "day"
	}
	return "days"
}

// renderTracker writes the tracking card of trip as seen at now. Dates
// count down to midnight in loc.
func renderTracker(w io.Writer, trip domain.Trip, now time.Time, loc *time.Location, color bool) {
	entry := visa.InLocation(trip.EntryDate, loc)
	exit := visa.InLocation(trip.ExitDate, loc)
	status := visa.StatusAt(exit, now)
	pct := visa.Progress(entry, exit, now)

	fmt.Fprintf(w, "%s (%s) · %s\n", trip.Country, trip.CountryCode, trip.VisaType)
	fmt.Fprintf(w, "  %s\n", paint(status.Label, status.Color, color))
	left := status.DaysLeft
	if left < 0 {
		left = 0
	}
	fmt.Fprintf(w, "  %d %s left\n", left, dayWord(left))
	fmt.Fprintf(w, "  %s %.0f%%\n", progressBar(pct), pct)
	fmt.Fprintf(w, "  %s → %s (%d %s)\n",
		trip.EntryDate.Format(time.DateOnly), trip.ExitDate.Format(time.DateOnly), trip.TotalDays, dayWord(trip.TotalDays))
	if trip.ExtensionsAvailable > 0 {
		fmt.Fprintf(w, "  %d extension(s) available\n", trip.ExtensionsAvailable)
	}
}

// renderTripLine writes one row of the trip list.
func renderTripLine(w io.Writer, trip domain.Trip, now time.Time, loc *time.Location, color bool) {
	line := fmt.Sprintf("%s  %-10s %-20s %-16s %s → %s",
		trip.ID, trip.Status, trip.Country, trip.VisaType,
		trip.EntryDate.Format(time.DateOnly), trip.ExitDate.Format(time.DateOnly))
	if trip.Status == domain.TripActive {
		status := visa.StatusAt(visa.InLocation(trip.ExitDate, loc), now)
		line += "  " + paint(status.Label, status.Color, color)
	}
	fmt.Fprintln(w, line)
}

// renderRequirement writes a lookup answer.
func renderRequirement(w io.Writer, req domain.VisaRequirement) {
	if !req.Found {
		fmt.Fprintln(w, req.Message)
		return
	}
	fmt.Fprintf(w, "%s → %s: %s\n", req.NationalityCode, req.DestinationCode, verdictLabel(req.Verdict))
	if req.PermittedDays != nil {
		fmt.Fprintf(w, "  Stay: up to %d days\n", *req.PermittedDays)
	}
	if req.CostUSD != nil {
		fmt.Fprintf(w, "  Cost: $%.2f\n", *req.CostUSD)
	}
	if req.ProcessingDays != "" {
		fmt.Fprintf(w, "  Processing: %s days\n", req.ProcessingDays)
	}
	for _, c := range req.Conditions {
		fmt.Fprintf(w, "  - %s\n", c)
	}
	if req.ApplicationLink != "" {
		fmt.Fprintf(w, "  Apply: %s\n", req.ApplicationLink)
	}
	if req.LastUpdated != "" {
		fmt.Fprintf(w, "  Last updated: %s\n", req.LastUpdated)
	}
}

func verdictLabel(v domain.Verdict) string {
	switch v {
	case domain.VerdictVisaFree:
		return "Visa-free"
	case domain.VerdictEVisa:
		return "eVisa required"
	case domain.VerdictVisaOnArrival:
		return "Visa on arrival"
	case domain.VerdictEmbassyVisa:
		return "Embassy visa required"
	default:
		return "Unknown"
	}
}
