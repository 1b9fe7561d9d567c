package metrics

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

const day = 24 * time.Hour

// ResolutionSample returns the creation-to-resolution duration of a resolved or closed ticket.
// Closed tickets use closed_at, resolved ones resolved_at. Missing dates and negative durations
// yield no sample.
func ResolutionSample(t domain.Ticket) (time.Duration, bool) {
	if !t.Status.IsDone() || !t.CreatedAt.Valid() {
		return 0, false
	}
	end := t.ResolvedAt
	if t.Status == domain.TicketStatusClosed {
		end = t.ClosedAt
	}
	if !end.Valid() {
		return 0, false
	}
	diff := end.Sub(t.CreatedAt.Time)
	if diff < 0 {
		return 0, false
	}
	return diff, true
}

// AverageResolution returns the mean resolution duration and the number of samples.
func AverageResolution(tickets []domain.Ticket) (time.Duration, int) {
	var sum time.Duration
	n := 0
	for _, t := range tickets {
		if d, ok := ResolutionSample(t); ok {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / time.Duration(n), n
}

// AverageResolutionDays is the headline figure: mean resolution time in whole days, 0 when no
// ticket qualifies.
func AverageResolutionDays(tickets []domain.Ticket) int {
	avg, n := AverageResolution(tickets)
	if n == 0 {
		return 0
	}
	return roundHalfUp(float64(avg) / float64(day))
}

// FormatResolution renders a per-group mean: hours below a day, days from 24 hours on.
func FormatResolution(tickets []domain.Ticket) string {
	avg, n := AverageResolution(tickets)
	if n == 0 {
		return NotAvailable
	}
	hours := avg.Hours()
	if hours >= 24 {
		return oneDecimal(hours/24) + "j"
	}
	return oneDecimal(hours) + "h"
}
