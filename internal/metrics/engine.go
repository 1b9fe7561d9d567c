// Package metrics derives dashboard report figures from a ticket snapshot. Every function is
// pure and tolerates empty or incomplete input.
package metrics

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// Report gathers every figure shown on the reporting views.
type Report struct {
	GeneratedAt           time.Time      `json:"generated_at"`
	TotalTickets          int            `json:"total_tickets"`
	StatusBreakdown       []Breakdown    `json:"status_breakdown"`
	PriorityBreakdown     []Breakdown    `json:"priority_breakdown"`
	AverageResolutionDays int            `json:"average_resolution_days"`
	Satisfaction          string         `json:"satisfaction"`
	ReopenRate            string         `json:"reopen_rate"`
	Agencies              []GroupStats   `json:"agencies"`
	Technicians           []GroupStats   `json:"technicians"`
	Trends                Trends         `json:"trends"`
	Weekdays              []WeekdayCount `json:"weekdays"`
	BusiestDay            string         `json:"busiest_day"`
	FrequentProblems      []ProblemGroup `json:"frequent_problems"`
	ProblemHistory        []ProblemGroup `json:"problem_history"`
}

// RequesterSummary holds the counters of the requester dashboard.
type RequesterSummary struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// Engine binds the pure aggregations to a clock and a display location.
type Engine struct {
	location *time.Location
	now      func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLocation sets the location used for weekday bucketing.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithClock overrides the reference time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine builds an engine using the local zone and wall clock unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{location: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build computes the full report for a snapshot.
func (e *Engine) Build(tickets []domain.Ticket, technicians []domain.Technician) Report {
	now := e.now()
	weekdays := WeekdayDistribution(tickets, e.location)
	return Report{
		GeneratedAt:           now,
		TotalTickets:          len(tickets),
		StatusBreakdown:       StatusBreakdown(tickets),
		PriorityBreakdown:     PriorityBreakdown(tickets),
		AverageResolutionDays: AverageResolutionDays(tickets),
		Satisfaction:          Satisfaction(tickets),
		ReopenRate:            ReopenRate(tickets),
		Agencies:              AgencyStats(tickets),
		Technicians:           TechnicianStats(tickets, technicians),
		Trends:                ComputeTrends(tickets, now),
		Weekdays:              weekdays,
		BusiestDay:            BusiestDay(weekdays),
		FrequentProblems:      FrequentProblems(tickets),
		ProblemHistory:        ProblemHistory(tickets),
	}
}

// Summarize counts the requester dashboard tiles.
func Summarize(tickets []domain.Ticket) RequesterSummary {
	var s RequesterSummary
	for _, t := range tickets {
		switch {
		case t.Status.IsDone():
			s.Resolved++
		case t.Status == domain.TicketStatusRejected:
		default:
			s.Open++
		}
		if t.Status.IsActive() {
			s.InProgress++
		}
	}
	return s
}
