package metrics

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// Trends compares recent ticket creation volumes.
type Trends struct {
	ThisWeek  int    `json:"this_week"`
	ThisMonth int    `json:"this_month"`
	LastMonth int    `json:"last_month"`
	Change    string `json:"change"`
}

// WeekdayCount is one bucket of the weekday distribution.
type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

var frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

// WeekdayName returns the French name of the weekday.
func WeekdayName(d time.Weekday) string {
	return frenchWeekdays[d]
}

// ComputeTrends counts tickets created in the last 7 days, the last 30 days and the 30 days
// before that. Change compares this week with last month, 0 when last month is empty.
func ComputeTrends(tickets []domain.Ticket, now time.Time) Trends {
	weekAgo := now.Add(-7 * day)
	monthAgo := now.Add(-30 * day)
	twoMonthsAgo := now.Add(-60 * day)

	var tr Trends
	for _, t := range tickets {
		if !t.CreatedAt.Valid() {
			continue
		}
		created := t.CreatedAt.Time
		if !created.Before(weekAgo) {
			tr.ThisWeek++
		}
		if !created.Before(monthAgo) {
			tr.ThisMonth++
		} else if !created.Before(twoMonthsAgo) {
			tr.LastMonth++
		}
	}

	tr.Change = "0"
	if tr.LastMonth > 0 {
		tr.Change = oneDecimal(float64(tr.ThisWeek-tr.LastMonth) / float64(tr.LastMonth) * 100)
	}
	return tr
}

// WeekdayDistribution buckets tickets by the weekday of created_at in loc, in first-seen order.
func WeekdayDistribution(tickets []domain.Ticket, loc *time.Location) []WeekdayCount {
	if loc == nil {
		loc = time.Local
	}
	index := make(map[string]int)
	var out []WeekdayCount
	for _, t := range tickets {
		if !t.CreatedAt.Valid() {
			continue
		}
		name := WeekdayName(t.CreatedAt.In(loc).Weekday())
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, WeekdayCount{Day: name})
		}
		out[i].Count++
	}
	return out
}

// BusiestDay returns the weekday with the most tickets; the first bucket wins ties.
func BusiestDay(dist []WeekdayCount) string {
	best := -1
	busiest := NotAvailable
	for _, d := range dist {
		if d.Count > best {
			best = d.Count
			busiest = d.Day
		}
	}
	return busiest
}
