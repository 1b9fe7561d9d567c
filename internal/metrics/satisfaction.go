package metrics

import "github.com/spec-kit/helpdesk-dashboard/internal/domain"

// Satisfaction rates resolved and closed tickets. When any of them carries a feedback score the
// rate is avg(score)/5*100; otherwise it falls back to resolved/(resolved+rejected)*100. The
// feedback path is always tried first.
func Satisfaction(tickets []domain.Ticket) string {
	var resolved, rejected, rated, scoreSum int64
	for _, t := range tickets {
		switch {
		case t.Status.IsDone():
			resolved++
			if score, ok := t.Feedback(); ok {
				rated++
				scoreSum += int64(score)
			}
		case t.Status == domain.TicketStatusRejected:
			rejected++
		}
	}
	if rated > 0 {
		return percentOf(scoreSum, rated*5).StringFixed(1)
	}
	return formatPercent(resolved, resolved+rejected, "0")
}

// ReopenRate reconstructs reopened tickets from the current snapshot only: a ticket counts as
// reopened when it belongs to the rejected set but is no longer rejected. Because the rejected
// set is itself derived from current statuses, the snapshot can never show a reopened ticket;
// authoritative detection would need the per-ticket history.
func ReopenRate(tickets []domain.Ticket) string {
	rejectedIDs := make(map[string]struct{})
	for _, t := range tickets {
		if t.Status == domain.TicketStatusRejected {
			rejectedIDs[t.ID] = struct{}{}
		}
	}
	var reopened int64
	for _, t := range tickets {
		if _, ever := rejectedIDs[t.ID]; ever && t.Status != domain.TicketStatusRejected {
			reopened++
		}
	}
	rejected := int64(len(rejectedIDs))
	return formatPercent(reopened, rejected+reopened, "0.0")
}
