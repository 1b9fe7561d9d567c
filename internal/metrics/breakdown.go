package metrics

import "github.com/spec-kit/helpdesk-dashboard/internal/domain"

// Breakdown is one bucket of a status or priority partition.
type Breakdown struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// StatusBreakdown partitions tickets by status. Known statuses come first in lifecycle order;
// unknown ones follow in first-seen order so that counts always add up to the total.
func StatusBreakdown(tickets []domain.Ticket) []Breakdown {
	keys := make([]string, 0, len(domain.TicketStatuses))
	for _, s := range domain.TicketStatuses {
		keys = append(keys, string(s))
	}
	return partition(tickets, keys, func(t domain.Ticket) string { return string(t.Status) }, func(k string) string {
		return domain.TicketStatus(k).Label()
	})
}

// PriorityBreakdown partitions tickets by priority, most urgent first.
func PriorityBreakdown(tickets []domain.Ticket) []Breakdown {
	keys := make([]string, 0, len(domain.TicketPriorities))
	for _, p := range domain.TicketPriorities {
		keys = append(keys, string(p))
	}
	return partition(tickets, keys, func(t domain.Ticket) string { return string(t.Priority) }, func(k string) string {
		return k
	})
}

// CountByStatus returns the number of tickets in status.
func CountByStatus(tickets []domain.Ticket, status domain.TicketStatus) int {
	n := 0
	for _, t := range tickets {
		if t.Status == status {
			n++
		}
	}
	return n
}

func partition(tickets []domain.Ticket, known []string, keyOf func(domain.Ticket) string, labelOf func(string) string) []Breakdown {
	counts := make(map[string]int, len(known))
	order := append([]string(nil), known...)
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[k] = true
	}
	for _, t := range tickets {
		k := keyOf(t)
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		counts[k]++
	}

	raw := make([]int64, len(order))
	for i, k := range order {
		raw[i] = int64(counts[k])
	}
	percents := shares(raw, int64(len(tickets)), "0")

	out := make([]Breakdown, 0, len(order))
	for i, k := range order {
		out = append(out, Breakdown{
			Key:        k,
			Label:      labelOf(k),
			Count:      counts[k],
			Percentage: percents[i],
		})
	}
	return out
}
