package metrics

import (
	"sort"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// UnknownAgency labels tickets whose requester has no agency.
const UnknownAgency = "Non renseignée"

// GroupStats aggregates the tickets of one agency or one technician.
type GroupStats struct {
	Key               string `json:"key"`
	Name              string `json:"name"`
	Volume            int    `json:"volume"`
	Resolved          int    `json:"resolved"`
	Rejected          int    `json:"rejected"`
	AverageResolution string `json:"average_resolution"`
	Satisfaction      string `json:"satisfaction"`
}

// AgencyStats groups tickets by requester agency (creator.agency, else user_agency).
func AgencyStats(tickets []domain.Ticket) []GroupStats {
	return groupStats(tickets, func(t domain.Ticket) (string, bool) {
		return t.Agency(), true
	}, func(key string, _ []domain.Ticket) string {
		if key == "" {
			return UnknownAgency
		}
		return key
	})
}

// TechnicianStats groups assigned tickets by technician. Names come from the roster, then from
// the technician embedded in a ticket.
func TechnicianStats(tickets []domain.Ticket, roster []domain.Technician) []GroupStats {
	names := make(map[string]string, len(roster))
	for _, tech := range roster {
		names[tech.ID] = tech.FullName
	}
	return groupStats(tickets, func(t domain.Ticket) (string, bool) {
		id := t.TechnicianIDValue()
		return id, id != ""
	}, func(key string, members []domain.Ticket) string {
		if name := names[key]; name != "" {
			return name
		}
		for _, t := range members {
			if t.Technician != nil && t.Technician.FullName != "" {
				return t.Technician.FullName
			}
		}
		return NotAvailable
	})
}

func groupStats(tickets []domain.Ticket, keyOf func(domain.Ticket) (string, bool), nameOf func(string, []domain.Ticket) string) []GroupStats {
	var order []string
	members := make(map[string][]domain.Ticket)
	for _, t := range tickets {
		key, ok := keyOf(t)
		if !ok {
			continue
		}
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], t)
	}

	out := make([]GroupStats, 0, len(order))
	for _, key := range order {
		group := members[key]
		out = append(out, GroupStats{
			Key:               key,
			Name:              nameOf(key, group),
			Volume:            len(group),
			Resolved:          countDone(group),
			Rejected:          CountByStatus(group, domain.TicketStatusRejected),
			AverageResolution: FormatResolution(group),
			Satisfaction:      Satisfaction(group),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Volume > out[j].Volume })
	return out
}

func countDone(tickets []domain.Ticket) int {
	n := 0
	for _, t := range tickets {
		if t.Status.IsDone() {
			n++
		}
	}
	return n
}
