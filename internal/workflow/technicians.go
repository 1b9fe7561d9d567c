package workflow

import "github.com/spec-kit/helpdesk-dashboard/internal/domain"

// TechnicianOption is a roster entry offered in the assignment picker.
type TechnicianOption struct {
	domain.Technician
	Workload int `json:"workload"`
}

// CandidateTechnicians keeps technicians whose specialization matches the ticket type. An
// untyped ticket gets the whole roster.
func CandidateTechnicians(technicians []domain.Technician, ticketType domain.TicketType) []domain.Technician {
	if ticketType == "" {
		return append([]domain.Technician(nil), technicians...)
	}
	out := make([]domain.Technician, 0, len(technicians))
	for _, tech := range technicians {
		if tech.Specialization == ticketType {
			out = append(out, tech)
		}
	}
	return out
}

// Workload counts the tickets a technician is actively working.
func Workload(tickets []domain.Ticket, technicianID string) int {
	if technicianID == "" {
		return 0
	}
	count := 0
	for _, t := range tickets {
		if t.TechnicianIDValue() == technicianID && t.Status.IsActive() {
			count++
		}
	}
	return count
}

// TechnicianOptions returns the candidates for ticket with their current workload.
func TechnicianOptions(ticket domain.Ticket, technicians []domain.Technician, tickets []domain.Ticket) []TechnicianOption {
	candidates := CandidateTechnicians(technicians, ticket.Type)
	out := make([]TechnicianOption, 0, len(candidates))
	for _, tech := range candidates {
		out = append(out, TechnicianOption{Technician: tech, Workload: Workload(tickets, tech.ID)})
	}
	return out
}
