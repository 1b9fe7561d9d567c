package domain

import "time"

// Snapshot is the data a dashboard renders from, as last fetched from the helpdesk API.
type Snapshot struct {
	Tickets       []Ticket       `json:"tickets"`
	Technicians   []Technician   `json:"technicians"`
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	FetchedAt     time.Time      `json:"fetched_at"`
}

// Clone copies the slices so callers cannot alias the stored snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Tickets:       append([]Ticket(nil), s.Tickets...),
		Technicians:   append([]Technician(nil), s.Technicians...),
		Notifications: append([]Notification(nil), s.Notifications...),
		UnreadCount:   s.UnreadCount,
		FetchedAt:     s.FetchedAt,
	}
}

// FindTicket returns the ticket with id.
func (s Snapshot) FindTicket(id string) (Ticket, bool) {
	for _, t := range s.Tickets {
		if t.ID == id {
			return t, true
		}
	}
	return Ticket{}, false
}
