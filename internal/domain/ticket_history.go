package domain

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID        string       `json:"id"`
	TicketID  string       `json:"ticket_id"`
	OldStatus TicketStatus `json:"old_status,omitempty"`
	NewStatus TicketStatus `json:"new_status"`
	UserID    string       `json:"user_id"`
	Reason    string       `json:"reason,omitempty"`
	ChangedAt Timestamp    `json:"changed_at"`
	User      *PersonRef   `json:"user,omitempty"`
}
