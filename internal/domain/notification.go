package domain

// Notification is an in-app notification from /notifications/.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	TicketID  *string   `json:"ticket_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt Timestamp `json:"created_at"`
	ReadAt    Timestamp `json:"read_at,omitempty"`
}
