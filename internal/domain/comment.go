package domain

// CommentType classifies a ticket comment.
type CommentType string

const (
	CommentTypeTechnical CommentType = "technique"
	CommentTypeUser      CommentType = "utilisateur"
	CommentTypeSystem    CommentType = "systeme"
)

// Comment mirrors the CommentRead payload of the helpdesk API.
type Comment struct {
	ID        string      `json:"id"`
	TicketID  string      `json:"ticket_id"`
	UserID    string      `json:"user_id"`
	Content   string      `json:"content"`
	Type      CommentType `json:"type"`
	CreatedAt Timestamp   `json:"created_at"`
}
