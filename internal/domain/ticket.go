package domain

// TicketStatus enumerates lifecycle states reported by the helpdesk API.
type TicketStatus string

const (
	TicketStatusPendingAnalysis    TicketStatus = "en_attente_analyse"
	TicketStatusAssignedTechnician TicketStatus = "assigne_technicien"
	TicketStatusInProgress         TicketStatus = "en_cours"
	TicketStatusResolved           TicketStatus = "resolu"
	TicketStatusClosed             TicketStatus = "cloture"
	TicketStatusRejected           TicketStatus = "rejete"
)

// TicketStatuses lists known statuses in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusPendingAnalysis,
	TicketStatusAssignedTechnician,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
	TicketStatusRejected,
}

var statusLabels = map[TicketStatus]string{
	TicketStatusPendingAnalysis:    "En attente d'analyse",
	TicketStatusAssignedTechnician: "Assigné au technicien",
	TicketStatusInProgress:         "En cours",
	TicketStatusResolved:           "Résolu",
	TicketStatusClosed:             "Clôturé",
	TicketStatusRejected:           "Rejeté",
}

// Label returns the display label; unknown statuses are returned unchanged.
func (s TicketStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Known reports whether s is one of TicketStatuses.
func (s TicketStatus) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsDone reports whether the ticket counts as resolved for reporting.
func (s TicketStatus) IsDone() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// IsActive reports whether a technician is currently working the ticket.
func (s TicketStatus) IsActive() bool {
	return s == TicketStatusAssignedTechnician || s == TicketStatusInProgress
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "critique"
	TicketPriorityHigh     TicketPriority = "haute"
	TicketPriorityMedium   TicketPriority = "moyenne"
	TicketPriorityLow      TicketPriority = "faible"
)

// TicketPriorities lists known priorities from most to least urgent.
var TicketPriorities = []TicketPriority{
	TicketPriorityCritical,
	TicketPriorityHigh,
	TicketPriorityMedium,
	TicketPriorityLow,
}

// TicketType separates hardware from application incidents.
type TicketType string

const (
	TicketTypeHardware    TicketType = "materiel"
	TicketTypeApplication TicketType = "applicatif"
)

// PersonRef is the expanded user attached to a ticket.
type PersonRef struct {
	ID       string `json:"id,omitempty"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Agency   string `json:"agency,omitempty"`
}

// Ticket mirrors the TicketRead payload of the helpdesk API. The client never mutates it.
type Ticket struct {
	ID              string         `json:"id"`
	Number          int            `json:"number"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Status          TicketStatus   `json:"status"`
	Priority        TicketPriority `json:"priority"`
	Type            TicketType     `json:"type"`
	Category        string         `json:"category,omitempty"`
	CreatorID       string         `json:"creator_id"`
	Creator         *PersonRef     `json:"creator,omitempty"`
	UserAgency      string         `json:"user_agency,omitempty"`
	TechnicianID    *string        `json:"technician_id,omitempty"`
	Technician      *PersonRef     `json:"technician,omitempty"`
	SecretaryID     *string        `json:"secretary_id,omitempty"`
	CreatedAt       Timestamp      `json:"created_at"`
	AssignedAt      Timestamp      `json:"assigned_at,omitempty"`
	ResolvedAt      Timestamp      `json:"resolved_at,omitempty"`
	ClosedAt        Timestamp      `json:"closed_at,omitempty"`
	FeedbackScore   *int           `json:"feedback_score,omitempty"`
	FeedbackComment string         `json:"feedback_comment,omitempty"`
}

// HasTechnician reports whether a technician is assigned.
func (t Ticket) HasTechnician() bool {
	return t.TechnicianID != nil && *t.TechnicianID != ""
}

// TechnicianIDValue returns the technician id or an empty string.
func (t Ticket) TechnicianIDValue() string {
	if t.TechnicianID == nil {
		return ""
	}
	return *t.TechnicianID
}

// Agency resolves the requester agency, preferring the expanded creator.
func (t Ticket) Agency() string {
	if t.Creator != nil && t.Creator.Agency != "" {
		return t.Creator.Agency
	}
	return t.UserAgency
}

// Feedback returns the feedback score when it is a valid rating.
func (t Ticket) Feedback() (int, bool) {
	if t.FeedbackScore == nil || *t.FeedbackScore <= 0 {
		return 0, false
	}
	return *t.FeedbackScore, true
}

// Technician is a roster entry from /users/technicians.
type Technician struct {
	ID                     string     `json:"id"`
	FullName               string     `json:"full_name"`
	Email                  string     `json:"email,omitempty"`
	Specialization         TicketType `json:"specialization,omitempty"`
	AssignedTicketsCount   *int       `json:"assigned_tickets_count,omitempty"`
	InProgressTicketsCount *int       `json:"in_progress_tickets_count,omitempty"`
}
