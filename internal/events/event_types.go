package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventActionCompleted   EventType = "action_completed"
	EventSnapshotRefreshed EventType = "snapshot_refreshed"
	EventUIStateChanged    EventType = "ui_state_changed"
	EventReportArchived    EventType = "report_archived"
)

// Actor identifies the dashboard viewer behind an event.
type Actor struct {
	SessionKey string      `json:"session_key"`
	UserID     string      `json:"user_id"`
	Role       domain.Role `json:"role"`
}

// Event represents something a dashboard session did.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, actor Actor, ticketID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ActionCompletedPayload payload.
type ActionCompletedPayload struct {
	Action    string              `json:"action"`
	OldStatus domain.TicketStatus `json:"old_status,omitempty"`
	NewStatus domain.TicketStatus `json:"new_status,omitempty"`
}

// SnapshotRefreshedPayload carries the refreshed snapshot so subscribers can cache it.
type SnapshotRefreshedPayload struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Failed   []string        `json:"failed,omitempty"`
}

// UIStateChangedPayload payload.
type UIStateChangedPayload struct {
	State domain.UIState `json:"state"`
}

// ReportArchivedPayload payload.
type ReportArchivedPayload struct {
	ReportID   string            `json:"report_id"`
	ReportType domain.ReportType `json:"report_type"`
	Title      string            `json:"title"`
}
