package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/dashboard"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/workflow"
)

// TechnicianActionRequest is the body of assign, reassign and reopen.
type TechnicianActionRequest struct {
	TechnicianID string `json:"technician_id"`
	Reason       string `json:"reason"`
	Notes        string `json:"notes"`
}

// AssignInput maps the request to the assign call.
func (r TechnicianActionRequest) AssignInput() workflow.AssignInput {
	return workflow.AssignInput{TechnicianID: r.TechnicianID, Reason: r.Reason, Notes: r.Notes}
}

// ReassignInput maps the request to the reassign call.
func (r TechnicianActionRequest) ReassignInput() workflow.ReassignInput {
	return workflow.ReassignInput{TechnicianID: r.TechnicianID, Reason: r.Reason}
}

// ReopenInput maps the request to the reopen call.
func (r TechnicianActionRequest) ReopenInput() workflow.ReopenInput {
	return workflow.ReopenInput{TechnicianID: r.TechnicianID, Reason: r.Reason}
}

// ValidateRequest is the requester's verdict on a resolved ticket.
type ValidateRequest struct {
	Validated       *bool  `json:"validated"`
	RejectionReason string `json:"rejection_reason"`
}

// FeedbackRequest scores a closed ticket.
type FeedbackRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// ResolveRequest closes the technician's work on a ticket.
type ResolveRequest struct {
	ResolutionSummary string `json:"resolution_summary"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content string             `json:"content"`
	Type    domain.CommentType `json:"type"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        domain.TicketType     `json:"type"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    string                `json:"category"`
}

// Input maps the request to the create call.
func (r CreateTicketRequest) Input() workflow.CreateTicketInput {
	return workflow.CreateTicketInput{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Priority:    r.Priority,
		Category:    r.Category,
	}
}

// TicketListResponse is the ticket table of a dashboard.
type TicketListResponse struct {
	Rows      []dashboard.Row `json:"rows"`
	Total     int             `json:"total"`
	FetchedAt *time.Time      `json:"fetched_at,omitempty"`
}

// NotificationsResponse lists notifications with the unread badge.
type NotificationsResponse struct {
	Items       []domain.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
}
