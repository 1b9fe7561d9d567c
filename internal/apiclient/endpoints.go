package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/workflow"
)

func ticketPath(id, suffix string) string {
	return "/tickets/" + url.PathEscape(id) + suffix
}

// Me returns the viewer behind token.
func (c *Client) Me(ctx context.Context, token string) (domain.Viewer, error) {
	var v domain.Viewer
	err := c.do(ctx, token, http.MethodGet, "/auth/me", nil, &v)
	return v, err
}

// ListTickets returns every ticket visible to staff.
func (c *Client) ListTickets(ctx context.Context, token string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := c.do(ctx, token, http.MethodGet, "/tickets/", nil, &out)
	return out, err
}

// ListMyTickets returns the tickets created by the viewer.
func (c *Client) ListMyTickets(ctx context.Context, token string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := c.do(ctx, token, http.MethodGet, "/tickets/me", nil, &out)
	return out, err
}

// ListAssignedTickets returns the tickets assigned to the viewer as technician.
func (c *Client) ListAssignedTickets(ctx context.Context, token string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := c.do(ctx, token, http.MethodGet, "/tickets/assigned", nil, &out)
	return out, err
}

// GetTicket fetches one ticket.
func (c *Client) GetTicket(ctx context.Context, token, id string) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodGet, ticketPath(id, ""), nil, &t)
	return t, err
}

// TicketHistory fetches the status history of a ticket.
func (c *Client) TicketHistory(ctx context.Context, token, id string) ([]domain.TicketHistory, error) {
	var out []domain.TicketHistory
	err := c.do(ctx, token, http.MethodGet, ticketPath(id, "/history"), nil, &out)
	return out, err
}

// CreateTicket submits a new ticket.
func (c *Client) CreateTicket(ctx context.Context, token string, in workflow.CreateTicketInput) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPost, "/tickets/", in, &t)
	return t, err
}

// AssignTicket assigns a technician and returns the updated ticket.
func (c *Client) AssignTicket(ctx context.Context, token, id string, in workflow.AssignInput) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/assign"), in, &t)
	return t, err
}

// ReassignTicket moves a ticket to another technician.
func (c *Client) ReassignTicket(ctx context.Context, token, id string, in workflow.ReassignInput) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/reassign"), in, &t)
	return t, err
}

// EscalateTicket raises the ticket priority by one level.
func (c *Client) EscalateTicket(ctx context.Context, token, id string) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/escalate"), nil, &t)
	return t, err
}

// UpdateStatus sets the ticket status directly; staff use it to close tickets.
func (c *Client) UpdateStatus(ctx context.Context, token, id string, status domain.TicketStatus) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/status"), workflow.StatusInput{Status: status}, &t)
	return t, err
}

// ResolveTicket marks an in-progress ticket resolved with its summary.
func (c *Client) ResolveTicket(ctx context.Context, token, id string, in workflow.ResolveInput) (domain.Ticket, error) {
	var t domain.Ticket
	body := workflow.StatusInput{Status: domain.TicketStatusResolved, ResolutionSummary: in.ResolutionSummary}
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/status"), body, &t)
	return t, err
}

// ListComments returns the comments of a ticket, oldest first.
func (c *Client) ListComments(ctx context.Context, token, id string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := c.do(ctx, token, http.MethodGet, ticketPath(id, "/comments"), nil, &out)
	return out, err
}

// AddComment posts a comment on a ticket.
func (c *Client) AddComment(ctx context.Context, token, id string, in workflow.CommentInput) (domain.Comment, error) {
	var out domain.Comment
	in.TicketID = id
	err := c.do(ctx, token, http.MethodPost, ticketPath(id, "/comments"), in, &out)
	return out, err
}

// ReopenTicket reopens a rejected ticket onto a technician.
func (c *Client) ReopenTicket(ctx context.Context, token, id string, in workflow.ReopenInput) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/reopen"), in, &t)
	return t, err
}

// ValidateTicket records the requester decision on a resolved ticket.
func (c *Client) ValidateTicket(ctx context.Context, token, id string, in workflow.ValidateInput) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/validate"), in, &t)
	return t, err
}

// SubmitFeedback rates a closed ticket.
func (c *Client) SubmitFeedback(ctx context.Context, token, id string, in workflow.FeedbackInput) (domain.Ticket, error) {
	var t domain.Ticket
	err := c.do(ctx, token, http.MethodPut, ticketPath(id, "/feedback"), in, &t)
	return t, err
}

// ListTechnicians returns the technician roster.
func (c *Client) ListTechnicians(ctx context.Context, token string) ([]domain.Technician, error) {
	var out []domain.Technician
	err := c.do(ctx, token, http.MethodGet, "/users/technicians", nil, &out)
	return out, err
}

// ListNotifications returns the viewer notifications.
func (c *Client) ListNotifications(ctx context.Context, token string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := c.do(ctx, token, http.MethodGet, "/notifications/", nil, &out)
	return out, err
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context, token string) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	err := c.do(ctx, token, http.MethodGet, "/notifications/unread/count", nil, &out)
	return out.UnreadCount, err
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}
