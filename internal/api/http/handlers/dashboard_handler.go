package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/dto"
	"github.com/spec-kit/helpdesk-dashboard/internal/dashboard"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/export"
	"github.com/spec-kit/helpdesk-dashboard/internal/workflow"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

// DashboardHandler serves the live dashboard of the authenticated viewer.
type DashboardHandler struct{}

// NewDashboardHandler constructs handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// ListTickets GET /dashboard/tickets.
func (h *DashboardHandler) ListTickets(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	delegation, err := workflow.ParseDelegationFilter(c.Query("delegation"))
	if err != nil {
		return apperrors.NewValidationError("Filtre de délégation inconnu", map[string]any{"delegation": c.Query("delegation")})
	}
	rows := session.Rows(domain.TicketStatus(c.Query("status")), delegation)
	snap := session.Snapshot()
	resp := dto.TicketListResponse{Rows: rows, Total: len(rows)}
	if !snap.FetchedAt.IsZero() {
		fetchedAt := snap.FetchedAt
		resp.FetchedAt = &fetchedAt
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetTicket GET /dashboard/tickets/:id.
func (h *DashboardHandler) GetTicket(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	detail, err := session.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Candidates GET /dashboard/tickets/:id/candidates.
func (h *DashboardHandler) Candidates(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	options, err := session.Candidates(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": options})
}

// CreateTicket POST /dashboard/tickets.
func (h *DashboardHandler) CreateTicket(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := session.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// Assign POST /dashboard/tickets/:id/assign.
func (h *DashboardHandler) Assign(c *fiber.Ctx) error {
	return h.technicianAction(c, func(ctx context.Context, s *dashboard.Session, id string, req dto.TechnicianActionRequest) (domain.Ticket, error) {
		return s.Assign(ctx, id, req.AssignInput())
	})
}

// Reassign POST /dashboard/tickets/:id/reassign.
func (h *DashboardHandler) Reassign(c *fiber.Ctx) error {
	return h.technicianAction(c, func(ctx context.Context, s *dashboard.Session, id string, req dto.TechnicianActionRequest) (domain.Ticket, error) {
		return s.Reassign(ctx, id, req.ReassignInput())
	})
}

// Reopen POST /dashboard/tickets/:id/reopen.
func (h *DashboardHandler) Reopen(c *fiber.Ctx) error {
	return h.technicianAction(c, func(ctx context.Context, s *dashboard.Session, id string, req dto.TechnicianActionRequest) (domain.Ticket, error) {
		return s.Reopen(ctx, id, req.ReopenInput())
	})
}

func (h *DashboardHandler) technicianAction(c *fiber.Ctx, run func(context.Context, *dashboard.Session, string, dto.TechnicianActionRequest) (domain.Ticket, error)) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req dto.TechnicianActionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := run(c.UserContext(), session, c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Escalate POST /dashboard/tickets/:id/escalate.
func (h *DashboardHandler) Escalate(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	ticket, err := session.Escalate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Close POST /dashboard/tickets/:id/close.
func (h *DashboardHandler) Close(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	ticket, err := session.Close(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Validate POST /dashboard/tickets/:id/validate.
func (h *DashboardHandler) Validate(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req dto.ValidateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Validated == nil {
		return apperrors.NewValidationError("validated required", nil)
	}
	ticket, err := session.Validate(c.UserContext(), c.Params("id"), workflow.ValidateInput{
		Validated:       *req.Validated,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Feedback POST /dashboard/tickets/:id/feedback.
func (h *DashboardHandler) Feedback(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := session.Feedback(c.UserContext(), c.Params("id"), workflow.FeedbackInput{Score: req.Score, Comment: req.Comment})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// TakeCharge POST /dashboard/tickets/:id/take-charge.
func (h *DashboardHandler) TakeCharge(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	ticket, err := session.TakeCharge(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Resolve POST /dashboard/tickets/:id/resolve.
func (h *DashboardHandler) Resolve(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req dto.ResolveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := session.Resolve(c.UserContext(), c.Params("id"), workflow.ResolveInput{ResolutionSummary: req.ResolutionSummary})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Comments GET /dashboard/tickets/:id/comments.
func (h *DashboardHandler) Comments(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	comments, err := session.Comments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": comments})
}

// AddComment POST /dashboard/tickets/:id/comments.
func (h *DashboardHandler) AddComment(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := session.AddComment(c.UserContext(), c.Params("id"), workflow.CommentInput{Content: req.Content, Type: req.Type})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": comment})
}

// Summary GET /dashboard/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": session.Summary()})
}

// Metrics GET /dashboard/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	from, err := parseTime(c.Query("from"))
	if err != nil {
		return err
	}
	to, err := parseTime(c.Query("to"))
	if err != nil {
		return err
	}
	report, err := session.ReportBetween(from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// ExportMetrics GET /dashboard/metrics/export streams the live report as a workbook.
func (h *DashboardHandler) ExportMetrics(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	reportType := domain.ReportType(c.Query("type", string(domain.ReportTypeOverview)))
	if !reportType.Valid() {
		return apperrors.NewValidationError("unknown report type", map[string]any{"type": reportType})
	}
	report, err := session.Report()
	if err != nil {
		return err
	}
	name := c.Query("name", "Dashboard")
	return sendWorkbook(c, name, reportType, report, export.FileName(name, report.GeneratedAt))
}

// Refresh POST /dashboard/refresh.
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	if err := session.Refresh(c.UserContext()); err != nil {
		return err
	}
	snap := session.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tickets":      len(snap.Tickets),
		"technicians":  len(snap.Technicians),
		"unread_count": snap.UnreadCount,
		"fetched_at":   snap.FetchedAt,
	}})
}

// GetState GET /dashboard/state.
func (h *DashboardHandler) GetState(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": session.UIState()})
}

// UpdateState PUT /dashboard/state applies one UI transition.
func (h *DashboardHandler) UpdateState(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	var transition domain.Transition
	if err := c.BodyParser(&transition); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	state, err := session.ApplyUI(c.UserContext(), transition)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": state})
}

// Notifications GET /dashboard/notifications.
func (h *DashboardHandler) Notifications(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	items, unread := session.Notifications()
	if items == nil {
		items = []domain.Notification{}
	}
	return c.JSON(fiber.Map{"data": dto.NotificationsResponse{Items: items, UnreadCount: unread}})
}

// MarkNotificationRead POST /dashboard/notifications/:id/read.
func (h *DashboardHandler) MarkNotificationRead(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	if err := session.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllNotificationsRead POST /dashboard/notifications/read-all.
func (h *DashboardHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	marked := session.MarkAllRead(c.UserContext())
	return c.JSON(fiber.Map{"data": fiber.Map{"marked": marked}})
}
