package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-dashboard/internal/api/dto"
	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/events"
	"github.com/spec-kit/helpdesk-dashboard/internal/export"
	"github.com/spec-kit/helpdesk-dashboard/internal/metrics"
	"github.com/spec-kit/helpdesk-dashboard/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util"
)

// ReportsHandler archives report figures and exports them as workbooks.
type ReportsHandler struct {
	reports    repository.ReportRepository
	dispatcher events.Dispatcher
}

// NewReportsHandler constructs handler. A nil repository disables the archive.
func NewReportsHandler(reports repository.ReportRepository, dispatcher events.Dispatcher) *ReportsHandler {
	return &ReportsHandler{reports: reports, dispatcher: dispatcher}
}

func (h *ReportsHandler) archive() (repository.ReportRepository, error) {
	if h.reports == nil {
		return nil, apperrors.NewUnavailable("report archive disabled")
	}
	return h.reports, nil
}

// Create POST /reports computes the current figures and stores them.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	reports, err := h.archive()
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Session == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.ReportType == "" {
		req.ReportType = domain.ReportTypeOverview
	}
	if req.Title == "" || !req.ReportType.Valid() {
		return apperrors.NewValidationError("title and a known report_type required", map[string]any{"report_type": req.ReportType})
	}
	if req.PeriodStart != nil && req.PeriodEnd != nil && req.PeriodEnd.Before(*req.PeriodStart) {
		return apperrors.NewValidationError("period_end precedes period_start", nil)
	}

	figures, err := principal.Session.ReportBetween(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return err
	}
	data, err := json.Marshal(figures)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	report := &domain.ArchivedReport{
		ID:          uuid.NewString(),
		Title:       req.Title,
		ReportType:  req.ReportType,
		CreatorID:   principal.Viewer.ID,
		Data:        data,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	}
	if err := reports.Create(c.UserContext(), report); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("archive report: %w", err))
	}

	if h.dispatcher != nil {
		actor := events.Actor{SessionKey: principal.Session.Key(), UserID: principal.Viewer.ID, Role: principal.Viewer.RoleName()}
		_ = h.dispatcher.Publish(c.UserContext(), events.New(events.EventReportArchived, actor, "", events.ReportArchivedPayload{
			ReportID:   report.ID,
			ReportType: report.ReportType,
			Title:      report.Title,
		}))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": report})
}

// List GET /reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.archive()
	if err != nil {
		return err
	}
	query, err := parseReportQuery(c)
	if err != nil {
		return err
	}
	filter := repository.ReportFilter{
		ReportType:    query.ReportType,
		GeneratedFrom: query.GeneratedFrom,
		GeneratedTo:   query.GeneratedTo,
		Limit:         query.PageSize,
		Offset:        (query.Page - 1) * query.PageSize,
	}
	if creator := c.Query("creator_id"); creator != "" {
		filter.CreatorID = &creator
	}
	items, err := reports.List(c.UserContext(), filter)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	summaries := make([]dto.ReportSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, dto.NewReportSummary(item))
	}
	return c.JSON(fiber.Map{"data": summaries, "meta": fiber.Map{"page": query.Page, "page_size": query.PageSize}})
}

// Get GET /reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	report, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// Export GET /reports/:id/export streams the archived figures as a workbook.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	report, err := h.load(c)
	if err != nil {
		return err
	}
	var figures metrics.Report
	if err := json.Unmarshal(report.Data, &figures); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("decode report %s: %w", report.ID, err))
	}
	return sendWorkbook(c, report.Title, report.ReportType, figures, export.FileName(report.Title, report.GeneratedAt))
}

func (h *ReportsHandler) load(c *fiber.Ctx) (*domain.ArchivedReport, error) {
	reports, err := h.archive()
	if err != nil {
		return nil, err
	}
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("report", map[string]any{"report_id": id})
	}
	report, err := reports.GetByID(c.UserContext(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("report", map[string]any{"report_id": id})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return report, nil
}

func parseReportQuery(c *fiber.Ctx) (dto.ReportListQuery, error) {
	query := dto.ReportListQuery{
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 20),
	}
	if raw := c.Query("report_type"); raw != "" {
		reportType := domain.ReportType(raw)
		if !reportType.Valid() {
			return query, apperrors.NewValidationError("unknown report type", map[string]any{"report_type": raw})
		}
		query.ReportType = &reportType
	}
	var err error
	if query.GeneratedFrom, err = parseTime(c.Query("generated_from")); err != nil {
		return query, err
	}
	if query.GeneratedTo, err = parseTime(c.Query("generated_to")); err != nil {
		return query, err
	}
	return query, nil
}

func sendWorkbook(c *fiber.Ctx, title string, reportType domain.ReportType, report metrics.Report, fileName string) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, title, reportType, report); err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Send(buf.Bytes())
}
