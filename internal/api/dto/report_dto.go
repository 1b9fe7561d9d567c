package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// CreateReportRequest archives the current report figures.
type CreateReportRequest struct {
	Title       string            `json:"title"`
	ReportType  domain.ReportType `json:"report_type"`
	PeriodStart *time.Time        `json:"period_start"`
	PeriodEnd   *time.Time        `json:"period_end"`
}

// ReportListQuery captures query filters of the archive listing.
type ReportListQuery struct {
	ReportType    *domain.ReportType
	GeneratedFrom *time.Time
	GeneratedTo   *time.Time
	Page          int
	PageSize      int
}

// ReportSummary is an archive entry without its figures.
type ReportSummary struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	ReportType  domain.ReportType `json:"report_type"`
	CreatorID   string            `json:"creator_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	PeriodStart *time.Time        `json:"period_start,omitempty"`
	PeriodEnd   *time.Time        `json:"period_end,omitempty"`
}

// NewReportSummary drops the figures of report.
func NewReportSummary(report domain.ArchivedReport) ReportSummary {
	return ReportSummary{
		ID:          report.ID,
		Title:       report.Title,
		ReportType:  report.ReportType,
		CreatorID:   report.CreatorID,
		GeneratedAt: report.GeneratedAt,
		PeriodStart: report.PeriodStart,
		PeriodEnd:   report.PeriodEnd,
	}
}
