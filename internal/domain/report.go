package domain

import (
	"encoding/json"
	"time"
)

// ReportType names the archived report flavours.
type ReportType string

const (
	ReportTypeOverview    ReportType = "overview"
	ReportTypeAgencies    ReportType = "agencies"
	ReportTypeTechnicians ReportType = "technicians"
	ReportTypeProblems    ReportType = "problems"
)

// Valid reports whether t is a known report type.
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeOverview, ReportTypeAgencies, ReportTypeTechnicians, ReportTypeProblems:
		return true
	}
	return false
}

// ArchivedReport is a persisted report snapshot. Data holds the serialized report figures.
type ArchivedReport struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	ReportType  ReportType      `json:"report_type"`
	CreatorID   string          `json:"creator_id"`
	Data        json.RawMessage `json:"data"`
	GeneratedAt time.Time       `json:"generated_at"`
	PeriodStart *time.Time      `json:"period_start,omitempty"`
	PeriodEnd   *time.Time      `json:"period_end,omitempty"`
}
