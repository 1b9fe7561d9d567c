// Package export renders report figures as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	"github.com/spec-kit/helpdesk-dashboard/internal/metrics"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(`\`, "", "/", "", "?", "", "*", "", "[", "", "]", "", ":", "")

// SanitizeSheetName drops the characters spreadsheet tabs cannot hold and truncates the name to
// 31 characters.
func SanitizeSheetName(name string) string {
	name = strings.TrimSpace(sheetNameReplacer.Replace(name))
	if utf8.RuneCountInString(name) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	if name == "" {
		return "Feuille"
	}
	return name
}

// FileName builds Rapport_<Name>_<YYYY-MM-DD>.xlsx.
func FileName(name string, date time.Time) string {
	clean := strings.Join(strings.Fields(sheetNameReplacer.Replace(name)), "_")
	if clean == "" {
		clean = "Dashboard"
	}
	return fmt.Sprintf("Rapport_%s_%s.xlsx", clean, date.Format("2006-01-02"))
}

type sheet struct {
	name   string
	header []any
	rows   [][]any
	widths map[string]float64
}

// Workbook lays out report as one sheet per section. The report type decides which sections
// are included; an overview carries all of them.
func Workbook(title string, reportType domain.ReportType, report metrics.Report) (*excelize.File, error) {
	var sheets []sheet
	switch reportType {
	case domain.ReportTypeAgencies:
		sheets = []sheet{groupSheet("Agences", "Agence", report.Agencies)}
	case domain.ReportTypeTechnicians:
		sheets = []sheet{groupSheet("Techniciens", "Technicien", report.Technicians)}
	case domain.ReportTypeProblems:
		sheets = []sheet{
			problemSheet("Problèmes fréquents", report.FrequentProblems),
			problemSheet("Historique des problèmes", report.ProblemHistory),
		}
	default:
		sheets = []sheet{
			overviewSheet(title, report),
			breakdownSheet("Statuts", report.StatusBreakdown),
			breakdownSheet("Priorités", report.PriorityBreakdown),
			groupSheet("Agences", "Agence", report.Agencies),
			groupSheet("Techniciens", "Technicien", report.Technicians),
			weekdaySheet(report.Weekdays),
			problemSheet("Problèmes fréquents", report.FrequentProblems),
			problemSheet("Historique des problèmes", report.ProblemHistory),
		}
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		name := SanitizeSheetName(sh.name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, sh, bold); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Write streams the workbook of report to w.
func Write(w io.Writer, title string, reportType domain.ReportType, report metrics.Report) error {
	f, err := Workbook(title, reportType, report)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeSheet(f *excelize.File, name string, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(name, "A1", &sh.header); err != nil {
		return fmt.Errorf("write header of %s: %w", name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header of %s: %w", name, err)
	}
	for i := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &sh.rows[i]); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+2, name, err)
		}
	}
	for col, width := range sh.widths {
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func overviewSheet(title string, r metrics.Report) sheet {
	return sheet{
		name:   "Vue d'ensemble",
		header: []any{"Indicateur", "Valeur"},
		rows: [][]any{
			{"Rapport", title},
			{"Généré le", r.GeneratedAt.Format("02/01/2006 15:04")},
			{"Tickets", r.TotalTickets},
			{"Temps moyen de résolution (jours)", r.AverageResolutionDays},
			{"Satisfaction (%)", r.Satisfaction},
			{"Taux de réouverture (%)", r.ReopenRate},
			{"Cette semaine", r.Trends.ThisWeek},
			{"Ce mois", r.Trends.ThisMonth},
			{"Mois précédent", r.Trends.LastMonth},
			{"Évolution (%)", r.Trends.Change},
			{"Jour le plus chargé", r.BusiestDay},
		},
		widths: map[string]float64{"A": 36, "B": 28},
	}
}

func breakdownSheet(name string, items []metrics.Breakdown) sheet {
	rows := make([][]any, 0, len(items))
	for _, b := range items {
		rows = append(rows, []any{b.Label, b.Count, b.Percentage})
	}
	return sheet{name: name, header: []any{"Libellé", "Nombre", "Pourcentage"}, rows: rows, widths: map[string]float64{"A": 28}}
}

func groupSheet(name, keyHeader string, groups []metrics.GroupStats) sheet {
	rows := make([][]any, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []any{g.Name, g.Volume, g.Resolved, g.Rejected, g.AverageResolution, g.Satisfaction})
	}
	return sheet{
		name:   name,
		header: []any{keyHeader, "Volume", "Résolus", "Rejetés", "Temps moyen", "Satisfaction (%)"},
		rows:   rows,
		widths: map[string]float64{"A": 28, "E": 14, "F": 16},
	}
}

func weekdaySheet(days []metrics.WeekdayCount) sheet {
	rows := make([][]any, 0, len(days))
	for _, d := range days {
		rows = append(rows, []any{d.Day, d.Count})
	}
	return sheet{name: "Jours", header: []any{"Jour", "Tickets"}, rows: rows}
}

func problemSheet(name string, groups []metrics.ProblemGroup) sheet {
	rows := make([][]any, 0, len(groups))
	for _, g := range groups {
		last := ""
		if g.LastOccurrence != nil {
			last = g.LastOccurrence.Format("02/01/2006")
		}
		rows = append(rows, []any{g.Title, g.Occurrences, last})
	}
	return sheet{
		name:   name,
		header: []any{"Problème", "Occurrences", "Dernière occurrence"},
		rows:   rows,
		widths: map[string]float64{"A": 50, "C": 20},
	}
}
