package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// ReportFilter narrows the archive listing.
type ReportFilter struct {
	CreatorID     *string
	ReportType    *domain.ReportType
	GeneratedFrom *time.Time
	GeneratedTo   *time.Time
	Limit         int
	Offset        int
}

// ReportRepository encapsulates the report archive.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.ArchivedReport) error
	GetByID(ctx context.Context, id string) (*domain.ArchivedReport, error)
	List(ctx context.Context, filter ReportFilter) ([]domain.ArchivedReport, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, title, report_type, creator_id, data, generated_at, period_start, period_end`

func (r *reportRepository) Create(ctx context.Context, report *domain.ArchivedReport) error {
	const query = `
        INSERT INTO reports (id, title, report_type, creator_id, data, period_start, period_end)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING generated_at`
	return r.pool.QueryRow(ctx, query,
		report.ID,
		report.Title,
		report.ReportType,
		report.CreatorID,
		report.Data,
		report.PeriodStart,
		report.PeriodEnd,
	).Scan(&report.GeneratedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.ArchivedReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]domain.ArchivedReport, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if filter.ReportType != nil {
		args = append(args, *filter.ReportType)
		clauses = append(clauses, fmt.Sprintf("report_type=$%d", len(args)))
	}
	if filter.GeneratedFrom != nil {
		args = append(args, *filter.GeneratedFrom)
		clauses = append(clauses, fmt.Sprintf("generated_at >= $%d", len(args)))
	}
	if filter.GeneratedTo != nil {
		args = append(args, *filter.GeneratedTo)
		clauses = append(clauses, fmt.Sprintf("generated_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE %s ORDER BY generated_at DESC LIMIT $%d OFFSET $%d`,
		reportColumns, strings.Join(clauses, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ArchivedReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}

func scanReport(row pgx.Row) (domain.ArchivedReport, error) {
	var report domain.ArchivedReport
	err := row.Scan(
		&report.ID,
		&report.Title,
		&report.ReportType,
		&report.CreatorID,
		&report.Data,
		&report.GeneratedAt,
		&report.PeriodStart,
		&report.PeriodEnd,
	)
	return report, err
}
