package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/analysis/models"
)

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByWorkID(ctx context.Context, workID string) ([]models.Report, error)
	GetByFingerprint(ctx context.Context, fingerprint string) ([]models.Report, error)
	Ping(ctx context.Context) error
}

type reportRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewReportRepository(db *sql.DB, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		db:     db,
		logger: logger,
	}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, work_id, duplicate_flag, fingerprint, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.WorkID,
		report.DuplicateFlag,
		report.Fingerprint,
		report.Detail,
		report.CreatedAt,
	)

	return err
}

func (r *reportRepository) GetByWorkID(ctx context.Context, workID string) ([]models.Report, error) {
	query := `
		SELECT id, work_id, duplicate_flag, fingerprint, detail, created_at
		FROM reports
		WHERE work_id = $1
		ORDER BY created_at
	`

	return r.queryReports(ctx, query, workID)
}

func (r *reportRepository) GetByFingerprint(ctx context.Context, fingerprint string) ([]models.Report, error) {
	query := `
		SELECT id, work_id, duplicate_flag, fingerprint, detail, created_at
		FROM reports
		WHERE fingerprint = $1
		ORDER BY created_at
	`

	return r.queryReports(ctx, query, fingerprint)
}

func (r *reportRepository) queryReports(ctx context.Context, query string, arg interface{}) ([]models.Report, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var report models.Report
		var detail sql.NullString

		if err := rows.Scan(
			&report.ID,
			&report.WorkID,
			&report.DuplicateFlag,
			&report.Fingerprint,
			&detail,
			&report.CreatedAt,
		); err != nil {
			return nil, err
		}

		if detail.Valid {
			report.Detail = &detail.String
		}

		reports = append(reports, report)
	}

	return reports, rows.Err()
}

func (r *reportRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
