package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/studcheck/plagiarism-checker/internal/storage/models"
)

type WorkRepository interface {
	Create(ctx context.Context, work *models.Work) error
	GetByID(ctx context.Context, id string) (*models.Work, error)
	Ping(ctx context.Context) error
}

type workRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewWorkRepository(db *sql.DB, logger zerolog.Logger) WorkRepository {
	return &workRepository{
		db:     db,
		logger: logger,
	}
}

func (r *workRepository) Create(ctx context.Context, work *models.Work) error {
	query := `
		INSERT INTO works (id, submitter_name, assignment_name, storage_path, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		work.ID,
		work.SubmitterName,
		work.AssignmentName,
		work.StoragePath,
		work.CreatedAt,
	)

	return err
}

func (r *workRepository) GetByID(ctx context.Context, id string) (*models.Work, error) {
	query := `
		SELECT id, submitter_name, assignment_name, storage_path, created_at
		FROM works
		WHERE id = $1
	`

	work := &models.Work{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&work.ID,
		&work.SubmitterName,
		&work.AssignmentName,
		&work.StoragePath,
		&work.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return work, nil
}

func (r *workRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
