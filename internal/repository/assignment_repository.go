package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)
	Count(ctx context.Context) (int, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (student_id, filename, original_text, file_hash, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		assignment.StudentID,
		assignment.Filename,
		assignment.OriginalText,
		assignment.FileHash,
		assignment.UploadedAt,
	).Scan(&assignment.ID)
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := `
		SELECT id, student_id, filename, original_text, file_hash, uploaded_at
		FROM assignments
		WHERE id = $1
	`

	assignment := &models.Assignment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.StudentID,
		&assignment.Filename,
		&assignment.OriginalText,
		&assignment.FileHash,
		&assignment.UploadedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return assignment, err
}

func (r *assignmentRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM assignments`
	var total int
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}
