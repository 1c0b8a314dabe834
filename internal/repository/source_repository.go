package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/pkg/vector"
)

type SourceRepository interface {
	Insert(ctx context.Context, source *models.AcademicSource) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	// NearestNeighbors returns up to k sources ordered by ascending L2
	// distance to the query vector; equal distances break ties by insertion
	// order.
	NearestNeighbors(ctx context.Context, queryVector []float32, k int) ([]models.AcademicSource, error)
	Count(ctx context.Context) (int, error)
}

type sourceRepository struct {
	*PostgresRepository
}

func NewSourceRepository(db *sql.DB, logger zerolog.Logger) SourceRepository {
	return &sourceRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *sourceRepository) Insert(ctx context.Context, source *models.AcademicSource) error {
	query := `
		INSERT INTO academic_sources (title, authors, publication_year, full_text, source_type, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		source.Title,
		source.Authors,
		source.PublicationYear,
		source.FullText,
		source.SourceType,
		vector.Encode(source.Embedding),
	).Scan(&source.ID)
}

func (r *sourceRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM academic_sources WHERE title = $1)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, title).Scan(&exists)
	return exists, err
}

func (r *sourceRepository) NearestNeighbors(ctx context.Context, queryVector []float32, k int) ([]models.AcademicSource, error) {
	query := `
		SELECT id, title, authors, publication_year, full_text, source_type
		FROM academic_sources
		WHERE embedding IS NOT NULL
		ORDER BY embedding <-> $1::vector, id
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, vector.Encode(queryVector), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []models.AcademicSource
	for rows.Next() {
		var source models.AcademicSource
		err := rows.Scan(
			&source.ID,
			&source.Title,
			&source.Authors,
			&source.PublicationYear,
			&source.FullText,
			&source.SourceType,
		)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

func (r *sourceRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM academic_sources`
	var total int
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}
