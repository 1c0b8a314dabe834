package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
)

type AnalysisResultRepository interface {
	// Create inserts the result row for an assignment. A second insert for
	// the same assignment id is silently skipped; inserted reports whether a
	// row was actually written.
	Create(ctx context.Context, result *models.AnalysisResult) (inserted bool, err error)
	GetByAssignmentID(ctx context.Context, assignmentID int64) (*models.AnalysisResult, error)
	AverageScore(ctx context.Context) (float64, error)
}

type analysisResultRepository struct {
	*PostgresRepository
}

func NewAnalysisResultRepository(db *sql.DB, logger zerolog.Logger) AnalysisResultRepository {
	return &analysisResultRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *analysisResultRepository) Create(ctx context.Context, result *models.AnalysisResult) (bool, error) {
	query := `
		INSERT INTO analysis_results (
			assignment_id, topic, academic_level, plagiarism_score,
			flagged_sections, research_suggestions, citation_recommendations,
			confidence_score, analyzed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (assignment_id) DO NOTHING
		RETURNING id
	`

	var flagged interface{}
	if len(result.FlaggedSections) > 0 {
		flagged = []byte(result.FlaggedSections)
	}

	err := r.db.QueryRowContext(ctx, query,
		result.AssignmentID,
		result.Topic,
		result.AcademicLevel,
		result.PlagiarismScore,
		flagged,
		result.ResearchSuggestions,
		result.CitationRecommendations,
		result.ConfidenceScore,
		result.AnalyzedAt,
	).Scan(&result.ID)

	if err == sql.ErrNoRows {
		// Conflict on assignment_id: a result already exists for this job.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *analysisResultRepository) GetByAssignmentID(ctx context.Context, assignmentID int64) (*models.AnalysisResult, error) {
	query := `
		SELECT
			id, assignment_id, topic, academic_level, plagiarism_score,
			flagged_sections, research_suggestions, citation_recommendations,
			confidence_score, analyzed_at
		FROM analysis_results
		WHERE assignment_id = $1
	`

	result := &models.AnalysisResult{}
	var flagged sql.NullString

	err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(
		&result.ID,
		&result.AssignmentID,
		&result.Topic,
		&result.AcademicLevel,
		&result.PlagiarismScore,
		&flagged,
		&result.ResearchSuggestions,
		&result.CitationRecommendations,
		&result.ConfidenceScore,
		&result.AnalyzedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if flagged.Valid {
		result.FlaggedSections = []byte(flagged.String)
	}

	return result, nil
}

func (r *analysisResultRepository) AverageScore(ctx context.Context) (float64, error) {
	query := `SELECT COALESCE(AVG(plagiarism_score), 0) FROM analysis_results`
	var avg float64
	err := r.db.QueryRowContext(ctx, query).Scan(&avg)
	return avg, err
}
