package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/internal/repository"
	"github.com/andinetd/assignment-helper/internal/service/rag"
)

type SourceService interface {
	// Ingest bulk-loads reference sources, skipping titles that already
	// exist. Re-running the same batch is a no-op.
	Ingest(ctx context.Context, records []models.SourceRecord) (*models.IngestResponse, error)
	Search(ctx context.Context, query string, k int) ([]models.SourceSearchResult, error)
}

type sourceService struct {
	sourceRepo repository.SourceRepository
	embedder   rag.Embedder
	logger     zerolog.Logger
}

func NewSourceService(sourceRepo repository.SourceRepository, embedder rag.Embedder, logger zerolog.Logger) SourceService {
	return &sourceService{
		sourceRepo: sourceRepo,
		embedder:   embedder,
		logger:     logger,
	}
}

func (s *sourceService) Ingest(ctx context.Context, records []models.SourceRecord) (*models.IngestResponse, error) {
	for i, record := range records {
		if record.Title == "" || record.FullText == "" {
			return nil, fmt.Errorf("malformed ingestion record %d: title and full_text are required", i)
		}
	}

	response := &models.IngestResponse{}

	for _, record := range records {
		exists, err := s.sourceRepo.ExistsByTitle(ctx, record.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to check source title: %w", err)
		}
		if exists {
			response.Skipped++
			continue
		}

		source := &models.AcademicSource{
			Title:           record.Title,
			Authors:         record.Authors,
			PublicationYear: record.PublicationYear,
			FullText:        record.FullText,
			SourceType:      record.SourceType,
			// A failed embedding stores the zero vector: a known-degraded
			// entry beats a blocked ingestion.
			Embedding: s.embedder.Embed(ctx, record.FullText),
		}
		if source.Authors == "" {
			source.Authors = "Unknown"
		}
		if source.SourceType == "" {
			source.SourceType = "paper"
		}

		if err := s.sourceRepo.Insert(ctx, source); err != nil {
			return nil, fmt.Errorf("failed to insert source %q: %w", record.Title, err)
		}
		response.Inserted++
	}

	s.logger.Info().
		Int("inserted", response.Inserted).
		Int("skipped", response.Skipped).
		Msg("Source ingestion complete")

	return response, nil
}

func (s *sourceService) Search(ctx context.Context, query string, k int) ([]models.SourceSearchResult, error) {
	if k < 1 || k > 20 {
		k = 3
	}

	embedding := s.embedder.Embed(ctx, query)

	sources, err := s.sourceRepo.NearestNeighbors(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search sources: %w", err)
	}

	results := make([]models.SourceSearchResult, 0, len(sources))
	for _, source := range sources {
		results = append(results, models.SourceSearchResult{
			Title:   source.Title,
			Authors: source.Authors,
			Year:    source.PublicationYear,
		})
	}

	return results, nil
}
