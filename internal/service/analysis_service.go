package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/internal/repository"
)

type AnalysisService interface {
	// GetAnalysis is a point-in-time lookup; a job with no result yet is
	// reported as processing, never as an error.
	GetAnalysis(ctx context.Context, jobID int64) (*models.AnalysisResponse, error)
	// SaveResult persists a result delivered by the external workflow and
	// seeds the dedup cache for the assignment's fingerprint. Duplicate
	// deliveries are acknowledged without effect.
	SaveResult(ctx context.Context, event *models.AnalysisCompletedEvent) error
}

type AnalysisConfig struct {
	ResultTTL time.Duration
}

type analysisService struct {
	resultRepo     repository.AnalysisResultRepository
	assignmentRepo repository.AssignmentRepository
	cache          repository.Cache
	config         AnalysisConfig
	logger         zerolog.Logger
}

func NewAnalysisService(
	resultRepo repository.AnalysisResultRepository,
	assignmentRepo repository.AssignmentRepository,
	cache repository.Cache,
	config AnalysisConfig,
	logger zerolog.Logger,
) AnalysisService {
	return &analysisService{
		resultRepo:     resultRepo,
		assignmentRepo: assignmentRepo,
		cache:          cache,
		config:         config,
		logger:         logger,
	}
}

func (s *analysisService) GetAnalysis(ctx context.Context, jobID int64) (*models.AnalysisResponse, error) {
	result, err := s.resultRepo.GetByAssignmentID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}

	if result == nil {
		return &models.AnalysisResponse{
			JobID:  strconv.FormatInt(jobID, 10),
			Status: StatusProcessing,
		}, nil
	}

	return &models.AnalysisResponse{
		JobID:  strconv.FormatInt(jobID, 10),
		Status: StatusCompleted,
		Data:   toAnalysisData(result),
	}, nil
}

func (s *analysisService) SaveResult(ctx context.Context, event *models.AnalysisCompletedEvent) error {
	result := &models.AnalysisResult{
		AssignmentID:            event.AssignmentID,
		Topic:                   event.Topic,
		AcademicLevel:           event.AcademicLevel,
		PlagiarismScore:         event.PlagiarismScore,
		FlaggedSections:         event.FlaggedSections,
		ResearchSuggestions:     event.ResearchSuggestions,
		CitationRecommendations: event.CitationRecommendations,
		ConfidenceScore:         event.ConfidenceScore,
		AnalyzedAt:              time.Now(),
	}

	inserted, err := s.resultRepo.Create(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to persist analysis result: %w", err)
	}
	if !inserted {
		s.logger.Info().
			Int64("assignment_id", event.AssignmentID).
			Msg("Duplicate analysis result delivery ignored")
		return nil
	}

	s.seedDedupCache(ctx, result)

	s.logger.Info().
		Int64("assignment_id", event.AssignmentID).
		Float64("plagiarism_score", event.PlagiarismScore).
		Msg("Analysis result persisted")

	return nil
}

// seedDedupCache maps the assignment's content fingerprint to the completed
// result so byte-identical re-uploads short-circuit the pipeline.
func (s *analysisService) seedDedupCache(ctx context.Context, result *models.AnalysisResult) {
	assignment, err := s.assignmentRepo.GetByID(ctx, result.AssignmentID)
	if err != nil || assignment == nil {
		s.logger.Warn().Err(err).
			Int64("assignment_id", result.AssignmentID).
			Msg("Could not resolve assignment for cache seeding")
		return
	}

	payload, err := json.Marshal(toAnalysisData(result))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode cached result")
		return
	}

	s.cache.Set(ctx, resultCachePrefix+assignment.FileHash, payload, s.config.ResultTTL)
}

func toAnalysisData(result *models.AnalysisResult) *models.AnalysisData {
	return &models.AnalysisData{
		Topic:                   result.Topic,
		AcademicLevel:           result.AcademicLevel,
		PlagiarismScore:         fmt.Sprintf("%.2f%%", result.PlagiarismScore),
		ResearchSuggestions:     result.ResearchSuggestions,
		CitationRecommendations: result.CitationRecommendations,
		ConfidenceScore:         result.ConfidenceScore,
		AnalyzedAt:              result.AnalyzedAt,
	}
}
