package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/internal/repository"
)

const statsCacheKey = "stats:overview"

type StatsService interface {
	GetStats(ctx context.Context) (*models.StatsSnapshot, error)
}

type StatsConfig struct {
	CacheTTL time.Duration
}

type statsService struct {
	assignmentRepo repository.AssignmentRepository
	resultRepo     repository.AnalysisResultRepository
	sourceRepo     repository.SourceRepository
	cache          repository.Cache
	config         StatsConfig
	logger         zerolog.Logger
}

func NewStatsService(
	assignmentRepo repository.AssignmentRepository,
	resultRepo repository.AnalysisResultRepository,
	sourceRepo repository.SourceRepository,
	cache repository.Cache,
	config StatsConfig,
	logger zerolog.Logger,
) StatsService {
	return &statsService{
		assignmentRepo: assignmentRepo,
		resultRepo:     resultRepo,
		sourceRepo:     sourceRepo,
		cache:          cache,
		config:         config,
		logger:         logger,
	}
}

// GetStats returns the aggregate snapshot, served from cache while the TTL
// holds. The snapshot is a freshness-bounded view, not an authoritative read.
func (s *statsService) GetStats(ctx context.Context) (*models.StatsSnapshot, error) {
	if cached, ok := s.cache.Get(ctx, statsCacheKey); ok {
		var snapshot models.StatsSnapshot
		if err := json.Unmarshal(cached, &snapshot); err == nil {
			return &snapshot, nil
		}
		s.logger.Warn().Msg("Discarding undecodable stats cache entry")
	}

	totalAssignments, err := s.assignmentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}

	avgScore, err := s.resultRepo.AverageScore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average plagiarism score: %w", err)
	}

	totalSources, err := s.sourceRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}

	snapshot := &models.StatsSnapshot{
		TotalProcessedAssignments: totalAssignments,
		SystemAveragePlagiarism:   fmt.Sprintf("%.2f%%", avgScore),
		RAGKnowledgeBaseSize:      totalSources,
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		s.cache.Set(ctx, statsCacheKey, payload, s.config.CacheTTL)
	}

	return snapshot, nil
}
