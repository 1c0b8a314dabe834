package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/models"
	"github.com/andinetd/assignment-helper/internal/repository"
	"github.com/andinetd/assignment-helper/internal/service/integration"
	"github.com/andinetd/assignment-helper/pkg/hash"
)

var ErrStudentNotFound = errors.New("student not found")

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"

	// CachedJobID marks a response served from the dedup cache instead of a
	// freshly persisted job.
	CachedJobID = "cached"

	resultCachePrefix = "analysis:"
)

// ContextProvider builds the retrieval context string for an upload. It never
// fails; degraded retrieval yields a sentinel string.
type ContextProvider interface {
	BuildContext(ctx context.Context, uploadedText string) string
}

type UploadService interface {
	Upload(ctx context.Context, studentEmail, filename string, fileBytes []byte) (*models.UploadResponse, error)
}

type UploadConfig struct {
	PreviewChars  int
	HashAlgorithm string
	ResultTTL     time.Duration
}

type uploadService struct {
	studentRepo    repository.StudentRepository
	assignmentRepo repository.AssignmentRepository
	cache          repository.Cache
	storage        repository.StorageRepository
	contextBuilder ContextProvider
	workflow       integration.WorkflowClient
	fingerprinter  *hash.Fingerprinter
	config         UploadConfig
	logger         zerolog.Logger
}

func NewUploadService(
	studentRepo repository.StudentRepository,
	assignmentRepo repository.AssignmentRepository,
	cache repository.Cache,
	storage repository.StorageRepository,
	contextBuilder ContextProvider,
	workflow integration.WorkflowClient,
	config UploadConfig,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		studentRepo:    studentRepo,
		assignmentRepo: assignmentRepo,
		cache:          cache,
		storage:        storage,
		contextBuilder: contextBuilder,
		workflow:       workflow,
		fingerprinter:  hash.NewFingerprinter(hash.Algorithm(config.HashAlgorithm)),
		config:         config,
		logger:         logger,
	}
}

// Upload runs the intake pipeline: fingerprint, dedup-cache check, context
// retrieval, job persistence, then best-effort storage and dispatch. The job
// row is durable before dispatch is attempted, and the response is success
// regardless of dispatch outcome.
func (s *uploadService) Upload(ctx context.Context, studentEmail, filename string, fileBytes []byte) (*models.UploadResponse, error) {
	fingerprint, err := s.fingerprinter.Sum(fileBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint upload: %w", err)
	}

	if cached, ok := s.cache.Get(ctx, resultCachePrefix+fingerprint); ok {
		var results models.AnalysisData
		if err := json.Unmarshal(cached, &results); err == nil {
			s.logger.Info().
				Str("file_hash", fingerprint).
				Str("filename", filename).
				Msg("Upload served from dedup cache")

			return &models.UploadResponse{
				JobID:   CachedJobID,
				Status:  StatusCompleted,
				Results: &results,
			}, nil
		}
		s.logger.Warn().Str("file_hash", fingerprint).Msg("Discarding undecodable cache entry")
	}

	student, err := s.studentRepo.GetByEmail(ctx, studentEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	decodedText := string(fileBytes)
	ragContext := s.contextBuilder.BuildContext(ctx, decodedText)

	preview := sanitizePreview(decodedText, s.config.PreviewChars)

	assignment := &models.Assignment{
		StudentID:    student.ID,
		Filename:     filename,
		OriginalText: preview,
		FileHash:     fingerprint,
		UploadedAt:   time.Now(),
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to persist assignment: %w", err)
	}

	if s.storage != nil {
		objectName := fmt.Sprintf("%d_%s", assignment.ID, filename)
		if err := s.storage.Upload(ctx, objectName, fileBytes, "application/octet-stream"); err != nil {
			s.logger.Error().Err(err).
				Int64("assignment_id", assignment.ID).
				Msg("Failed to store raw document, continuing")
		}
	}

	dispatchReq := &integration.DispatchRequest{
		AssignmentID: assignment.ID,
		FileHash:     fingerprint,
		StudentEmail: student.Email,
		RAGContext:   ragContext,
		Filename:     filename,
		File:         fileBytes,
	}
	if err := s.workflow.Dispatch(ctx, dispatchReq); err != nil {
		s.logger.Warn().Err(err).
			Int64("assignment_id", assignment.ID).
			Msg("Workflow dispatch failed, job remains queued for pickup")
	}

	s.logger.Info().
		Int64("assignment_id", assignment.ID).
		Int64("student_id", student.ID).
		Str("file_hash", fingerprint).
		Msg("Assignment accepted")

	return &models.UploadResponse{
		JobID:  fmt.Sprintf("%d", assignment.ID),
		Status: StatusProcessing,
	}, nil
}

// sanitizePreview makes the stored excerpt safe for a TEXT column. Uploads
// are often binary (PDFs and the like): invalid UTF-8 sequences and NUL
// bytes are dropped, and truncation lands on a rune boundary.
func sanitizePreview(text string, limit int) string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\x00", "")

	if len(text) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
