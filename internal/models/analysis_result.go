package models

import (
	"encoding/json"
	"time"
)

// AnalysisResult is written by the external analysis workflow, one row per
// assignment. The intake service only reads these rows and persists the ones
// delivered over the results queue.
type AnalysisResult struct {
	ID                      int64           `json:"id" db:"id"`
	AssignmentID            int64           `json:"assignment_id" db:"assignment_id"`
	Topic                   string          `json:"topic" db:"topic"`
	AcademicLevel           string          `json:"academic_level" db:"academic_level"`
	PlagiarismScore         float64         `json:"plagiarism_score" db:"plagiarism_score"`
	FlaggedSections         json.RawMessage `json:"flagged_sections" db:"flagged_sections"`
	ResearchSuggestions     string          `json:"research_suggestions" db:"research_suggestions"`
	CitationRecommendations string          `json:"citation_recommendations" db:"citation_recommendations"`
	ConfidenceScore         float64         `json:"confidence_score" db:"confidence_score"`
	AnalyzedAt              time.Time       `json:"analyzed_at" db:"analyzed_at"`
}
