package models

import (
	"encoding/json"
)

// AnalysisCompletedEvent is published by the external analysis workflow when
// it finishes scoring an assignment.
type AnalysisCompletedEvent struct {
	AssignmentID            int64           `json:"assignment_id"`
	Topic                   string          `json:"topic"`
	AcademicLevel           string          `json:"academic_level"`
	PlagiarismScore         float64         `json:"plagiarism_score"`
	FlaggedSections         json.RawMessage `json:"flagged_sections,omitempty"`
	ResearchSuggestions     string          `json:"research_suggestions"`
	CitationRecommendations string          `json:"citation_recommendations"`
	ConfidenceScore         float64         `json:"confidence_score"`
	Timestamp               int64           `json:"timestamp"`
}
