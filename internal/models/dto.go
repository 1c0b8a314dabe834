package models

import (
	"time"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AnalysisData is the caller-facing view of a completed analysis. The
// plagiarism score is rendered as a percentage string.
type AnalysisData struct {
	Topic                   string    `json:"topic"`
	AcademicLevel           string    `json:"academic_level"`
	PlagiarismScore         string    `json:"plagiarism_score"`
	ResearchSuggestions     string    `json:"research_suggestions"`
	CitationRecommendations string    `json:"citation_recommendations"`
	ConfidenceScore         float64   `json:"confidence_score"`
	AnalyzedAt              time.Time `json:"analyzed_at"`
}

type UploadResponse struct {
	JobID   string        `json:"job_id"`
	Status  string        `json:"status"`
	Results *AnalysisData `json:"results,omitempty"`
}

type AnalysisResponse struct {
	JobID  string        `json:"job_id"`
	Status string        `json:"status"`
	Data   *AnalysisData `json:"data,omitempty"`
}

// SourceRecord is one entry of a bulk ingestion request.
type SourceRecord struct {
	Title           string `json:"title"`
	Authors         string `json:"authors,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	FullText        string `json:"full_text"`
	SourceType      string `json:"source_type,omitempty"`
}

type IngestResponse struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

type SourceSearchResult struct {
	Title   string `json:"title"`
	Authors string `json:"author"`
	Year    int    `json:"year"`
}

type StatsSnapshot struct {
	TotalProcessedAssignments int    `json:"total_processed_assignments"`
	SystemAveragePlagiarism   string `json:"system_average_plagiarism"`
	RAGKnowledgeBaseSize      int    `json:"rag_knowledge_base_size"`
}
