package models

// AcademicSource is a reference document in the retrieval index. Immutable
// once ingested; re-ingestion by the same title is skipped.
type AcademicSource struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Authors         string    `json:"authors" db:"authors"`
	PublicationYear int       `json:"publication_year" db:"publication_year"`
	FullText        string    `json:"full_text" db:"full_text"`
	SourceType      string    `json:"source_type" db:"source_type"`
	Embedding       []float32 `json:"-" db:"embedding"`
}
