package models

import (
	"time"
)

// Assignment is the persisted job record for one accepted upload. It is
// created exactly once per upload and never mutated; the analysis result is
// attached later as a separate row.
type Assignment struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"student_id" db:"student_id"`
	Filename     string    `json:"filename" db:"filename"`
	OriginalText string    `json:"original_text" db:"original_text"`
	FileHash     string    `json:"file_hash" db:"file_hash"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
}
