package models

import (
	"time"
)

type Student struct {
	ID            int64     `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	FullName      string    `json:"full_name" db:"full_name"`
	StudentNumber string    `json:"student_number" db:"student_number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
