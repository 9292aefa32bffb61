package models

import "time"

// Work is one stored student submission. Created on successful upload,
// never mutated or deleted afterwards.
type Work struct {
	ID             string    `json:"id" db:"id"`
	SubmitterName  string    `json:"submitter_name" db:"submitter_name"`
	AssignmentName string    `json:"assignment_name" db:"assignment_name"`
	StoragePath    string    `json:"storage_path" db:"storage_path"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
