package models

import "time"

// Report is one persisted outcome of a duplicate check for a Work.
// Reports are insert-only: once written they are never updated or deleted.
// WorkID is a bare reference; the Work aggregate lives in the storage
// service and is never loaded here.
type Report struct {
	ID            string    `json:"id" db:"id"`
	WorkID        string    `json:"work_id" db:"work_id"`
	DuplicateFlag bool      `json:"duplicate_flag" db:"duplicate_flag"`
	Fingerprint   string    `json:"fingerprint" db:"fingerprint"`
	Detail        *string   `json:"detail,omitempty" db:"detail"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type AnalysisCompletedEvent struct {
	WorkID        string    `json:"work_id"`
	ReportID      string    `json:"report_id"`
	DuplicateFlag bool      `json:"duplicate_flag"`
	Fingerprint   string    `json:"fingerprint"`
	CompletedAt   time.Time `json:"completed_at"`
}
