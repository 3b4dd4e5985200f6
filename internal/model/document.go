package model

import "time"

// Status is the review state of a document.
// A document is created pending and is moved exactly once to approved or
// rejected by an admin; no transition leads out of a decided state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the persisted status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s is a decided (non-pending) state.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Priority of a document as set by the uploading admin.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the persisted priority values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Categories is the fixed set of document categories offered on upload.
var Categories = []string{"operations", "safety", "maintenance", "hr", "finance", "technical"}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Document represents an uploaded file and its review metadata.
// This is a pure domain model with no database-specific dependencies or tags;
// it is shared across the HTTP, service, and repository layers.
type Document struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	FileName    string     `json:"file_name"`
	StoragePath string     `json:"-"`
	Size        int64      `json:"size"`
	ContentType string     `json:"content_type"`
	UploadedBy  string     `json:"uploaded_by"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ParsedText  string     `json:"parsed_text,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
