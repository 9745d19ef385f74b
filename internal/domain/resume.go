package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind tells which pipeline produced a stored record.
type Kind string

const (
	KindParsed   Kind = "parsed"
	KindTailored Kind = "tailored"
)

// StoredResume is a normalized record as persisted in the resumes table.
// Record holds the canonical ParsedResume or TailoredResume JSON.
type StoredResume struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"userId"`
	Kind             Kind            `json:"kind"`
	Record           json.RawMessage `json:"record"`
	Warnings         []string        `json:"warnings"`
	NeedsReview      bool            `json:"needsReview"`
	JobDescription   string          `json:"jobDescription,omitempty"`
	SelectedKeywords []string        `json:"selectedKeywords,omitempty"`
	CoverLetter      string          `json:"coverLetter,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ResumeSummary is the listing view of a stored record.
type ResumeSummary struct {
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	NeedsReview bool      `json:"needsReview"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
