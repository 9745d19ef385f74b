package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/normalize"
)

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ResumesRepo persists normalized records.
type ResumesRepo interface {
	Save(ctx context.Context, s *domain.StoredResume) error
	Get(ctx context.Context, id uuid.UUID) (*domain.StoredResume, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ResumeSummary, error)
}

// TextExtractor pulls plain text out of an uploaded file.
type TextExtractor func(filename string, data []byte) (string, error)

var (
	// ErrMalformedGeneration is returned when the generator's output is not a
	// resume object.
	ErrMalformedGeneration = errors.New("generator returned a malformed resume")
	// ErrRenderFailed is returned when no valid PDF came back after retries.
	ErrRenderFailed = errors.New("pdf rendering failed")
	// ErrEmptyInput is returned for blank resume text or job descriptions.
	ErrEmptyInput = errors.New("empty input")
)

// ParseOutcome is a normalized upload and the id it was stored under.
type ParseOutcome struct {
	ID uuid.UUID `json:"id"`
	normalize.ParseResult
}

type TailorRequest struct {
	UserID           uuid.UUID       `json:"userId"`
	Resume           json.RawMessage `json:"resume"`
	JobDescription   string          `json:"jobDescription"`
	SelectedKeywords []string        `json:"selectedKeywords"`
	CoverLetter      bool            `json:"coverLetter"`
}

type TailorOutcome struct {
	ID          uuid.UUID            `json:"id"`
	Resume      model.TailoredResume `json:"resume"`
	CoverLetter string               `json:"coverLetter,omitempty"`
}
