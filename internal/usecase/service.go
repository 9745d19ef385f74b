package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/normalize"
	"resume-tailor/internal/render"
	"resume-tailor/pkg/ai"
)

// Service runs the parse, tailor and export flows around the normalizer.
type Service struct {
	generator ai.Generator
	repo      ResumesRepo
	renderer  Renderer
	templates *render.Templates
	extract   TextExtractor

	// RenderAttempts and RenderBackoff control PDF retries; the backoff
	// doubles per attempt.
	RenderAttempts int
	RenderBackoff  time.Duration

	now func() time.Time
}

func NewService(g ai.Generator, repo ResumesRepo, r Renderer, tpls *render.Templates, extract TextExtractor) *Service {
	return &Service{
		generator:      g,
		repo:           repo,
		renderer:       r,
		templates:      tpls,
		extract:        extract,
		RenderAttempts: 3,
		RenderBackoff:  time.Second,
		now:            time.Now,
	}
}

// ParseUpload extracts text from an uploaded document and parses it.
func (s *Service) ParseUpload(ctx context.Context, userID uuid.UUID, filename string, data []byte) (ParseOutcome, error) {
	text, err := s.extract(filename, data)
	if err != nil {
		return ParseOutcome{}, fmt.Errorf("extract %s: %w", filename, err)
	}
	return s.ParseText(ctx, userID, text)
}

// ParseText asks the generator to structure resume text and normalizes the
// result. Normalization never fails; data problems come back as warnings.
func (s *Service) ParseText(ctx context.Context, userID uuid.UUID, text string) (ParseOutcome, error) {
	if strings.TrimSpace(text) == "" {
		return ParseOutcome{}, fmt.Errorf("resume text: %w", ErrEmptyInput)
	}
	out, err := s.generator.GenerateStructured(ctx, ai.PromptParseResume, map[string]string{"text": text})
	if err != nil {
		return ParseOutcome{}, fmt.Errorf("parse resume: %w", err)
	}
	raw, err := model.DecodeRaw(out)
	if err != nil {
		return ParseOutcome{}, fmt.Errorf("parse resume: %w: %v", ErrMalformedGeneration, err)
	}

	res := normalize.NormalizeParsedResume(raw)
	slog.Info("resume parsed", "user_id", userID, "warnings", len(res.Warnings), "needs_review", res.NeedsReview)

	id := uuid.New()
	record, err := json.Marshal(res.Resume)
	if err != nil {
		return ParseOutcome{}, err
	}
	s.save(ctx, &domain.StoredResume{
		ID:          id,
		UserID:      userID,
		Kind:        domain.KindParsed,
		Record:      record,
		Warnings:    res.Warnings,
		NeedsReview: res.NeedsReview,
	})
	return ParseOutcome{ID: id, ParseResult: res}, nil
}

// Normalize runs the parse pipeline on a record the client already holds,
// without calling the generator.
func (s *Service) Normalize(raw []byte) (normalize.ParseResult, error) {
	r, err := model.DecodeRaw(raw)
	if err != nil {
		return normalize.ParseResult{}, err
	}
	return normalize.NormalizeParsedResume(r), nil
}

// Tailor rewrites a resume for a job description and enforces coverage of the
// selected keywords. A result that fails the tailored schema is an error
// wrapping *model.ValidationError.
func (s *Service) Tailor(ctx context.Context, req TailorRequest) (TailorOutcome, error) {
	if strings.TrimSpace(req.JobDescription) == "" {
		return TailorOutcome{}, fmt.Errorf("job description: %w", ErrEmptyInput)
	}
	input := map[string]interface{}{
		"resume":           req.Resume,
		"jobDescription":   req.JobDescription,
		"selectedKeywords": nonNil(req.SelectedKeywords),
	}
	out, err := s.generator.GenerateStructured(ctx, ai.PromptTailorResume, input)
	if err != nil {
		return TailorOutcome{}, fmt.Errorf("tailor resume: %w", err)
	}
	raw, err := model.DecodeRaw(out)
	if err != nil {
		return TailorOutcome{}, fmt.Errorf("tailor resume: %w: %v", ErrMalformedGeneration, err)
	}
	tailored, err := normalize.NormalizeTailoredResume(raw, req.SelectedKeywords)
	if err != nil {
		return TailorOutcome{}, err
	}

	outcome := TailorOutcome{ID: uuid.New(), Resume: tailored}
	if req.CoverLetter {
		outcome.CoverLetter = s.coverLetter(ctx, tailored, req.JobDescription)
	}

	record, err := json.Marshal(tailored)
	if err != nil {
		return TailorOutcome{}, err
	}
	s.save(ctx, &domain.StoredResume{
		ID:               outcome.ID,
		UserID:           req.UserID,
		Kind:             domain.KindTailored,
		Record:           record,
		Warnings:         []string{},
		JobDescription:   req.JobDescription,
		SelectedKeywords: req.SelectedKeywords,
		CoverLetter:      outcome.CoverLetter,
	})
	slog.Info("resume tailored", "user_id", req.UserID, "id", outcome.ID,
		"matched", len(tailored.MatchedKeywords), "missing", len(tailored.MissingKeywords))
	return outcome, nil
}

// coverLetter is best-effort: a failure is logged and the tailored resume is
// still returned.
func (s *Service) coverLetter(ctx context.Context, r model.TailoredResume, jobDescription string) string {
	out, err := s.generator.GenerateStructured(ctx, ai.PromptCoverLetter, map[string]interface{}{
		"resume":         r,
		"jobDescription": jobDescription,
	})
	if err != nil {
		slog.Warn("cover letter generation failed", "error", err)
		return ""
	}
	var body struct {
		CoverLetter string `json:"coverLetter"`
	}
	if err := json.Unmarshal(out, &body); err != nil {
		slog.Warn("cover letter output not usable", "error", err)
		return ""
	}
	return strings.TrimSpace(body.CoverLetter)
}

// Export renders a record to PDF, retrying the renderer with backoff and
// checking the PDF signature of what comes back.
func (s *Service) Export(ctx context.Context, r model.TailoredResume, templateName string) ([]byte, error) {
	html, err := s.templates.HTML(r, templateName)
	if err != nil {
		return nil, err
	}

	attempts := s.RenderAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var renderErr error
	for i := 0; i < attempts; i++ {
		var pdf []byte
		pdf, renderErr = s.renderer.RenderHTMLToPDF(ctx, html)
		if renderErr == nil {
			if len(pdf) > 0 && strings.HasPrefix(string(pdf), "%PDF") {
				return pdf, nil
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
		}
		slog.Warn("render attempt failed", "attempt", i+1, "error", renderErr)
		// exponential backoff before retrying
		if i < attempts-1 {
			select {
			case <-time.After(s.RenderBackoff << i):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrRenderFailed, attempts, renderErr)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.StoredResume, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.ResumeSummary, error) {
	return s.repo.ListByUser(ctx, userID)
}

// save persists best-effort: the caller already has the result, so a storage
// failure is logged rather than returned.
func (s *Service) save(ctx context.Context, rec *domain.StoredResume) {
	if s.repo == nil {
		return
	}
	now := s.now()
	rec.CreatedAt, rec.UpdatedAt = now, now
	if err := s.repo.Save(ctx, rec); err != nil {
		slog.Warn("unable to save resume (non-fatal)", "id", rec.ID, "kind", rec.Kind, "error", err)
	}
}

// IsUpstream reports whether err came from the generator provider.
func IsUpstream(err error) bool {
	var upstream *ai.UpstreamError
	return errors.As(err, &upstream) || errors.Is(err, ai.ErrEmptyResponse) || errors.Is(err, ErrMalformedGeneration)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
