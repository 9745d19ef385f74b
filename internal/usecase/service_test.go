package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/domain"
	"resume-tailor/internal/model"
	"resume-tailor/internal/render"
	"resume-tailor/pkg/ai"
	"resume-tailor/pkg/extract"
)

type stubGenerator struct {
	mu      sync.Mutex
	outputs map[ai.PromptID]string
	errs    map[ai.PromptID]error
	inputs  map[ai.PromptID]any
}

func (g *stubGenerator) GenerateStructured(_ context.Context, prompt ai.PromptID, input any) (json.RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inputs == nil {
		g.inputs = map[ai.PromptID]any{}
	}
	g.inputs[prompt] = input
	if err := g.errs[prompt]; err != nil {
		return nil, err
	}
	return json.RawMessage(g.outputs[prompt]), nil
}

type memRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.StoredResume
	saveErr error
}

func newMemRepo() *memRepo { return &memRepo{records: map[uuid.UUID]*domain.StoredResume{}} }

func (r *memRepo) Save(_ context.Context, s *domain.StoredResume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[s.ID] = s
	return nil
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (*domain.StoredResume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *memRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.ResumeSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.ResumeSummary{}
	for _, s := range r.records {
		if s.UserID == userID {
			out = append(out, domain.ResumeSummary{ID: s.ID, Kind: s.Kind, NeedsReview: s.NeedsReview, UpdatedAt: s.UpdatedAt})
		}
	}
	return out, nil
}

type stubRenderer struct {
	outputs [][]byte
	errs    []error
	calls   int
}

func (r *stubRenderer) RenderHTMLToPDF(_ context.Context, _ string) ([]byte, error) {
	i := r.calls
	r.calls++
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(r.outputs) {
		return r.outputs[i], nil
	}
	return []byte("%PDF-1.7 ok"), nil
}

func newTestService(g ai.Generator, repo ResumesRepo, r Renderer) *Service {
	tpls, err := render.Load("")
	if err != nil {
		panic(err)
	}
	s := NewService(g, repo, r, tpls, extract.Text)
	s.RenderBackoff = time.Millisecond
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

const parsedOutput = `{
  "contact": {"name": "Jane Doe", "email": "jane@example.com"},
  "summary": "Engineer.",
  "experience": [{"company": "Acme", "title": "Engineer", "startDate": "2020", "highlights": ["Built APIs"]}],
  "education": [],
  "skills": {"technical": ["Go", "React"]},
  "warnings": ["No skills section found"]
}`

func TestParseUpload(t *testing.T) {
	gen := &stubGenerator{outputs: map[ai.PromptID]string{ai.PromptParseResume: parsedOutput}}
	repo := newMemRepo()
	svc := newTestService(gen, repo, &stubRenderer{})
	userID := uuid.New()

	out, err := svc.ParseUpload(context.Background(), userID, "cv.txt", []byte("Jane Doe\nEngineer at Acme"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"text": "Jane Doe\nEngineer at Acme"}, gen.inputs[ai.PromptParseResume])
	assert.Equal(t, "Jane Doe", out.Resume.Contact.Name)
	assert.Equal(t, []string{"Go"}, out.Resume.Skills.Languages[:1])
	assert.True(t, out.NeedsReview, "no education")

	stored, err := repo.Get(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindParsed, stored.Kind)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, out.Warnings, stored.Warnings)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), stored.CreatedAt)

	var rec model.ParsedResume
	require.NoError(t, json.Unmarshal(stored.Record, &rec))
	assert.Equal(t, out.Resume.Contact, rec.Contact)
}

func TestParseUploadErrors(t *testing.T) {
	upstream := &ai.UpstreamError{Provider: "ai-service", StatusCode: 500, Err: errors.New("boom")}
	svc := newTestService(&stubGenerator{errs: map[ai.PromptID]error{ai.PromptParseResume: upstream}}, newMemRepo(), &stubRenderer{})

	_, err := svc.ParseUpload(context.Background(), uuid.New(), "cv.odt", []byte("x"))
	assert.True(t, errors.Is(err, extract.ErrUnsupportedFormat))

	_, err = svc.ParseUpload(context.Background(), uuid.New(), "cv.txt", []byte("Jane"))
	assert.True(t, IsUpstream(err))

	_, err = svc.ParseText(context.Background(), uuid.New(), "   ")
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func TestParseTextStorageFailureIsNotFatal(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("db down")
	svc := newTestService(&stubGenerator{outputs: map[ai.PromptID]string{ai.PromptParseResume: parsedOutput}}, repo, &stubRenderer{})

	out, err := svc.ParseText(context.Background(), uuid.New(), "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.Resume.Contact.Name)
}

func TestParseTextMalformedGeneration(t *testing.T) {
	svc := newTestService(&stubGenerator{outputs: map[ai.PromptID]string{ai.PromptParseResume: `["not", "an", "object"]`}}, newMemRepo(), &stubRenderer{})

	_, err := svc.ParseText(context.Background(), uuid.New(), "Jane Doe")
	assert.True(t, errors.Is(err, ErrMalformedGeneration))
	assert.True(t, IsUpstream(err))
}

const tailoredOutput = `{
  "contact": {"name": "Jane Doe"},
  "summary": "Go engineer.",
  "experience": [{"company": "Acme", "title": "Engineer", "startDate": "2020", "highlights": ["Ran Docker"]}],
  "education": [],
  "skills": {"technical": ["Go"]}
}`

func TestTailor(t *testing.T) {
	gen := &stubGenerator{outputs: map[ai.PromptID]string{
		ai.PromptTailorResume: tailoredOutput,
		ai.PromptCoverLetter:  `{"coverLetter": "  Dear team,\n\nHire me.  "}`,
	}}
	repo := newMemRepo()
	svc := newTestService(gen, repo, &stubRenderer{})

	out, err := svc.Tailor(context.Background(), TailorRequest{
		UserID:           uuid.New(),
		Resume:           json.RawMessage(`{"contact":{"name":"Jane Doe"}}`),
		JobDescription:   "Platform engineer, Kubernetes",
		SelectedKeywords: []string{"Kubernetes", "docker"},
		CoverLetter:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Kubernetes"}, out.Resume.Skills.Other)
	assert.Equal(t, []string{"Go"}, out.Resume.Skills.Languages)
	assert.Empty(t, out.Resume.Skills.Technical)
	assert.Equal(t, []string{"docker"}, out.Resume.MatchedKeywords)
	assert.Equal(t, []string{"Kubernetes"}, out.Resume.MissingKeywords)
	assert.Equal(t, "Dear team,\n\nHire me.", out.CoverLetter)

	stored, err := repo.Get(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindTailored, stored.Kind)
	assert.Equal(t, "Platform engineer, Kubernetes", stored.JobDescription)
	assert.Equal(t, out.CoverLetter, stored.CoverLetter)
}

func TestTailorCoverLetterFailureIsNotFatal(t *testing.T) {
	gen := &stubGenerator{
		outputs: map[ai.PromptID]string{ai.PromptTailorResume: tailoredOutput},
		errs:    map[ai.PromptID]error{ai.PromptCoverLetter: ai.ErrEmptyResponse},
	}
	svc := newTestService(gen, newMemRepo(), &stubRenderer{})

	out, err := svc.Tailor(context.Background(), TailorRequest{JobDescription: "Go", CoverLetter: true})
	require.NoError(t, err)
	assert.Empty(t, out.CoverLetter)
}

func TestTailorSchemaViolation(t *testing.T) {
	projects := make([]map[string]interface{}, 31)
	for i := range projects {
		projects[i] = map[string]interface{}{"name": uuid.NewString(), "highlights": []string{"a", "b", "c"}}
	}
	b, err := json.Marshal(map[string]interface{}{"contact": map[string]string{"name": "Jane"}, "projects": projects})
	require.NoError(t, err)
	repo := newMemRepo()
	svc := newTestService(&stubGenerator{outputs: map[ai.PromptID]string{ai.PromptTailorResume: string(b)}}, repo, &stubRenderer{})

	_, err = svc.Tailor(context.Background(), TailorRequest{JobDescription: "Go"})

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, repo.records)
}

func TestTailorRequiresJobDescription(t *testing.T) {
	svc := newTestService(&stubGenerator{}, newMemRepo(), &stubRenderer{})

	_, err := svc.Tailor(context.Background(), TailorRequest{JobDescription: " "})
	assert.True(t, errors.Is(err, ErrEmptyInput))
}

func exportRecord() model.TailoredResume {
	return render.FromParsed(model.ParsedResume{
		Contact:    model.Contact{Name: "Jane Doe"},
		Experience: []model.Experience{},
		Education:  []model.Education{},
		Skills:     model.Skills{Technical: []string{}, Languages: []string{"Go"}, Frameworks: []string{}, Tools: []string{}, Soft: []string{}, Other: []string{}},
	})
}

func TestExportRetriesUntilValidPDF(t *testing.T) {
	r := &stubRenderer{
		errs:    []error{errors.New("chrome crashed")},
		outputs: [][]byte{nil, []byte("<html>not a pdf"), []byte("%PDF-1.4 body")},
	}
	svc := newTestService(&stubGenerator{}, newMemRepo(), r)

	pdf, err := svc.Export(context.Background(), exportRecord(), "compact")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(pdf))
	assert.Equal(t, 3, r.calls)
}

func TestExportGivesUp(t *testing.T) {
	boom := errors.New("chrome missing")
	r := &stubRenderer{errs: []error{boom, boom, boom, boom}}
	svc := newTestService(&stubGenerator{}, newMemRepo(), r)

	_, err := svc.Export(context.Background(), exportRecord(), "")
	assert.True(t, errors.Is(err, ErrRenderFailed))
	assert.Equal(t, 3, r.calls)
}

func TestExportUnknownTemplate(t *testing.T) {
	r := &stubRenderer{}
	svc := newTestService(&stubGenerator{}, newMemRepo(), r)

	_, err := svc.Export(context.Background(), exportRecord(), "fancy")
	assert.True(t, errors.Is(err, render.ErrUnknownTemplate))
	assert.Zero(t, r.calls)
}

func TestNormalize(t *testing.T) {
	svc := newTestService(&stubGenerator{}, newMemRepo(), &stubRenderer{})

	res, err := svc.Normalize([]byte(parsedOutput))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", res.Resume.Contact.Name)

	_, err = svc.Normalize([]byte(`[]`))
	assert.Error(t, err)
}
