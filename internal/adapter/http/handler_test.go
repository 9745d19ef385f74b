package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/render"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/ai"
	"resume-tailor/pkg/extract"
)

type fakeGenerator map[ai.PromptID]string

func (g fakeGenerator) GenerateStructured(_ context.Context, prompt ai.PromptID, _ any) (json.RawMessage, error) {
	out, ok := g[prompt]
	if !ok {
		return nil, &ai.UpstreamError{Provider: "test", StatusCode: http.StatusServiceUnavailable, Err: errors.New("down")}
	}
	return json.RawMessage(out), nil
}

type fakeRenderer struct{}

func (fakeRenderer) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.7 test"), nil
}

func newApp(t *testing.T, gen fakeGenerator) *fiber.App {
	t.Helper()
	tpls, err := render.Load("")
	require.NoError(t, err)
	svc := usecase.NewService(gen, repository.NewResumesRepo(nil), fakeRenderer{}, tpls, extract.Text)
	app := fiber.New()
	NewHandler(svc).Register(app)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

const parsedOutput = `{"contact":{"name":"Jane Doe"},"experience":[],"education":[],"skills":{"technical":["Go"]}}`

func TestHealthz(t *testing.T) {
	status, body := do(t, newApp(t, nil), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestParseText(t *testing.T) {
	app := newApp(t, fakeGenerator{ai.PromptParseResume: parsedOutput})

	status, body := do(t, app, jsonRequest(http.MethodPost, "/resumes/parse", `{"text":"Jane Doe, Go engineer"}`))
	require.Equal(t, http.StatusOK, status, string(body))

	var out struct {
		ID          string   `json:"id"`
		Warnings    []string `json:"warnings"`
		NeedsReview bool     `json:"needsReview"`
		Resume      struct {
			Contact struct {
				Name string `json:"name"`
			} `json:"contact"`
		} `json:"resume"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	_, err := uuid.Parse(out.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.Resume.Contact.Name)
	assert.True(t, out.NeedsReview)
	assert.NotEmpty(t, out.Warnings)
}

func multipartRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("userId", uuid.NewString()))
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/resumes/parse", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestParseUpload(t *testing.T) {
	app := newApp(t, fakeGenerator{ai.PromptParseResume: parsedOutput})

	status, body := do(t, app, multipartRequest(t, "cv.txt", []byte("Jane Doe\nGo engineer")))
	assert.Equal(t, http.StatusOK, status, string(body))

	status, _ = do(t, app, multipartRequest(t, "cv.odt", []byte("x")))
	assert.Equal(t, http.StatusUnsupportedMediaType, status)

	status, _ = do(t, app, multipartRequest(t, "cv.docx", []byte("not a zip")))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestParseErrors(t *testing.T) {
	app := newApp(t, fakeGenerator{})

	status, _ := do(t, app, jsonRequest(http.MethodPost, "/resumes/parse", `{"text":"Jane"}`))
	assert.Equal(t, http.StatusBadGateway, status)

	status, _ = do(t, app, jsonRequest(http.MethodPost, "/resumes/parse", `{"text":"   "}`))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, jsonRequest(http.MethodPost, "/resumes/parse", `{"text":"Jane","userId":"nope"}`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNormalizeEndpoint(t *testing.T) {
	app := newApp(t, nil)

	status, body := do(t, app, jsonRequest(http.MethodPost, "/resumes/normalize", `{"contact":{"name":" Jane ","linkedin":"https://linkedin.com/in/jane"}}`))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"name":"Jane"`)
	assert.Contains(t, string(body), `"linkedin":"linkedin.com/in/jane"`)

	status, _ = do(t, app, jsonRequest(http.MethodPost, "/resumes/normalize", `[1,2]`))
	assert.Equal(t, http.StatusBadRequest, status)
}

const tailoredOutput = `{"contact":{"name":"Jane Doe"},"summary":"Go engineer.","experience":[],"education":[],"skills":{"technical":["Go"]}}`

func TestTailorEndpoint(t *testing.T) {
	app := newApp(t, fakeGenerator{ai.PromptTailorResume: tailoredOutput})

	status, body := do(t, app, jsonRequest(http.MethodPost, "/resumes/tailor", `{
		"resume": {"contact": {"name": "Jane Doe", "email": "jane@example.com"}},
		"jobDescription": "Kubernetes platform role",
		"selectedKeywords": ["Kubernetes"]
	}`))
	require.Equal(t, http.StatusOK, status, string(body))

	var out usecase.TailorOutcome
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, []string{"Kubernetes"}, out.Resume.Skills.Other)
	assert.Equal(t, []string{"Kubernetes"}, out.Resume.MissingKeywords)
}

func TestTailorEndpointRejects(t *testing.T) {
	app := newApp(t, fakeGenerator{ai.PromptTailorResume: tailoredOutput})

	tests := map[string]string{
		"bad email":      `{"resume":{"contact":{"email":"jane-at-example"}},"jobDescription":"Go"}`,
		"missing resume": `{"jobDescription":"Go"}`,
		"no job":         `{"resume":{"contact":{"name":"Jane"}},"jobDescription":""}`,
		"not json":       `{`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			status, _ := do(t, app, jsonRequest(http.MethodPost, "/resumes/tailor", body))
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestTailorEndpointValidationFailure(t *testing.T) {
	var projects bytes.Buffer
	projects.WriteString(`{"contact":{"name":"Jane"},"projects":[`)
	for i := 0; i < 31; i++ {
		if i > 0 {
			projects.WriteString(",")
		}
		projects.WriteString(`{"name":"` + uuid.NewString() + `","highlights":["a","b","c"]}`)
	}
	projects.WriteString(`]}`)
	app := newApp(t, fakeGenerator{ai.PromptTailorResume: projects.String()})

	status, body := do(t, app, jsonRequest(http.MethodPost, "/resumes/tailor", `{"resume":{},"jobDescription":"Go"}`))
	require.Equal(t, http.StatusUnprocessableEntity, status)

	var out struct {
		Issues []struct {
			Field string `json:"field"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Issues)
	assert.Equal(t, "projects", out.Issues[0].Field)
}

func TestExportEndpoint(t *testing.T) {
	app := newApp(t, nil)
	record := `{"contact":{"name":"Jane Doe","email":"jane@example.com"},"summary":"","experience":[],"education":[],
		"skills":{"technical":[],"languages":["Go"],"frameworks":[],"tools":[],"soft":[],"other":[]}}`

	req := jsonRequest(http.MethodPost, "/resumes/export?template=compact", record)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-1.7 test", string(body))

	status, _ := do(t, app, jsonRequest(http.MethodPost, "/resumes/export?template=fancy", record))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, jsonRequest(http.MethodPost, "/resumes/export", `{"contact":{"name":"J","email":"j@"}}`))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetAndList(t *testing.T) {
	app := newApp(t, nil)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/resumes/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/resumes/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString()+"/resumes", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"resumes":[]}`, string(body))
}

func TestCheckEmail(t *testing.T) {
	assert.Empty(t, checkEmail([]byte(`{"contact":{"email":"a@b.co"}}`)))
	assert.Empty(t, checkEmail([]byte(`{"contact":{}}`)))
	assert.Empty(t, checkEmail([]byte(`{"contact":{"email":null}}`)))
	assert.NotEmpty(t, checkEmail([]byte(`{"contact":{"email":"a b@c.d"}}`)))
	assert.NotEmpty(t, checkEmail([]byte(`{"contact":{"email":"a@b"}}`)))
}
