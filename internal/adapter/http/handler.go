package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/model"
	"resume-tailor/internal/render"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/extract"
)

// emailPattern is a loose local@domain.tld check; the normalizer keeps email
// verbatim, so the API is where obviously broken addresses are rejected.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Handler struct {
	svc *usecase.Service
}

func NewHandler(svc *usecase.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the API routes on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	r := app.Group("/resumes")
	r.Post("/parse", h.Parse)
	r.Post("/normalize", h.Normalize)
	r.Post("/tailor", h.Tailor)
	r.Post("/export", h.Export)
	r.Get("/:id", h.Get)

	app.Get("/users/:userId/resumes", h.List)
}

type parseReq struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// Parse accepts a multipart upload in "file" or a JSON body with "text".
func (h *Handler) Parse(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		uid, err := parseUserID(c.FormValue("userId"))
		if err != nil {
			return badRequest(c, "invalid userId")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return badRequest(c, "missing file")
		}
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "unreadable file")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return badRequest(c, "unreadable file")
		}
		out, err := h.svc.ParseUpload(c.UserContext(), uid, fh.Filename, data)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}

	var req parseReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	uid, err := parseUserID(req.UserID)
	if err != nil {
		return badRequest(c, "invalid userId")
	}
	out, err := h.svc.ParseText(c.UserContext(), uid, req.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Normalize runs the parse pipeline on a client-held record.
func (h *Handler) Normalize(c *fiber.Ctx) error {
	res, err := h.svc.Normalize(c.Body())
	if err != nil {
		return badRequest(c, "body must be a JSON object")
	}
	return c.JSON(res)
}

type tailorReq struct {
	UserID           string          `json:"userId"`
	Resume           json.RawMessage `json:"resume"`
	JobDescription   string          `json:"jobDescription"`
	SelectedKeywords []string        `json:"selectedKeywords"`
	CoverLetter      bool            `json:"coverLetter"`
}

func (h *Handler) Tailor(c *fiber.Ctx) error {
	var req tailorReq
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid payload")
	}
	uid, err := parseUserID(req.UserID)
	if err != nil {
		return badRequest(c, "invalid userId")
	}
	if len(req.Resume) == 0 {
		return badRequest(c, "missing resume")
	}
	if msg := checkEmail(req.Resume); msg != "" {
		return badRequest(c, msg)
	}

	out, err := h.svc.Tailor(c.UserContext(), usecase.TailorRequest{
		UserID:           uid,
		Resume:           req.Resume,
		JobDescription:   req.JobDescription,
		SelectedKeywords: req.SelectedKeywords,
		CoverLetter:      req.CoverLetter,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export renders the posted record to PDF with ?template= (default classic).
func (h *Handler) Export(c *fiber.Ctx) error {
	body := c.Body()
	var rec model.TailoredResume
	if err := json.Unmarshal(body, &rec); err != nil {
		return badRequest(c, "invalid resume record")
	}
	if msg := checkEmail(body); msg != "" {
		return badRequest(c, msg)
	}

	pdf, err := h.svc.Export(c.UserContext(), rec, c.Query("template"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resume.pdf"`)
	return c.Send(pdf)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	rec, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rec)
}

func (h *Handler) List(c *fiber.Ctx) error {
	uid, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "invalid userId")
	}
	list, err := h.svc.List(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"resumes": list})
}

// parseUserID accepts an empty id (anonymous) or a UUID.
func parseUserID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

// checkEmail returns a message when the record carries a malformed
// contact.email.
func checkEmail(record []byte) string {
	var probe struct {
		Contact struct {
			Email interface{} `json:"email"`
		} `json:"contact"`
	}
	if err := json.Unmarshal(record, &probe); err != nil {
		return ""
	}
	email, ok := probe.Contact.Email.(string)
	if !ok || strings.TrimSpace(email) == "" {
		return ""
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return "invalid contact.email"
	}
	return ""
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func writeError(c *fiber.Ctx, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "tailored resume failed validation", "issues": verr.Issues})
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, extract.ErrCorruptFile):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, usecase.ErrEmptyInput), errors.Is(err, render.ErrUnknownTemplate):
		return badRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case usecase.IsUpstream(err):
		slog.Warn("generator failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "resume generation failed, please retry"})
	}
	slog.Error("request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
