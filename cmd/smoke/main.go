// Command smoke runs parse, tailor and export end to end against a mock
// ai-service and the real chromedp renderer, without a database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"resume-tailor/internal/adapter/repository"
	"resume-tailor/internal/render"
	"resume-tailor/internal/usecase"
	"resume-tailor/pkg/ai"
	"resume-tailor/pkg/extract"
	infra "resume-tailor/pkg/infrastructure"
)

const resumeText = `Jane Doe
jane@example.com | linkedin.com/in/janedoe

Backend Engineer, Acme Corp (2019 - Present)
- Built billing APIs in Go serving 2M requests a day
- Moved deploys to Docker and GitHub Actions`

func mockOutput(input string) interface{} {
	switch {
	case strings.Contains(input, "Write a concise cover letter"):
		return map[string]string{"coverLetter": "Dear hiring team,\n\nI build reliable Go services."}
	case strings.Contains(input, "Rewrite the resume"):
		return map[string]interface{}{
			"contact":    map[string]string{"name": "Jane Doe", "email": "jane@example.com", "linkedin": "https://linkedin.com/in/janedoe"},
			"summary":    "Backend engineer shipping Go services on Kubernetes.",
			"experience": []map[string]interface{}{{"company": "Acme Corp", "title": "Backend Engineer", "startDate": "2019", "endDate": "Present", "highlights": []string{"Built billing APIs in Go serving 2M requests a day"}}},
			"skills":     map[string][]string{"languages": {"Go"}, "tools": {"Docker", "GitHub Actions"}},
		}
	default:
		return map[string]interface{}{
			"contact":    map[string]string{"name": "Jane Doe", "email": "jane@example.com", "linkedin": "linkedin.com/in/janedoe"},
			"experience": []map[string]interface{}{{"company": "Acme Corp", "title": "Backend Engineer", "startDate": "2019", "endDate": "Present", "highlights": []string{"Built billing APIs in Go serving 2M requests a day", "Moved deploys to Docker and GitHub Actions"}}},
			"skills":     []string{"Go", "Docker", "GitHub Actions"},
			"warnings":   []string{"No education section found"},
		}
	}
}

func startMockAI() (string, *http.Server, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		out, _ := json.Marshal(mockOutput(req.Input))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"agent": "mock", "output": string(out)})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("mock ai server failed", "error", err)
		}
	}()
	return "http://" + ln.Addr().String(), srv, nil
}

func newRootCmd() *cobra.Command {
	var out, tpl string
	cmd := &cobra.Command{
		Use:           "smoke",
		Short:         "Run parse, tailor and export against a mock ai-service",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(out, tpl)
		},
	}
	cmd.Flags().StringVar(&out, "out", "smoke.pdf", "where to write the exported PDF")
	cmd.Flags().StringVar(&tpl, "template", render.DefaultTemplate, "template to export with")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "smoke failed: %v\n", err)
		os.Exit(1)
	}
}

func run(out, tpl string) error {
	baseURL, srv, err := startMockAI()
	if err != nil {
		return err
	}
	defer srv.Shutdown(context.Background())

	tpls, err := render.Load("")
	if err != nil {
		return err
	}
	svc := usecase.NewService(
		ai.NewServiceClient(baseURL, ""),
		repository.NewResumesRepo(nil),
		infra.NewChromedpRenderer(os.Getenv("CHROME_PATH")),
		tpls,
		extract.Text,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	user := uuid.New()

	parsed, err := svc.ParseUpload(ctx, user, "resume.txt", []byte(resumeText))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	fmt.Printf("parsed %s: warnings=%q needsReview=%v\n", parsed.ID, parsed.Warnings, parsed.NeedsReview)

	record, err := json.Marshal(parsed.Resume)
	if err != nil {
		return err
	}
	tailored, err := svc.Tailor(ctx, usecase.TailorRequest{
		UserID:           user,
		Resume:           record,
		JobDescription:   "Platform engineer: Go, Kubernetes, Terraform",
		SelectedKeywords: []string{"Kubernetes", "Terraform"},
		CoverLetter:      true,
	})
	if err != nil {
		return fmt.Errorf("tailor: %w", err)
	}
	fmt.Printf("tailored %s: matched=%q missing=%q coverLetter=%d bytes\n",
		tailored.ID, tailored.Resume.MatchedKeywords, tailored.Resume.MissingKeywords, len(tailored.CoverLetter))

	pdf, err := svc.Export(ctx, tailored.Resume, tpl)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(pdf))
	return nil
}
