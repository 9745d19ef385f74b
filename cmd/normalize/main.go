// Command normalize runs the normalization pipelines on a raw resume JSON
// file offline and optionally renders the result.
//
//	normalize --mode parsed resume.json
//	normalize --mode tailored --keywords "Kubernetes,Go" --render html --out cv.html tailored.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resume-tailor/internal/model"
	"resume-tailor/internal/normalize"
	"resume-tailor/internal/render"
	infra "resume-tailor/pkg/infrastructure"
)

type options struct {
	mode     string
	keywords string
	renderAs string
	template string
	out      string
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize a raw resume JSON file",
		Long: `Normalize a raw resume JSON file with the parsed or tailored pipeline.

The input is read from the file argument, or stdin when it is omitted or "-".

Example:
  normalize --mode parsed resume.json
  normalize --mode tailored --keywords "Kubernetes,Go" --render html --out cv.html tailored.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in string
			if len(args) > 0 {
				in = args[0]
			}
			return run(o.mode, o.keywords, o.renderAs, o.template, o.out, in)
		},
	}
	cmd.Flags().StringVar(&o.mode, "mode", "parsed", "pipeline: parsed or tailored")
	cmd.Flags().StringVar(&o.keywords, "keywords", "", "comma-separated selected keywords (tailored mode)")
	cmd.Flags().StringVar(&o.renderAs, "render", "", "also render the result: html or pdf")
	cmd.Flags().StringVar(&o.template, "template", render.DefaultTemplate, "template name for --render")
	cmd.Flags().StringVar(&o.out, "out", "", "output file for --render (default stdout)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "normalize: %v\n", err)
		os.Exit(2)
	}
}

func run(mode, keywords, renderAs, tplName, out, in string) error {
	b, err := readInput(in)
	if err != nil {
		return err
	}
	raw, err := model.DecodeRaw(b)
	if err != nil {
		return err
	}

	var (
		result interface{}
		record model.TailoredResume
	)
	switch mode {
	case "parsed":
		res := normalize.NormalizeParsedResume(raw)
		result, record = res, render.FromParsed(res.Resume)
	case "tailored":
		r, err := normalize.NormalizeTailoredResume(raw, splitKeywords(keywords))
		if err != nil {
			return err
		}
		result, record = r, r
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	if renderAs == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	html, err := render.HTML(record, tplName)
	if err != nil {
		return err
	}
	data := []byte(html)
	switch renderAs {
	case "html":
	case "pdf":
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		data, err = infra.NewChromedpRenderer(os.Getenv("CHROME_PATH")).RenderHTMLToPDF(ctx, html)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown --render %q", renderAs)
	}
	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func splitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
