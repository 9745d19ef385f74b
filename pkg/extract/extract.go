// Package extract pulls plain text out of uploaded resume documents.
package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned for file types we cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format: only pdf, docx, txt and md are allowed")
	// ErrCorruptFile is returned when a supported file cannot be decoded or
	// yields no text.
	ErrCorruptFile = errors.New("file could not be read")
)

var (
	reTags       = regexp.MustCompile(`<[^>]+>`)
	reSpaces     = regexp.MustCompile(`[ \t\r\f\v]+`)
	reNewlines   = regexp.MustCompile(`\n+`)
	reLineBorder = regexp.MustCompile(` ?\n ?`)
)

// Text extracts plain text from a resume file. The format is picked from the
// filename extension.
func Text(filename string, data []byte) (string, error) {
	var (
		txt string
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		txt, err = fromPDF(data)
	case ".docx":
		txt, err = fromDocx(data)
	case ".txt", ".md":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: %w: not valid UTF-8", filename, ErrCorruptFile)
		}
		txt = string(data)
	default:
		return "", fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", filename, ErrCorruptFile, err)
	}
	txt = normalizeWhitespace(txt)
	if txt == "" {
		return "", fmt.Errorf("%s: %w: no text found", filename, ErrCorruptFile)
	}
	return txt, nil
}

func fromPDF(data []byte) (txt string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if len(docXML) == 0 {
		return "", errors.New("no document.xml found in docx")
	}
	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
	// runs of one word are split across <w:t> elements, so tags are removed
	// without inserting a separator
	txt := reTags.ReplaceAllString(xml, "")
	return html.UnescapeString(txt), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	s = reLineBorder.ReplaceAllString(s, "\n")
	s = reNewlines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
