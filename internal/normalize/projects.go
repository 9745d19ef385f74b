package normalize

import (
	"strings"

	"resume-tailor/internal/model"
)

const (
	minProjectHighlights = 3
	maxProjectHighlights = 4
)

// EnforceHighlights returns the project with 3 or 4 highlights whenever it
// has any highlight or description sentence to work from. Missing bullets
// are mined from the description's sentences; if that is still not enough
// the last bullet is repeated. A project with no content at all keeps what
// it has (possibly nothing).
func EnforceHighlights(raw model.RawProject) model.Project {
	p := model.Project{
		Name:         orDefault(text(raw.Name), model.UntitledProject),
		Description:  text(raw.Description),
		URL:          sanitizeURL(text(raw.URL)),
		Technologies: uniqueFold(raw.Technologies),
	}
	if len(p.Technologies) == 0 {
		p.Technologies = nil
	}

	hl := nonEmpty(raw.Highlights)
	if len(hl) < maxProjectHighlights {
		for _, s := range sentences(p.Description) {
			if len(hl) >= maxProjectHighlights {
				break
			}
			if !contains(hl, s) {
				hl = append(hl, s)
			}
		}
	}
	for len(hl) > 0 && len(hl) < minProjectHighlights {
		hl = append(hl, hl[len(hl)-1])
	}
	if len(hl) > maxProjectHighlights {
		hl = hl[:maxProjectHighlights]
	}
	p.Highlights = hl
	return p
}

// sentences splits on '.', '!' and '?', trimming and dropping empties.
func sentences(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	return nonEmpty(parts)
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
