// Package normalize turns untrusted resume JSON (LLM output or parsed
// documents) into validated canonical records.
//
// Every function here is pure: inputs are never mutated and no state is kept
// between calls, so the pipelines can run concurrently and re-normalizing an
// already-normalized record returns it unchanged.
package normalize

import (
	"strings"

	"resume-tailor/internal/model"
)

// text returns the trimmed value of a raw leaf, "" when unset.
func text(o model.OptString) string {
	if !o.Set {
		return ""
	}
	return strings.TrimSpace(o.Value)
}

// nonEmpty trims every item and drops the blank ones. It always returns a
// non-nil slice.
func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// uniqueFold is nonEmpty plus case-insensitive de-duplication, keeping the
// first-seen casing.
func uniqueFold(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, s := range nonEmpty(items) {
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

func containsFold(items []string, s string) bool {
	for _, it := range items {
		if strings.EqualFold(it, s) {
			return true
		}
	}
	return false
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
