package normalize

import (
	"net/url"
	"strings"

	"resume-tailor/internal/model"
)

// minLinkLength is the shortest value accepted as a profile/site URL. Shorter
// values are almost always bare usernames ("jdoe") or placeholders.
const minLinkLength = 10

// SanitizeContact maps a raw contact into a canonical one. It never fails:
// a contact without a name gets the "Unknown" sentinel.
func SanitizeContact(raw model.RawContact) model.Contact {
	c := model.Contact{
		Name:  text(raw.Name),
		Email: text(raw.Email),
		Phone: text(raw.Phone),
	}
	if c.Name == "" {
		c.Name = model.UnknownName
	}
	if loc := text(raw.Location); !strings.EqualFold(loc, "unknown") {
		c.Location = loc
	}
	c.LinkedIn = sanitizeLink(text(raw.LinkedIn))
	c.GitHub = sanitizeLink(text(raw.GitHub))
	c.Website = sanitizeLink(text(raw.Website))
	return c
}

// sanitizeLink returns the scheme-less display form of a URL, or "" when the
// value is not usable as one.
func sanitizeLink(v string) string {
	if !looksLikeLink(v) {
		return ""
	}
	if !hasScheme(v) {
		return v
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return ""
	}
	stripped := stripScheme(v)
	// the stripped form is what gets stored, so it must pass the same check
	// or the next normalization pass would drop it
	if !looksLikeLink(stripped) {
		return ""
	}
	return stripped
}

// sanitizeURL is the project/certification variant: no length floor, only
// scheme validation and stripping.
func sanitizeURL(v string) string {
	if v == "" || !hasScheme(v) {
		return v
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return ""
	}
	return stripScheme(v)
}

func looksLikeLink(v string) bool {
	return len(v) >= minLinkLength && strings.Contains(v, ".")
}

func hasScheme(v string) bool {
	l := strings.ToLower(v)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func stripScheme(v string) string {
	if i := strings.Index(v, "://"); i >= 0 {
		return v[i+3:]
	}
	return v
}
