// Package render turns a normalized resume into print-ready HTML.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"

	"golang.org/x/net/publicsuffix"

	"resume-tailor/internal/model"
)

//go:embed templates/*.html templates/style.css
var templateFS embed.FS

// ErrUnknownTemplate is returned for a template name that is not loaded.
var ErrUnknownTemplate = errors.New("render: unknown template")

// DefaultTemplate is used when the caller does not name one.
const DefaultTemplate = "classic"

var funcs = template.FuncMap{
	"href":      href,
	"linkLabel": linkLabel,
	"join":      strings.Join,
}

// Templates is a loaded set of resume templates sharing one stylesheet.
type Templates struct {
	set map[string]*template.Template
	css template.CSS
}

var embedded = mustLoadEmbedded()

func mustLoadEmbedded() *Templates {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	t, err := load(sub)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads *.html templates and an optional style.css from dir. An empty
// dir returns the built-in templates.
func Load(dir string) (*Templates, error) {
	if dir == "" {
		return embedded, nil
	}
	return load(os.DirFS(dir))
}

func load(fsys fs.FS) (*Templates, error) {
	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("render: no templates found")
	}
	t := &Templates{set: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		tpl, err := template.New(name).Funcs(funcs).Parse(string(b))
		if err != nil {
			return nil, fmt.Errorf("render: parse %s: %w", f, err)
		}
		t.set[name] = tpl
	}
	if css, err := fs.ReadFile(fsys, "style.css"); err == nil {
		t.css = template.CSS(css)
	}
	return t, nil
}

// Names lists the loaded template names.
func (t *Templates) Names() []string {
	out := make([]string, 0, len(t.set))
	for n := range t.set {
		out = append(out, n)
	}
	return out
}

// HTML renders r with the built-in template called name.
func HTML(r model.TailoredResume, name string) (string, error) {
	return embedded.HTML(r, name)
}

// HTML renders r with the named template; "" selects DefaultTemplate.
func (t *Templates) HTML(r model.TailoredResume, name string) (string, error) {
	if name == "" {
		name = DefaultTemplate
	}
	tpl, ok := t.set[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, newView(r, t.css)); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

type link struct {
	Href  string
	Label string
}

type skillRow struct {
	Label string
	Items []string
}

type view struct {
	model.TailoredResume
	CSS       template.CSS
	Links     []link
	SkillRows []skillRow
}

func newView(r model.TailoredResume, css template.CSS) view {
	v := view{TailoredResume: r, CSS: css}
	for _, u := range []string{r.Contact.LinkedIn, r.Contact.GitHub, r.Contact.Website} {
		if u != "" {
			v.Links = append(v.Links, link{Href: href(u), Label: contactLabel(u)})
		}
	}
	s := r.Skills
	for _, row := range []skillRow{
		{"Languages", s.Languages},
		{"Frameworks", s.Frameworks},
		{"Tools", s.Tools},
		{"Soft skills", s.Soft},
		{"Other", s.Other},
		{"Technical", s.Technical},
	} {
		if len(row.Items) > 0 {
			v.SkillRows = append(v.SkillRows, row)
		}
	}
	return v
}

// href returns a clickable URL for a stored scheme-less link.
func href(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return "https://" + u
}

// linkLabel is the short display text for a URL: its registrable domain
// (eTLD+1), else the host without "www.", else the value itself.
func linkLabel(u string) string {
	parsed, err := url.Parse(href(u))
	if err != nil {
		return u
	}
	host := parsed.Hostname()
	if host == "" {
		return u
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}

// contactLabel keeps the path for profile links ("linkedin.com/in/jane")
// since the domain alone says nothing about whose profile it is.
func contactLabel(u string) string {
	parsed, err := url.Parse(href(u))
	if err != nil || parsed.Hostname() == "" {
		return u
	}
	label := strings.TrimPrefix(parsed.Hostname(), "www.") + strings.TrimSuffix(parsed.EscapedPath(), "/")
	return label
}

// FromParsed lifts a parsed resume into the tailored shape the templates
// render.
func FromParsed(p model.ParsedResume) model.TailoredResume {
	return model.TailoredResume{
		Contact:        p.Contact,
		Summary:        p.Summary,
		Experience:     p.Experience,
		Education:      p.Education,
		Skills:         p.Skills,
		Projects:       p.Projects,
		Certifications: p.Certifications,
	}
}
