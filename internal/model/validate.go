package model

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

var (
	parsedSchema   = mustLoadSchema("schema/parsed.schema.json")
	tailoredSchema = mustLoadSchema("schema/tailored.schema.json")
)

// Issue is one schema violation: the offending field path and a message.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string { return i.Field + ": " + i.Message }

// ValidationError carries every violation found in one record.
type ValidationError struct {
	Schema string  `json:"schema"`
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		msgs = append(msgs, i.String())
	}
	return fmt.Sprintf("%s schema validation failed: %s", e.Schema, strings.Join(msgs, "; "))
}

// ValidateParsed validates a parsed-resume record against parsed.schema.json.
func ValidateParsed(r ParsedResume) error {
	return validate(parsedSchema, "parsed", r)
}

// ValidateTailored validates a tailored-resume record against tailored.schema.json.
func ValidateTailored(r TailoredResume) error {
	return validate(tailoredSchema, "tailored", r)
}

func validate(s *gojsonschema.Schema, name string, v interface{}) error {
	res, err := s.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return fmt.Errorf("%s schema: %w", name, err)
	}
	if res.Valid() {
		return nil
	}
	issues := make([]Issue, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		issues = append(issues, Issue{Field: e.Field(), Message: e.Description()})
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field != issues[j].Field {
			return issues[i].Field < issues[j].Field
		}
		return issues[i].Message < issues[j].Message
	})
	return &ValidationError{Schema: name, Issues: issues}
}

func mustLoadSchema(path string) *gojsonschema.Schema {
	b, err := schemaFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("model: read %s: %v", path, err))
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		panic(fmt.Sprintf("model: compile %s: %v", path, err))
	}
	return s
}
