package normalize

import (
	"errors"
	"fmt"

	"resume-tailor/internal/model"
)

// ParseResult is the outcome of normalizing a freshly parsed upload.
type ParseResult struct {
	Resume      model.ParsedResume `json:"resume"`
	Warnings    []string           `json:"warnings"`
	NeedsReview bool               `json:"needsReview"`
}

// NormalizeParsedResume normalizes parser/LLM output for an uploaded resume.
// It never fails: when the normalized record still violates the schema, the
// violations are reported as warnings and a minimal record (contact, skills
// and summary only) is returned for review.
func NormalizeParsedResume(raw model.RawResume) ParseResult {
	r := model.ParsedResume{
		Contact:        SanitizeContact(raw.Contact),
		Summary:        text(raw.Summary),
		Experience:     NormalizeExperience(raw.Experience),
		Education:      NormalizeEducation(raw.Education),
		Skills:         Bucketize(raw.Skills, PolicyParsed),
		Projects:       normalizeProjects(raw.Projects),
		Certifications: normalizeCertifications(raw.Certifications),
	}

	review := Classify(r, raw.Warnings)
	res := ParseResult{Resume: r, Warnings: review.Warnings, NeedsReview: review.NeedsReview}

	if err := model.ValidateParsed(r); err != nil {
		res.Warnings = append(res.Warnings, schemaWarnings(err)...)
		res.Warnings = append(res.Warnings, WarnSectionsDropped)
		res.NeedsReview = true
		res.Resume = fallbackRecord(r)
	}
	return res
}

// fallbackRecord keeps contact, summary and skills. The summary carries the
// only length limit among them, so it is shed when the record is still
// invalid.
func fallbackRecord(r model.ParsedResume) model.ParsedResume {
	out := model.ParsedResume{
		Contact:    r.Contact,
		Summary:    r.Summary,
		Experience: []model.Experience{},
		Education:  []model.Education{},
		Skills:     r.Skills,
	}
	if model.ValidateParsed(out) != nil {
		out.Summary = ""
	}
	return out
}

// NormalizeTailoredResume normalizes a tailoring response and enforces
// coverage of the selected keywords. A record that still violates the
// tailored schema is returned as an error wrapping *model.ValidationError.
func NormalizeTailoredResume(raw model.RawResume, selectedKeywords []string) (model.TailoredResume, error) {
	r := model.TailoredResume{
		Contact:         SanitizeContact(raw.Contact),
		Summary:         text(raw.Summary),
		Experience:      NormalizeExperience(raw.Experience),
		Education:       NormalizeEducation(raw.Education),
		Skills:          Bucketize(raw.Skills, PolicyTailored),
		Projects:        normalizeProjects(raw.Projects),
		Certifications:  normalizeCertifications(raw.Certifications),
		CustomSections:  normalizeCustomSections(raw.CustomSections),
		MatchedKeywords: nilIfEmpty(uniqueFold(raw.MatchedKeywords)),
		MissingKeywords: nilIfEmpty(uniqueFold(raw.MissingKeywords)),
	}
	r = EnforceKeywords(r, selectedKeywords)

	if err := model.ValidateTailored(r); err != nil {
		return model.TailoredResume{}, fmt.Errorf("normalize tailored resume: %w", err)
	}
	return r, nil
}

func normalizeProjects(list []model.RawProject) []model.Project {
	if len(list) == 0 {
		return nil
	}
	out := make([]model.Project, 0, len(list))
	for _, raw := range list {
		out = append(out, EnforceHighlights(raw))
	}
	return out
}

// normalizeCertifications drops entries without a name; there is nothing to
// display for them.
func normalizeCertifications(list []model.RawCertification) []model.Certification {
	var out []model.Certification
	for _, raw := range list {
		c := model.Certification{
			Name:   text(raw.Name),
			Issuer: text(raw.Issuer),
			Date:   optText(raw.Date),
			URL:    sanitizeURL(text(raw.URL)),
		}
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func normalizeCustomSections(list []model.RawCustomSection) []model.CustomSection {
	var out []model.CustomSection
	for _, raw := range list {
		cs := model.CustomSection{Title: text(raw.Title), Items: nonEmpty(raw.Items)}
		if cs.Title == "" {
			continue
		}
		out = append(out, cs)
	}
	return out
}

func schemaWarnings(err error) []string {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return []string{schemaWarningPrefix + err.Error()}
	}
	out := make([]string, 0, len(verr.Issues))
	for _, i := range verr.Issues {
		out = append(out, schemaWarningPrefix+i.String())
	}
	return out
}
