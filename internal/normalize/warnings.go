package normalize

import (
	"strings"

	"resume-tailor/internal/model"
)

// Deterministic review warnings, in the order they are emitted.
const (
	WarnMissingName        = "Could not find a name in the resume. Please add your name."
	WarnNoExperience       = "No work experience found. Please review and add your work history if applicable."
	WarnNoEducation        = "No education found. Please review and add your education if applicable."
	WarnIncompleteRole     = "Some experience entries are missing a company or job title. Please review them."
	WarnIncompleteSchool   = "Some education entries are missing an institution or degree. Please review them."
	WarnSectionsDropped    = "Some sections were removed because they could not be validated. Please review your resume."
	schemaWarningPrefix    = "Resume data could not be fully validated: "
	contradictedHedgeToken = "no explicit"
)

// Review is the data-quality verdict on a parsed resume.
type Review struct {
	Warnings    []string `json:"warnings"`
	NeedsReview bool     `json:"needsReview"`
}

type presence struct {
	contact, summary, experience, education, skills, projects, certifications bool
}

func presenceOf(r model.ParsedResume) presence {
	return presence{
		contact:        r.Contact.Name != "" && r.Contact.Name != model.UnknownName,
		summary:        r.Summary != "",
		experience:     len(r.Experience) > 0,
		education:      len(r.Education) > 0,
		skills:         !r.Skills.Empty(),
		projects:       len(r.Projects) > 0,
		certifications: len(r.Certifications) > 0,
	}
}

// gapPhrases maps a presence flag to the "no X" phrasings generators use
// when they report a section as missing.
func gapPhrases(p presence) []struct {
	present bool
	phrases []string
} {
	return []struct {
		present bool
		phrases []string
	}{
		{p.contact, []string{"no contact", "no name"}},
		{p.summary, []string{"no summary", "no professional summary", "no objective"}},
		{p.experience, []string{"no experience", "no work experience", "no employment", "no work history"}},
		{p.education, []string{"no education"}},
		{p.skills, []string{"no skills", "no skill"}},
		{p.projects, []string{"no projects", "no project"}},
		{p.certifications, []string{"no certifications", "no certification"}},
	}
}

// Classify filters the generator's own warnings against what normalization
// actually found, then appends deterministic warnings for known gaps. Only
// deterministic warnings set NeedsReview.
func Classify(r model.ParsedResume, llmWarnings []string) Review {
	p := presenceOf(r)
	anySection := p.summary || p.experience || p.education || p.skills || p.projects

	var kept []string
	for _, w := range nonEmpty(llmWarnings) {
		if contradicted(strings.ToLower(w), p, anySection) {
			continue
		}
		if containsFold(kept, w) {
			continue
		}
		kept = append(kept, w)
	}

	var deterministic []string
	if !p.contact {
		deterministic = append(deterministic, WarnMissingName)
	}
	if !p.experience {
		deterministic = append(deterministic, WarnNoExperience)
	}
	if !p.education {
		deterministic = append(deterministic, WarnNoEducation)
	}
	for _, e := range r.Experience {
		if e.Company == model.UnknownCompany || e.Title == model.UnknownTitle {
			deterministic = append(deterministic, WarnIncompleteRole)
			break
		}
	}
	for _, ed := range r.Education {
		if ed.Institution == model.UnknownInstitution || ed.Degree == model.UnknownDegree {
			deterministic = append(deterministic, WarnIncompleteSchool)
			break
		}
	}

	warnings := kept
	for _, w := range deterministic {
		if !containsFold(warnings, w) {
			warnings = append(warnings, w)
		}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return Review{Warnings: warnings, NeedsReview: len(deterministic) > 0}
}

func contradicted(lw string, p presence, anySection bool) bool {
	if p.contact && strings.Contains(lw, "name not found") {
		return true
	}
	if anySection && strings.Contains(lw, contradictedHedgeToken) {
		return true
	}
	for _, g := range gapPhrases(p) {
		if !g.present {
			continue
		}
		for _, phrase := range g.phrases {
			if strings.Contains(lw, phrase) {
				return true
			}
		}
	}
	return false
}
