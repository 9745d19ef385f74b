package normalize

import (
	"strings"

	"resume-tailor/internal/model"
)

// EnforceKeywords guarantees every required keyword appears in the resume
// text. Keywords not found anywhere (case-insensitive substring) are added
// as skills in the bucket the tailored lookup sets assign them, falling back
// to other. Injected keywords are recorded in MissingKeywords; the rest of
// the required set is recorded in MatchedKeywords.
func EnforceKeywords(r model.TailoredResume, required []string) model.TailoredResume {
	out := cloneTailored(r)
	blob := resumeText(r)

	var injected []string
	for _, kw := range uniqueFold(required) {
		if strings.Contains(blob, strings.ToLower(kw)) {
			continue
		}
		injected = append(injected, kw)
		out.Skills = AddSkill(out.Skills, ClassifySkill(kw, PolicyTailored), kw)
	}

	missing := uniqueFold(append(cloneStrings(r.MissingKeywords), injected...))
	var matched []string
	for _, kw := range uniqueFold(append(cloneStrings(r.MatchedKeywords), required...)) {
		if !containsFold(missing, kw) {
			matched = append(matched, kw)
		}
	}
	out.MatchedKeywords = nilIfEmpty(matched)
	out.MissingKeywords = nilIfEmpty(missing)
	return out
}

// resumeText is the lower-cased text of every value a reader of the final
// document would see. Keyword bookkeeping fields are excluded so they cannot
// satisfy coverage on their own.
func resumeText(r model.TailoredResume) string {
	var parts []string
	add := func(s ...string) {
		for _, v := range s {
			if v != "" {
				parts = append(parts, v)
			}
		}
	}
	c := r.Contact
	add(c.Name, c.Email, c.Phone, c.Location, c.LinkedIn, c.GitHub, c.Website, r.Summary)
	for _, e := range r.Experience {
		add(e.Company, e.Title, e.Location, e.StartDate, e.EndDate)
		add(e.Highlights...)
	}
	for _, ed := range r.Education {
		add(ed.Institution, ed.Degree, ed.Field, ed.Location, ed.StartDate, ed.EndDate, ed.GPA)
		add(ed.Highlights...)
	}
	s := r.Skills
	for _, b := range [][]string{s.Technical, s.Languages, s.Frameworks, s.Tools, s.Soft, s.Other} {
		add(b...)
	}
	for _, p := range r.Projects {
		add(p.Name, p.Description, p.URL)
		add(p.Technologies...)
		add(p.Highlights...)
	}
	for _, cert := range r.Certifications {
		add(cert.Name, cert.Issuer, cert.Date, cert.URL)
	}
	for _, cs := range r.CustomSections {
		add(cs.Title)
		add(cs.Items...)
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func cloneTailored(r model.TailoredResume) model.TailoredResume {
	out := r
	out.Skills = copySkills(r.Skills)
	out.MatchedKeywords = cloneStrings(r.MatchedKeywords)
	out.MissingKeywords = cloneStrings(r.MissingKeywords)
	return out
}
