package normalize

import (
	"strings"

	"resume-tailor/internal/model"
)

// optText is text() that also treats the literal "null"/"undefined" an LLM
// sometimes writes as absent.
func optText(o model.OptString) string {
	v := text(o)
	switch strings.ToLower(v) {
	case "null", "undefined", "none":
		return ""
	}
	return v
}

func locationText(o model.OptString) string {
	v := text(o)
	if strings.EqualFold(v, "unknown") {
		return ""
	}
	return v
}

func orDefault(v, sentinel string) string {
	if v == "" {
		return sentinel
	}
	return v
}

// NormalizeExperience defaults missing required fields to sentinels, drops
// absent dates and collapses entries sharing company, title and highlights,
// keeping the most complete variant at the position of the first one.
func NormalizeExperience(list []model.RawExperience) []model.Experience {
	out := make([]model.Experience, 0, len(list))
	index := make(map[string]int, len(list))
	for _, raw := range list {
		e := model.Experience{
			Company:    orDefault(text(raw.Company), model.UnknownCompany),
			Title:      orDefault(text(raw.Title), model.UnknownTitle),
			Location:   locationText(raw.Location),
			StartDate:  orDefault(optText(raw.StartDate), model.UnknownDate),
			EndDate:    optText(raw.EndDate),
			Highlights: nonEmpty(raw.Highlights),
		}
		key := experienceKey(e)
		if i, ok := index[key]; ok {
			if completeness(e) > completeness(out[i]) {
				out[i] = e
			}
			continue
		}
		index[key] = len(out)
		out = append(out, e)
	}
	return out
}

func experienceKey(e model.Experience) string {
	return e.Company + "::" + e.Title + "::" + strings.Join(e.Highlights, "|")
}

// completeness scores how many non-sentinel fields an entry carries.
func completeness(e model.Experience) int {
	score := 0
	if e.Company != model.UnknownCompany {
		score += 2
	}
	if e.Title != model.UnknownTitle {
		score += 2
	}
	if e.StartDate != model.UnknownDate {
		score++
	}
	if e.EndDate != "" {
		score++
	}
	if e.Location != "" {
		score++
	}
	return score
}

// NormalizeEducation defaults institution and degree and drops empty
// optional fields. Entries are not de-duplicated.
func NormalizeEducation(list []model.RawEducation) []model.Education {
	out := make([]model.Education, 0, len(list))
	for _, raw := range list {
		ed := model.Education{
			Institution: orDefault(text(raw.Institution), model.UnknownInstitution),
			Degree:      orDefault(text(raw.Degree), model.UnknownDegree),
			Field:       text(raw.Field),
			Location:    locationText(raw.Location),
			StartDate:   optText(raw.StartDate),
			EndDate:     optText(raw.EndDate),
			GPA:         optText(raw.GPA),
		}
		if hl := nonEmpty(raw.Highlights); len(hl) > 0 {
			ed.Highlights = hl
		}
		out = append(out, ed)
	}
	return out
}
