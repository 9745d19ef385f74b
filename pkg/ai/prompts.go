package ai

import (
	"encoding/json"
	"fmt"
)

const jsonOnly = "Return ONLY a single JSON object and NOTHING ELSE: no commentary, no markdown, no code fences."

const resumeShape = `{
  "contact": {"name": "", "email": "", "phone": "", "location": "", "linkedin": "", "github": "", "website": ""},
  "summary": "",
  "experience": [{"company": "", "title": "", "location": "", "startDate": "", "endDate": "", "highlights": [""]}],
  "education": [{"institution": "", "degree": "", "field": "", "location": "", "startDate": "", "endDate": "", "gpa": "", "highlights": [""]}],
  "skills": {"technical": [], "languages": [], "frameworks": [], "tools": [], "soft": [], "other": []},
  "projects": [{"name": "", "description": "", "url": "", "technologies": [], "highlights": [""]}],
  "certifications": [{"name": "", "issuer": "", "date": "", "url": ""}]
}`

var instructions = map[PromptID]string{
	PromptParseResume: `Extract the resume text in "text" into this JSON structure:
` + resumeShape + `
Also return "warnings": an array of short strings describing data you could not find or had to guess.
Copy facts verbatim; do not invent employers, dates or degrees. Leave a field empty when the text does not contain it.
Use endDate "" for a current role. Put programming languages, frameworks, tools and soft skills in their own buckets.`,

	PromptTailorResume: `Rewrite the resume in "resume" for the job description in "jobDescription".
Keep every fact true: do not invent employers, titles, dates or degrees. Reorder and rephrase highlights to match the job.
Work each keyword in "selectedKeywords" into the summary, highlights or skills where it is truthful.
Every project needs 3 or 4 highlights. Leave skills.technical empty and use the other buckets.
You may add "customSections": [{"title": "", "items": [""]}] for awards, volunteering or publications.
Return the resume in this structure plus "matchedKeywords" and "missingKeywords" arrays:
` + resumeShape,

	PromptCoverLetter: `Write a concise cover letter (3 to 4 short paragraphs) for the candidate in "resume" applying to the job in "jobDescription".
Use only facts present in the resume. Return {"coverLetter": "..."} with paragraphs separated by blank lines.`,
}

// buildPrompt renders the full instruction and input for a prompt. A
// non-empty language prepends a LANGUAGE directive.
func buildPrompt(id PromptID, input any, language string) (system, user string, err error) {
	instr, ok := instructions[id]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownPrompt, id)
	}
	system = instr + "\n\n" + jsonOnly
	if language != "" {
		system = fmt.Sprintf("LANGUAGE: write every string value in %s.\n\n", language) + system
	}
	b, err := json.Marshal(input)
	if err != nil {
		return "", "", fmt.Errorf("encode %s input: %w", id, err)
	}
	return system, string(b), nil
}
