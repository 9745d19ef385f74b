package normalize

import (
	"strings"

	"resume-tailor/internal/model"
)

// Policy selects the bucketing rules for a pipeline.
type Policy string

const (
	PolicyParsed   Policy = "parsed"
	PolicyTailored Policy = "tailored"
)

// Bucket names a skill bucket.
type Bucket string

const (
	BucketTechnical  Bucket = "technical"
	BucketLanguages  Bucket = "languages"
	BucketFrameworks Bucket = "frameworks"
	BucketTools      Bucket = "tools"
	BucketSoft       Bucket = "soft"
	BucketOther      Bucket = "other"
)

// mustHaveLanguages are always listed under languages on parsed resumes.
var mustHaveLanguages = []string{"TypeScript", "SQL", "Python", "JavaScript", "C++", "C"}

func setOf(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

var (
	languageSet = setOf("javascript", "typescript", "python", "java", "c", "c++", "c#", "go", "golang",
		"ruby", "php", "swift", "kotlin", "rust", "scala", "sql", "bash", "shell")
	frameworkSet = setOf("react", "next.js", "nextjs", "angular", "vue", "svelte", "tailwind", "tailwind css",
		"fastapi", "django", "flask", "spring", "node.js", "nodejs", "express", "nestjs")
	toolSet = setOf("git", "github", "git workflow", "docker", "firebase", "firestore", "firebase admin sdk",
		"google recaptcha", "ci/cd", "serverless", "serverless api routes", "restful apis", "api integrations",
		"postgresql", "nosql")
	parsedToolSet = union(toolSet, setOf("sql"))
)

// lookupTable is the single source of the membership sets, keyed by policy.
// Sets are consulted in slice order.
var lookupTable = map[Policy][]struct {
	bucket Bucket
	set    map[string]struct{}
}{
	PolicyParsed: {
		{BucketLanguages, languageSet},
		{BucketFrameworks, frameworkSet},
		{BucketTools, parsedToolSet},
	},
	PolicyTailored: {
		{BucketLanguages, languageSet},
		{BucketFrameworks, frameworkSet},
		{BucketTools, toolSet},
	},
}

func union(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func skillKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func inSet(policy Policy, b Bucket, key string) bool {
	for _, e := range lookupTable[policy] {
		if e.bucket == b {
			_, ok := e.set[key]
			return ok
		}
	}
	return false
}

// ClassifySkill returns the bucket a free-text skill belongs to under the
// policy, or other when no membership set knows it.
func ClassifySkill(skill string, policy Policy) Bucket {
	key := skillKey(skill)
	for _, e := range lookupTable[policy] {
		if _, ok := e.set[key]; ok {
			return e.bucket
		}
	}
	return BucketOther
}

// route decides where an item from the given source bucket goes. Soft skills
// are never re-bucketed. A categorized item whose own bucket's set knows it
// stays put; otherwise the first matching set wins. Unknown items keep their
// source bucket, except technical ones on the tailored path, which go to other.
func route(src Bucket, skill string, policy Policy) Bucket {
	if src == BucketSoft {
		return BucketSoft
	}
	key := skillKey(skill)
	if src != BucketTechnical && src != BucketOther && inSet(policy, src, key) {
		return src
	}
	if b := ClassifySkill(skill, policy); b != BucketOther {
		return b
	}
	if src == BucketTechnical && policy == PolicyTailored {
		return BucketOther
	}
	return src
}

// Bucketize files every raw skill into its canonical bucket, trimming and
// de-duplicating case-insensitively with first-seen casing. Under the
// tailored policy technical comes back empty; under the parsed policy the
// must-have languages are always present.
func Bucketize(raw model.RawSkills, policy Policy) model.Skills {
	acc := newSkillAccumulator()
	sources := []struct {
		bucket Bucket
		items  model.StringList
	}{
		{BucketLanguages, raw.Languages},
		{BucketFrameworks, raw.Frameworks},
		{BucketTools, raw.Tools},
		{BucketTechnical, raw.Technical},
		{BucketSoft, raw.Soft},
		{BucketOther, raw.Other},
	}
	for _, src := range sources {
		for _, item := range src.items {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			acc.add(route(src.bucket, item, policy), item)
		}
	}
	if policy == PolicyParsed {
		for _, lang := range mustHaveLanguages {
			acc.add(BucketLanguages, lang)
		}
	}
	return acc.skills()
}

// AddSkill appends skill to bucket b of s unless the bucket already holds it
// case-insensitively. s is not modified.
func AddSkill(s model.Skills, b Bucket, skill string) model.Skills {
	out := copySkills(s)
	list := bucketRef(&out, b)
	if containsFold(*list, skill) {
		return out
	}
	*list = append(*list, skill)
	return out
}

type skillAccumulator struct {
	buckets map[Bucket][]string
	seen    map[Bucket]map[string]struct{}
}

func newSkillAccumulator() *skillAccumulator {
	return &skillAccumulator{buckets: map[Bucket][]string{}, seen: map[Bucket]map[string]struct{}{}}
}

func (a *skillAccumulator) add(b Bucket, item string) {
	key := skillKey(item)
	if a.seen[b] == nil {
		a.seen[b] = map[string]struct{}{}
	}
	if _, dup := a.seen[b][key]; dup {
		return
	}
	a.seen[b][key] = struct{}{}
	a.buckets[b] = append(a.buckets[b], item)
}

func (a *skillAccumulator) skills() model.Skills {
	get := func(b Bucket) []string {
		if v := a.buckets[b]; v != nil {
			return v
		}
		return []string{}
	}
	return model.Skills{
		Technical:  get(BucketTechnical),
		Languages:  get(BucketLanguages),
		Frameworks: get(BucketFrameworks),
		Tools:      get(BucketTools),
		Soft:       get(BucketSoft),
		Other:      get(BucketOther),
	}
}

func bucketRef(s *model.Skills, b Bucket) *[]string {
	switch b {
	case BucketTechnical:
		return &s.Technical
	case BucketLanguages:
		return &s.Languages
	case BucketFrameworks:
		return &s.Frameworks
	case BucketTools:
		return &s.Tools
	case BucketSoft:
		return &s.Soft
	default:
		return &s.Other
	}
}

func copySkills(s model.Skills) model.Skills {
	return model.Skills{
		Technical:  cloneStrings(s.Technical),
		Languages:  cloneStrings(s.Languages),
		Frameworks: cloneStrings(s.Frameworks),
		Tools:      cloneStrings(s.Tools),
		Soft:       cloneStrings(s.Soft),
		Other:      cloneStrings(s.Other),
	}
}
