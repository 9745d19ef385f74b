package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-tailor/internal/model"
)

func TestClassifySkill(t *testing.T) {
	tests := []struct {
		skill  string
		policy Policy
		want   Bucket
	}{
		{"Go", PolicyTailored, BucketLanguages},
		{"  TypeScript ", PolicyTailored, BucketLanguages},
		{"React", PolicyTailored, BucketFrameworks},
		{"Tailwind CSS", PolicyParsed, BucketFrameworks},
		{"Docker", PolicyTailored, BucketTools},
		{"CI/CD", PolicyParsed, BucketTools},
		{"SQL", PolicyTailored, BucketLanguages},
		{"SQL", PolicyParsed, BucketLanguages},
		{"Kubernetes", PolicyTailored, BucketOther},
		{"", PolicyParsed, BucketOther},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy)+"/"+tt.skill, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySkill(tt.skill, tt.policy))
		})
	}
}

func TestBucketizeTailoredDrainsTechnical(t *testing.T) {
	got := Bucketize(model.RawSkills{Technical: model.StringList{"React", "Go"}}, PolicyTailored)

	assert.Empty(t, got.Technical)
	assert.NotNil(t, got.Technical)
	assert.Equal(t, []string{"React"}, got.Frameworks)
	assert.Equal(t, []string{"Go"}, got.Languages)
}

func TestBucketizeTailoredUnknownTechnicalGoesToOther(t *testing.T) {
	got := Bucketize(model.RawSkills{
		Technical: model.StringList{"Kubernetes", "Terraform"},
		Languages: model.StringList{"Haskell"},
	}, PolicyTailored)

	assert.Empty(t, got.Technical)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, got.Other)
	assert.Equal(t, []string{"Haskell"}, got.Languages)
}

func TestBucketizeDeduplicatesCaseInsensitively(t *testing.T) {
	got := Bucketize(model.RawSkills{
		Frameworks: model.StringList{"React", " "},
		Technical:  model.StringList{"react", "REACT", "Docker"},
		Tools:      model.StringList{"docker"},
		Soft:       model.StringList{"Leadership", "leadership"},
	}, PolicyTailored)

	assert.Equal(t, []string{"React"}, got.Frameworks)
	assert.Equal(t, []string{"docker"}, got.Tools)
	assert.Equal(t, []string{"Leadership"}, got.Soft)
}

func TestBucketizeMovesMisfiledSkills(t *testing.T) {
	got := Bucketize(model.RawSkills{
		Languages: model.StringList{"Docker"},
		Tools:     model.StringList{"Python"},
		Other:     model.StringList{"Vue", "Public speaking"},
	}, PolicyTailored)

	assert.Equal(t, []string{"Python"}, got.Languages)
	assert.Equal(t, []string{"Vue"}, got.Frameworks)
	assert.Equal(t, []string{"Docker"}, got.Tools)
	assert.Equal(t, []string{"Public speaking"}, got.Other)
}

func TestBucketizeParsedAddsMustHaveLanguages(t *testing.T) {
	got := Bucketize(model.RawSkills{Languages: model.StringList{"python", "Rust"}}, PolicyParsed)

	assert.Equal(t, []string{"python", "Rust", "TypeScript", "SQL", "JavaScript", "C++", "C"}, got.Languages)
}

func TestBucketizeParsedKeepsTechnical(t *testing.T) {
	got := Bucketize(model.RawSkills{Technical: model.StringList{"Kubernetes", "Go"}}, PolicyParsed)

	assert.Equal(t, []string{"Kubernetes"}, got.Technical)
	assert.Contains(t, got.Languages, "Go")
}

func TestBucketizeSQLUnderToolsDependsOnPolicy(t *testing.T) {
	raw := model.RawSkills{Tools: model.StringList{"SQL"}}

	parsed := Bucketize(raw, PolicyParsed)
	assert.Equal(t, []string{"SQL"}, parsed.Tools)

	tailored := Bucketize(raw, PolicyTailored)
	assert.Empty(t, tailored.Tools)
	assert.Equal(t, []string{"SQL"}, tailored.Languages)
}

func TestBucketizeEmptyInputHasNonNilBuckets(t *testing.T) {
	got := Bucketize(model.RawSkills{}, PolicyTailored)

	assert.True(t, got.Empty())
	for _, b := range [][]string{got.Technical, got.Languages, got.Frameworks, got.Tools, got.Soft, got.Other} {
		assert.NotNil(t, b)
	}
}

func TestAddSkillDoesNotMutateInput(t *testing.T) {
	in := model.Skills{Other: []string{"Kubernetes"}}

	out := AddSkill(in, BucketOther, "Terraform")
	again := AddSkill(out, BucketOther, "kubernetes")

	assert.Equal(t, []string{"Kubernetes"}, in.Other)
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, out.Other)
	assert.Equal(t, out.Other, again.Other)
}
