package model

// Go models that match the parsed/tailored resume schemas used for validation
// and rendering. Field names are the JSON contract consumed by the editor,
// the templates and the resumes table.

// Sentinel values written in place of missing required fields.
const (
	UnknownName        = "Unknown"
	UnknownCompany     = "Unknown Company"
	UnknownTitle       = "Unknown Title"
	UnknownDate        = "Unknown"
	UnknownInstitution = "Unknown Institution"
	UnknownDegree      = "Unknown Degree"
	UntitledProject    = "Untitled Project"
)

type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Experience is a single role. An empty EndDate means the role is current.
type Experience struct {
	Company    string   `json:"company"`
	Title      string   `json:"title"`
	Location   string   `json:"location,omitempty"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate,omitempty"`
	Highlights []string `json:"highlights"`
}

type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Field       string   `json:"field,omitempty"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	GPA         string   `json:"gpa,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Highlights   []string `json:"highlights"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Skills holds the six skill buckets. Every bucket is always present in JSON.
type Skills struct {
	Technical  []string `json:"technical"`
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Tools      []string `json:"tools"`
	Soft       []string `json:"soft"`
	Other      []string `json:"other"`
}

// Empty reports whether no bucket holds a skill.
func (s Skills) Empty() bool {
	return len(s.Technical)+len(s.Languages)+len(s.Frameworks)+len(s.Tools)+len(s.Soft)+len(s.Other) == 0
}

// CustomSection is a free-form titled list the tailoring prompt may emit
// (volunteering, awards, publications...).
type CustomSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// ParsedResume is the record produced from an uploaded document.
type ParsedResume struct {
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         Skills          `json:"skills"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// TailoredResume is the record produced by rewriting a resume against a job
// description. Summary is always emitted, possibly empty.
type TailoredResume struct {
	Contact         Contact         `json:"contact"`
	Summary         string          `json:"summary"`
	Experience      []Experience    `json:"experience"`
	Education       []Education     `json:"education"`
	Skills          Skills          `json:"skills"`
	Projects        []Project       `json:"projects,omitempty"`
	Certifications  []Certification `json:"certifications,omitempty"`
	CustomSections  []CustomSection `json:"customSections,omitempty"`
	MatchedKeywords []string        `json:"matchedKeywords,omitempty"`
	MissingKeywords []string        `json:"missingKeywords,omitempty"`
}
