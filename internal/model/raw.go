package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Raw* types mirror the canonical records but accept whatever shape an LLM or
// a document parser produced. Nothing here is trusted: every field is
// optional and decoding never fails on a wrongly-typed leaf. The normalize
// package maps these field by field into the canonical types.

// OptString is a string leaf decoded from untrusted JSON. Numbers and
// booleans are kept as their JSON text; null, objects and arrays leave it
// unset.
type OptString struct {
	Value string
	Set   bool
}

// Str returns a set OptString.
func Str(s string) OptString { return OptString{Value: s, Set: true} }

func (o *OptString) UnmarshalJSON(b []byte) error {
	*o = OptString{}
	v, err := decodeAny(b)
	if err != nil {
		return nil
	}
	if s, ok := scalarText(v); ok {
		*o = OptString{Value: s, Set: true}
	}
	return nil
}

func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// StringList is a list of string leaves. A bare string decodes as a single
// element; non-scalar elements are dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	*l = nil
	v, err := decodeAny(b)
	if err != nil {
		return nil
	}
	switch t := v.(type) {
	case []interface{}:
		out := make(StringList, 0, len(t))
		for _, it := range t {
			if s, ok := scalarText(it); ok {
				out = append(out, s)
			}
		}
		*l = out
	default:
		if s, ok := scalarText(t); ok {
			*l = StringList{s}
		}
	}
	return nil
}

// List decodes an array of objects, skipping elements that do not decode. A
// single object decodes as a one-element list.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	*l = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return nil
		}
		out := make(List[T], 0, len(items))
		for _, it := range items {
			it = bytes.TrimSpace(it)
			if len(it) == 0 || it[0] != '{' {
				continue
			}
			var v T
			if err := json.Unmarshal(it, &v); err != nil {
				continue
			}
			out = append(out, v)
		}
		*l = out
	case '{':
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			*l = List[T]{v}
		}
	}
	return nil
}

type RawContact struct {
	Name     OptString `json:"name"`
	Email    OptString `json:"email"`
	Phone    OptString `json:"phone"`
	Location OptString `json:"location"`
	LinkedIn OptString `json:"linkedin"`
	GitHub   OptString `json:"github"`
	Website  OptString `json:"website"`
}

// UnmarshalJSON accepts an object, or a bare string taken as the name.
func (c *RawContact) UnmarshalJSON(b []byte) error {
	*c = RawContact{}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain RawContact
		var p plain
		if err := json.Unmarshal(b, &p); err == nil {
			*c = RawContact(p)
		}
		return nil
	}
	var name OptString
	_ = name.UnmarshalJSON(b)
	c.Name = name
	return nil
}

type RawExperience struct {
	Company    OptString  `json:"company"`
	Title      OptString  `json:"title"`
	Location   OptString  `json:"location"`
	StartDate  OptString  `json:"startDate"`
	EndDate    OptString  `json:"endDate"`
	Highlights StringList `json:"highlights"`
}

type RawEducation struct {
	Institution OptString  `json:"institution"`
	Degree      OptString  `json:"degree"`
	Field       OptString  `json:"field"`
	Location    OptString  `json:"location"`
	StartDate   OptString  `json:"startDate"`
	EndDate     OptString  `json:"endDate"`
	GPA         OptString  `json:"gpa"`
	Highlights  StringList `json:"highlights"`
}

type RawProject struct {
	Name         OptString  `json:"name"`
	Description  OptString  `json:"description"`
	URL          OptString  `json:"url"`
	Technologies StringList `json:"technologies"`
	Highlights   StringList `json:"highlights"`
}

type RawCertification struct {
	Name   OptString `json:"name"`
	Issuer OptString `json:"issuer"`
	Date   OptString `json:"date"`
	URL    OptString `json:"url"`
}

type RawSkills struct {
	Technical  StringList `json:"technical"`
	Languages  StringList `json:"languages"`
	Frameworks StringList `json:"frameworks"`
	Tools      StringList `json:"tools"`
	Soft       StringList `json:"soft"`
	Other      StringList `json:"other"`
}

// UnmarshalJSON accepts the bucket object, or a flat list which lands in
// Technical for the bucketizer to sort out.
func (s *RawSkills) UnmarshalJSON(b []byte) error {
	*s = RawSkills{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if b[0] == '{' {
		type plain RawSkills
		var p plain
		if err := json.Unmarshal(b, &p); err == nil {
			*s = RawSkills(p)
		}
		return nil
	}
	var flat StringList
	_ = flat.UnmarshalJSON(b)
	s.Technical = flat
	return nil
}

type RawCustomSection struct {
	Title OptString  `json:"title"`
	Items StringList `json:"items"`
}

// RawResume is the untrusted input to both normalization pipelines. Warnings
// carries the generator's self-reported data gaps (parse path only).
type RawResume struct {
	Contact         RawContact             `json:"contact"`
	Summary         OptString              `json:"summary"`
	Experience      List[RawExperience]    `json:"experience"`
	Education       List[RawEducation]     `json:"education"`
	Skills          RawSkills              `json:"skills"`
	Projects        List[RawProject]       `json:"projects"`
	Certifications  List[RawCertification] `json:"certifications"`
	CustomSections  List[RawCustomSection] `json:"customSections"`
	MatchedKeywords StringList             `json:"matchedKeywords"`
	MissingKeywords StringList             `json:"missingKeywords"`
	Warnings        StringList             `json:"warnings"`
}

// DecodeRaw decodes an untrusted JSON object. Only a document that is not a
// JSON object at all is an error.
func DecodeRaw(b []byte) (RawResume, error) {
	var raw RawResume
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return raw, fmt.Errorf("raw resume: expected a JSON object")
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return raw, fmt.Errorf("raw resume: %w", err)
	}
	return raw, nil
}

func decodeAny(b []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func scalarText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
