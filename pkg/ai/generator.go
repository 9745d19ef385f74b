package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// PromptID names one structured-generation task.
type PromptID string

const (
	PromptParseResume  PromptID = "parse_resume"
	PromptTailorResume PromptID = "tailor_resume"
	PromptCoverLetter  PromptID = "cover_letter"
)

// Generator produces a JSON object for a prompt and its input. The object is
// untrusted: callers run it through normalization before use.
type Generator interface {
	GenerateStructured(ctx context.Context, prompt PromptID, input any) (json.RawMessage, error)
}

// ErrEmptyResponse is returned when the model answered with no usable JSON.
var ErrEmptyResponse = errors.New("ai: empty response")

// ErrUnknownPrompt is returned for a PromptID with no instructions.
var ErrUnknownPrompt = errors.New("ai: unknown prompt")

// UpstreamError is a transport failure or non-200 answer from the model
// provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// extractObject returns the JSON object in s. Models sometimes wrap it in
// prose or code fences, so on a failed parse the outermost {...} is tried.
func extractObject(s string) (json.RawMessage, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err == nil {
		return json.RawMessage(s), nil
	}
	start := -1
	for i, r := range s {
		if r == '{' {
			start = i
			break
		}
	}
	end := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '}' {
			end = i
			break
		}
	}
	if start >= 0 && end > start {
		sub := s[start : end+1]
		if err := json.Unmarshal([]byte(sub), &probe); err == nil {
			return json.RawMessage(sub), nil
		}
	}
	return nil, fmt.Errorf("%w: model returned non-json content", ErrEmptyResponse)
}
