package bugreport

import (
	"encoding/json"
	"fmt"
	"strings"

	"bugfinder/internal/models"
	"bugfinder/internal/utils"
)

// fixed record returned whenever the model output cannot be decoded
const (
	FallbackDescription = "Could not parse LLM response."
	FallbackSuggestion  = "Check the prompt or model output format."
)

// ParseError describes why a model response could not be decoded.
type ParseError struct {
	Reason   string
	Response string
	Err      error
}

func (e *ParseError) Error() string {
	msg := "parse analysis: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + fmt.Sprintf(" (response: %q)", utils.Truncate(e.Response, 200))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// wire shape of the analysis reply; Suggestion stays raw so a missing key
// can be told apart from an explicit null
type analysisReply struct {
	BugType     *string         `json:"bug_type"`
	Description *string         `json:"description"`
	Suggestion  json.RawMessage `json:"suggestion"`
}

// Fallback returns a fresh copy of the fixed "Unknown" record.
func Fallback() models.BugReportFields {
	return models.BugReportFields{
		BugType:     models.BugTypeUnknown,
		Description: FallbackDescription,
		Suggestion:  models.StringPtr(FallbackSuggestion),
	}
}

// ParseAnalysis strictly decodes a model reply into report fields.
// A surrounding markdown code fence is tolerated; anything else that is not
// a single JSON object with the three fields is a *ParseError.
func ParseAnalysis(text string) (models.BugReportFields, error) {
	body := utils.StripFences(text)
	if body == "" {
		return models.BugReportFields{}, &ParseError{Reason: "empty response", Response: text}
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return models.BugReportFields{}, &ParseError{Reason: "invalid JSON", Response: text, Err: err}
	}

	if reply.BugType == nil || strings.TrimSpace(*reply.BugType) == "" {
		return models.BugReportFields{}, &ParseError{Reason: "missing bug_type", Response: text}
	}
	if reply.Description == nil || strings.TrimSpace(*reply.Description) == "" {
		return models.BugReportFields{}, &ParseError{Reason: "missing description", Response: text}
	}
	if reply.Suggestion == nil {
		return models.BugReportFields{}, &ParseError{Reason: "missing suggestion", Response: text}
	}

	fields := models.BugReportFields{
		BugType:     *reply.BugType,
		Description: *reply.Description,
	}
	if string(reply.Suggestion) != "null" {
		var suggestion string
		if err := json.Unmarshal(reply.Suggestion, &suggestion); err != nil {
			return models.BugReportFields{}, &ParseError{Reason: "suggestion is not a string", Response: text, Err: err}
		}
		fields.Suggestion = &suggestion
	}

	return fields, nil
}

// Parse never fails: any ParseError yields the Fallback record.
func Parse(text string) models.BugReportFields {
	fields, err := ParseAnalysis(text)
	if err != nil {
		return Fallback()
	}
	return fields
}
