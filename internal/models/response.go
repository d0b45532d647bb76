package models

// BugReport is the structured result returned to the caller.
type BugReport struct {
	Language    string  `json:"language"`
	BugType     string  `json:"bug_type"`
	Description string  `json:"description"`
	Suggestion  *string `json:"suggestion"`
}

// the three model-produced fields of a report, before language is attached
type BugReportFields struct {
	BugType     string
	Description string
	Suggestion  *string
}

// WithLanguage builds the final report for the given snippet language.
func (f BugReportFields) WithLanguage(language string) *BugReport {
	return &BugReport{
		Language:    language,
		BugType:     f.BugType,
		Description: f.Description,
		Suggestion:  f.Suggestion,
	}
}

// raw output of a single provider call
type GenerationResponse struct {
	Content  string             `json:"content"`
	Metadata GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	ModelVersion   string `json:"model_version,omitempty"`
}

// uniform error responses
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Detail
}

// StringPtr is a small helper for optional string fields.
func StringPtr(s string) *string {
	return &s
}
