package models

import (
	"strings"

	"bugfinder/internal/utils"
)

// CodeSnippet is the body of POST /find-bug.
type CodeSnippet struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// implements the Validator interface; the first failing check wins
func (s *CodeSnippet) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return &ErrorResponse{
			Code:   ErrCodeEmptyCode,
			Detail: "Code is empty.",
		}
	}

	if !SupportedLanguages[utils.NormalizeLanguage(s.Language)] {
		return &ErrorResponse{
			Code:   ErrCodeUnsupportedLanguage,
			Detail: "Only Python is supported right now.",
		}
	}

	if strings.Count(s.Code, "\n") > MaxCodeNewlines {
		return &ErrorResponse{
			Code:   ErrCodeCodeTooLong,
			Detail: "Code exceeds 30 lines.",
		}
	}

	return nil
}
