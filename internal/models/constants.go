package models

// only python is accepted right now (lowercase)
var SupportedLanguages = map[string]bool{
	"python": true,
}

// longest accepted snippet, counted in newline characters
const MaxCodeNewlines = 30

// Mode selects the tone of generated text and of the canned sample descriptions.
type Mode string

const (
	ModeDeveloperFriendly Mode = "developer-friendly"
	ModeCasual            Mode = "casual"

	DefaultMode = ModeDeveloperFriendly
)

// contains all valid modes
var ValidModes = map[Mode]bool{
	ModeDeveloperFriendly: true,
	ModeCasual:            true,
}

// bug_type labels produced by the service itself; model labels are free text
const (
	BugTypeUnknown   = "Unknown"
	BugTypeMockedBug = "Mocked Bug"
)

// error codes carried in ErrorResponse.Code
const (
	ErrCodeInvalidJSON         = "InvalidJSON"
	ErrCodeEmptyCode           = "EmptyCode"
	ErrCodeUnsupportedLanguage = "UnsupportedLanguage"
	ErrCodeCodeTooLong         = "CodeTooLong"
	ErrCodeInvalidMode         = "InvalidMode"
	ErrCodeRateLimited         = "RateLimited"
	ErrCodeInternal            = "InternalError"
)

func ValidModesList() []string {
	return []string{string(ModeDeveloperFriendly), string(ModeCasual)}
}

// ParseMode maps a raw query value onto a Mode; empty means DefaultMode.
func ParseMode(raw string) (Mode, bool) {
	if raw == "" {
		return DefaultMode, true
	}
	mode := Mode(raw)
	if !ValidModes[mode] {
		return "", false
	}
	return mode, true
}
