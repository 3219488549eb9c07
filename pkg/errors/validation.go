package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds variable and model names.
const maxNameLength = 128

// variableNameRegex matches names that survive DOT output and ledger keys.
var variableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// ValidateVariableName validates a measured variable name.
//
// Variable names become node identities, DOT identifiers and parts of
// canonical graph keys, so the rules are strict:
//   - No empty names
//   - Maximum length of 128 characters
//   - Must start with a letter or underscore
//   - Only letters, digits, '_', '.', '-' afterwards
func ValidateVariableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModel, "variable name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidModel, "variable name too long (max %d characters)", maxNameLength)
	}
	if !variableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidModel, "invalid variable name: %q", name)
	}
	return nil
}

// ValidateModelName validates the display name of a local model.
// Model names are free text but must be printable.
func ValidateModelName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModel, "model name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidModel, "model name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModel, "model name contains invalid control characters")
		}
	}
	return nil
}

// ValidateCacheURL validates a remote cache URL.
// Only redis://, rediss:// and mongodb(+srv):// schemes are accepted.
func ValidateCacheURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "cache URL cannot be empty")
	}
	for _, scheme := range []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "cache URL must use redis, rediss, mongodb or mongodb+srv scheme")
}
