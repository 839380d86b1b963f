package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds node IDs and option keys.
const maxIdentifierLength = 256

// ValidateNodeID validates a node identifier.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or whitespace at either end
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNode, "node ID cannot be empty")
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidNode, "node ID too long (max %d characters)", maxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNode, "node ID contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidNode, "node ID cannot start or end with whitespace: %q", id)
	}

	return nil
}

// optionKeyRegex matches option keys as used by rule tables (e.g. "hw_accel", "res_4k").
var optionKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateOptionKey validates an option key referenced by a rule.
func ValidateOptionKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidRule, "option key cannot be empty")
	}

	if len(key) > maxIdentifierLength {
		return New(ErrCodeInvalidRule, "option key too long (max %d characters)", maxIdentifierLength)
	}

	if !optionKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidRule, "invalid option key: %q", key)
	}

	return nil
}

// ValidatePath validates a file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
