package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds fragment ids and block labels.
const maxNameLength = 256

// ValidateFragment validates a fragment identifier from an event stream.
// The empty string is valid and denotes "no fragment".
//
// Validation rules:
//   - Maximum length of 256 characters
//   - No control characters or whitespace
//   - No '-' prefix, which would make prefix map keys ambiguous
func ValidateFragment(fragment string) error {
	if fragment == "" {
		return nil
	}
	if len(fragment) > maxNameLength {
		return New(ErrCodeInvalidFragment, "fragment too long (max %d characters)", maxNameLength)
	}
	for _, r := range fragment {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidFragment, "fragment %q contains whitespace or control characters", fragment)
		}
	}
	if strings.HasPrefix(fragment, "-") {
		return New(ErrCodeInvalidFragment, "fragment %q cannot start with '-'", fragment)
	}
	return nil
}

// blockLabelRegex matches block labels usable as config keys.
var blockLabelRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)

// ValidateBlockLabel validates a block label name. Empty means the default
// sequence and is valid.
func ValidateBlockLabel(label string) error {
	if label == "" {
		return nil
	}
	if len(label) > maxNameLength {
		return New(ErrCodeInvalidInput, "block label too long (max %d characters)", maxNameLength)
	}
	if !blockLabelRegex.MatchString(label) {
		return New(ErrCodeInvalidInput, "invalid block label: %q", label)
	}
	return nil
}

// ValidateDocumentID rejects non-positive document ids. Negative values are
// reserved as markers in transclusion parent lists.
func ValidateDocumentID(id int64) error {
	if id <= 0 {
		return New(ErrCodeInvalidInput, "document id must be positive, got %d", id)
	}
	return nil
}

// ValidatePath validates an input file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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
