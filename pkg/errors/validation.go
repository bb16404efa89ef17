package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxPathLength = 500

// ValidateOutputPath rejects output paths that are empty, longer than 500
// bytes, or contain control characters or backslashes.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if strings.IndexFunc(path, unicode.IsControl) >= 0 {
		return New(ErrCodeInvalidPath, "path contains control characters")
	}
	if strings.ContainsRune(path, '\\') {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidateMapID checks that id is a canonical 36-character UUID string, the
// form the archive assigns.
func ValidateMapID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "map id cannot be empty")
	}
	if len(id) != 36 {
		return New(ErrCodeInvalidInput, "invalid map id: %q", id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid map id: %q", id)
	}
	return nil
}
