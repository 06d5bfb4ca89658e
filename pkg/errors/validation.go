package errors

import (
	"strings"
	"unicode"
)

// MaxDatasetNameLength is the longest dataset name accepted, in bytes.
const MaxDatasetNameLength = 128

// ValidateDatasetName validates a dataset name for safety and correctness.
// Dataset names become both an input filename and the prefix of output
// filenames, so they must be plain basenames.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - No hidden files (leading dot)
//   - Maximum length of 128 characters
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "dataset name cannot be empty")
	}

	if len(name) > MaxDatasetNameLength {
		return New(ErrCodeInvalidName, "dataset name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "dataset name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "dataset name cannot contain path separators: %q", name)
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "dataset name cannot contain %q", "..")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "dataset name cannot be a hidden file: %q", name)
	}

	return nil
}

// ValidatePath validates a directory path given on the command line or in a config file.
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
