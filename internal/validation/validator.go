// Package validation provides input validation and name sanitization for
// prompt titles and folder names before any store mutation happens.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/promptdock/promptdock/internal/errors"
)

// illegalNameChars matches the characters that cannot appear in a file or
// folder name on the supported platforms.
var illegalNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// whitespaceRuns matches one or more consecutive whitespace characters.
var whitespaceRuns = regexp.MustCompile(`\s+`)

// SanitizeTitle turns a human title into a filesystem-safe base name.
// Each illegal character becomes an underscore, then every whitespace run
// collapses to a single underscore. Pure and deterministic; callers append
// the file extension themselves.
func SanitizeTitle(title string) string {
	clean := illegalNameChars.ReplaceAllString(title, "_")
	return whitespaceRuns.ReplaceAllString(clean, "_")
}

// ValidateTitle checks that a prompt title is usable. The title itself may
// contain illegal filename characters (they are sanitized on save), but it
// must not be blank.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.ValidationError("prompt title cannot be empty")
	}
	return nil
}

// ValidateFolderName checks that a folder name is non-empty and contains no
// illegal characters. Folder names are used verbatim as directory names, so
// unlike titles they are rejected rather than sanitized.
func ValidateFolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.ValidationError("folder name cannot be empty")
	}
	if illegalNameChars.MatchString(name) {
		return errors.ValidationError(
			fmt.Sprintf("folder name %q cannot contain any of: \\ / : * ? \" < > |", name))
	}
	return nil
}
