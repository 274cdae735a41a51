package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const MaxTitleLen = 200

// ValidationFailed reports a missing or malformed field. It is raised before
// any remote call is made.
type ValidationFailed struct {
	Field   string
	Message string
}

func (e *ValidationFailed) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidateTitle checks that a title is present and not too long.
func ValidateTitle(title string) error {
	t := strings.TrimSpace(title)
	if t == "" {
		return &ValidationFailed{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(t) > MaxTitleLen {
		return &ValidationFailed{Field: "title", Message: "is too long"}
	}
	return nil
}

func ValidateMediaType(t MediaType) error {
	if !t.Valid() {
		return &ValidationFailed{Field: "type", Message: fmt.Sprintf("must be image or video, got %q", t)}
	}
	return nil
}
