package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// Departments is the closed set of owning departments.
var Departments = []string{"Audio", "Lighting", "Video", "Power", "Rigging", "Misc"}

var caseIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{1,31}$`)

// Normalize trims a possibly-absent string.
func Normalize(value string) string {
	return strings.TrimSpace(value)
}

// CaseID checks the human-assigned case code pattern.
func CaseID(value string) error {
	if !caseIDRe.MatchString(value) {
		return fmt.Errorf("Case ID must be 2-32 chars and use letters, numbers, '-' or '_'")
	}
	return nil
}

// Department checks membership in the closed department set.
func Department(value string) error {
	for _, d := range Departments {
		if value == d {
			return nil
		}
	}
	return fmt.Errorf("Invalid department")
}

// RequiredText checks presence and a length cap.
func RequiredText(label, value string, maxLength int) error {
	if value == "" {
		return fmt.Errorf("%s is required", label)
	}
	if len(value) > maxLength {
		return fmt.Errorf("%s must be %d characters or fewer", label, maxLength)
	}
	return nil
}

// OptionalText checks a length cap on an optional field.
func OptionalText(label, value string, maxLength int) error {
	if value == "" {
		return nil
	}
	if len(value) > maxLength {
		return fmt.Errorf("%s must be %d characters or fewer", label, maxLength)
	}
	return nil
}
