package handler

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Greeting name constraints.
const (
	nameMinLength = 1
	nameMaxLength = 100
	namePattern   = `^[a-zA-Z0-9\s\-_\.]+$`
)

var nameRegexp = regexp.MustCompile(namePattern)

// validateName checks a name supplied by the client. Only the first failed
// constraint is reported, in the order min length, max length, pattern.
func validateName(name string) *ValidationIssue {
	loc := []string{"query", "name"}

	n := utf8.RuneCountInString(name)
	switch {
	case n < nameMinLength:
		return &ValidationIssue{
			Type:  "string_too_short",
			Loc:   loc,
			Msg:   fmt.Sprintf("String should have at least %d character", nameMinLength),
			Input: name,
			Ctx:   map[string]any{"min_length": nameMinLength},
		}
	case n > nameMaxLength:
		return &ValidationIssue{
			Type:  "string_too_long",
			Loc:   loc,
			Msg:   fmt.Sprintf("String should have at most %d characters", nameMaxLength),
			Input: name,
			Ctx:   map[string]any{"max_length": nameMaxLength},
		}
	case !nameRegexp.MatchString(name):
		return &ValidationIssue{
			Type:  "string_pattern_mismatch",
			Loc:   loc,
			Msg:   fmt.Sprintf("String should match pattern '%s'", namePattern),
			Input: name,
			Ctx:   map[string]any{"pattern": namePattern},
		}
	}
	return nil
}
