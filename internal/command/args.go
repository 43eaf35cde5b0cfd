package command

import (
	"strings"

	"github.com/MrSnakeDoc/bang/internal/domain"
)

// hideFlag marks a created item as hidden.
const hideFlag = "--hide"

// stripHideFlag removes the --hide token from a command body and
// reports whether it was present.
func stripHideFlag(s string) (string, bool) {
	fields := strings.Fields(s)
	kept := fields[:0]
	hide := false
	for _, f := range fields {
		if f == hideFlag {
			hide = true
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " "), hide
}

// normalizeTrigger lowercases a trigger and guarantees a leading "!".
func normalizeTrigger(s string) string {
	return "!" + strings.ToLower(strings.TrimPrefix(s, "!"))
}

// validTriggerBody reports whether the trigger body (without "!") is
// non-empty and strictly alphanumeric.
func validTriggerBody(s string) bool {
	s = strings.TrimPrefix(s, "!")
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// actionForURL classifies a bang URL: a substitution placeholder makes
// it a search template, anything else is a plain redirect.
func actionForURL(url string) domain.BangAction {
	if strings.Contains(url, "{query}") || strings.Contains(url, "{{{s}}}") {
		return domain.ActionSearch
	}
	return domain.ActionRedirect
}

// firstField returns the first whitespace-separated token of s.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
