package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the ends and collapses interior whitespace runs to
// single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases after whitespace normalization; email local parts
// are case-insensitive in practice for every mainstream provider.
func NormalizeEmail(email string) string {
	return strings.ToLower(TrimAndNormalize(email))
}

// NormalizeSlotLabel trims a time-of-day label. Labels are validated
// separately against the HH:MM:SS shape.
func NormalizeSlotLabel(label string) string {
	return strings.TrimSpace(label)
}
