package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

var digitsRegex = regexp.MustCompile(`[0-9]+`)

// Tidy collapses every run of whitespace (including non-breaking spaces)
// into a single space and trims both ends.
func Tidy(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.Trim(text, " ")
}

// FirstNumber returns the first maximal run of decimal digits in text.
func FirstNumber(text string) (string, bool) {
	match := digitsRegex.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}
