package utils

import (
	"strings"
	"unicode"
)

const maskChar = "X"

// MaskIdentifier hides the middle of a national ID or tax ID.
//
// Hyphenated values keep the first two and last two groups and mask every
// group in between character for character. Other values are stripped of
// non-word characters; four characters or fewer are masked completely,
// longer ones keep min(3, n/2) leading and min(2, remaining) trailing
// characters.
func MaskIdentifier(value string) string {
	if value == "" {
		return ""
	}

	if strings.Contains(value, "-") {
		groups := strings.Split(value, "-")
		for i, group := range groups {
			if i <= 1 || i >= len(groups)-2 {
				continue
			}
			groups[i] = strings.Repeat(maskChar, len([]rune(group)))
		}
		return strings.Join(groups, "-")
	}

	cleaned := []rune(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, value))

	n := len(cleaned)
	if n <= 4 {
		return strings.Repeat(maskChar, n)
	}

	keepStart := min(3, n/2)
	keepEnd := min(2, n-keepStart)
	hidden := n - keepStart - keepEnd

	return string(cleaned[:keepStart]) +
		strings.Repeat(maskChar, hidden) +
		string(cleaned[n-keepEnd:])
}
