package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators   = regexp.MustCompile(`[-\s]+`)
)

// Slugify folds value to lowercase ASCII words joined by hyphens.
// Text with no ASCII letters or digits (Thai names for example) yields "".
func Slugify(value string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(value) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}

	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(b.String()), "")
	slug = slugSeparators.ReplaceAllString(strings.TrimSpace(slug), "-")
	return strings.Trim(slug, "-_")
}
