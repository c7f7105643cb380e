// Package slug derives URL-safe and machine-key identifiers from display
// text. Transliteration is best-effort: input is decomposed, combining marks
// are dropped, and anything outside ASCII letters and digits becomes a
// delimiter run.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make returns a lowercase, ASCII, hyphen-delimited slug for text.
// Runs of non-alphanumeric characters collapse to a single hyphen and
// leading/trailing hyphens are trimmed.
func Make(text string) string {
	return delimited(text, '-')
}

// MachineName returns a lowercase, underscore-delimited machine key for a
// field label.
func MachineName(text string) string {
	return delimited(text, '_')
}

func delimited(text string, sep rune) string {
	var b strings.Builder
	lastSep := true // suppress a leading separator

	for _, r := range norm.NFKD.String(text) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark stripped by decomposition
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			lastSep = false
		default:
			if !lastSep {
				b.WriteRune(sep)
				lastSep = true
			}
		}
	}

	return strings.TrimRight(b.String(), string(sep))
}
