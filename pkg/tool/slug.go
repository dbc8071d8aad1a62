package tool

import (
	"strings"
	"unicode"
)

var slugReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

// Slugify converts a display name into a URL-safe slug: lowercase ASCII,
// words joined by single hyphens. Accented vowels common in Spanish names
// are transliterated rather than dropped.
func Slugify(name string) string {
	s := slugReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
