package slug

import (
	"strings"
	"unicode"
)

// Make derives a clean, URL-safe, lowercase hyphen-separated slug from text.
// Non-alphanumeric runs collapse into single hyphens.
func Make(text string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
