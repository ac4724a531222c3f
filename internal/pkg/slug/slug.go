// Package slug derives URL-safe identifiers from display names.
package slug

import "strings"

// Normalize converts arbitrary text to a lowercase, hyphen-separated slug
// containing only [a-z0-9-]. Runs of separators collapse to one hyphen.
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))

	var sb strings.Builder
	sb.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.Trim(sb.String(), "-")
}

// OrDerive returns the normalized explicit slug when non-empty, otherwise a
// slug derived from the fallback text.
func OrDerive(explicit, fallback string) string {
	if s := Normalize(explicit); s != "" {
		return s
	}
	return Normalize(fallback)
}
