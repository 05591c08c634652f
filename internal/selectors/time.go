package selectors

import "regexp"

// relativeToken matches compact relative-time tokens like "3h", "12m", "45s"
// and localized "N hours ago" phrasing.
var (
	relativeToken  = regexp.MustCompile(`\b(\d+)\s*(s|m|h|d)\b`)
	relativePhrase = regexp.MustCompile(`(?i)\b\d+\s+(second|minute|hour|day)s?\s+ago\b`)
	handleToken    = regexp.MustCompile(`@([A-Za-z0-9_]{1,30})`)
)

// RelativeTimeToken extracts a relative-time token from text, if present.
func RelativeTimeToken(text string) (string, bool) {
	if m := relativeToken.FindString(text); m != "" {
		return m, true
	}
	if m := relativePhrase.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// HasRelativeTime reports whether text contains a relative-time token.
func HasRelativeTime(text string) bool {
	_, ok := RelativeTimeToken(text)
	return ok
}

// HandleToken extracts the first "@handle" token, without the "@".
func HandleToken(text string) (string, bool) {
	if m := handleToken.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
