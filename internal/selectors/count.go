package selectors

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// countPattern captures a (possibly comma-grouped, possibly decimal) number
// and an optional abbreviation suffix. The suffix must be adjacent to the
// digits so compound text like "3 Bookmarks" never reads as billions.
var countPattern = regexp.MustCompile(`([\d,]+(?:\.\d+)?)([KkMmBb])?`)

var digitRun = regexp.MustCompile(`\d+`)

// ParseCount decodes engagement text such as "1,234", "12.3K" or "2M" into
// an integer. Unparseable or empty input yields 0. When the structured
// pattern fails entirely, the first run of digits in the text is used.
func ParseCount(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if m := countPattern.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		n, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			switch strings.ToUpper(m[2]) {
			case "K":
				n *= 1_000
			case "M":
				n *= 1_000_000
			case "B":
				n *= 1_000_000_000
			}
			if n < 0 {
				return 0
			}
			return int(math.Floor(n))
		}
	}

	if d := digitRun.FindString(text); d != "" {
		n, err := strconv.Atoi(d)
		if err == nil {
			return n
		}
	}
	return 0
}

// FirstInteger returns the first integer token in text, or 0. This is the
// shared engagement fallback; because it is blind to which counter the
// number belonged to, it can misattribute counts.
func FirstInteger(text string) int {
	if d := digitRun.FindString(text); d != "" {
		if n, err := strconv.Atoi(d); err == nil {
			return n
		}
	}
	return 0
}
