package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"feedsheet/internal/selectors"
)

const (
	heuristicMinText = 20
	heuristicMaxText = 1000
	heuristicCap     = 10
)

// heuristicCandidates scans every element of the document for things that
// look like posts when no structured container pattern matched at all.
// A candidate has moderate text length, no nested interactive element, and
// either an "@handle" token or a relative-time token in its text.
func (e *Extractor) heuristicCandidates(root *goquery.Selection) []*goquery.Selection {
	var candidates []*goquery.Selection

	root.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) < heuristicMinText || len(text) >= heuristicMaxText {
			return true
		}
		if sel.Find("input, button, textarea, select").Length() > 0 {
			return true
		}
		if _, hasHandle := selectors.HandleToken(text); !hasHandle && !selectors.HasRelativeTime(text) {
			return true
		}

		candidates = append(candidates, sel)
		return len(candidates) < heuristicCap
	})

	if len(candidates) > 0 {
		e.logger.Debug("heuristic scan found candidates", "count", len(candidates))
	}
	return candidates
}
