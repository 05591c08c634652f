package extract

import (
	"sort"
	"strings"

	"feedsheet/internal/selectors"
	"feedsheet/internal/types"
)

// PatternCount reports how many elements one candidate pattern matched.
type PatternCount struct {
	Kind  string `json:"kind"`
	Expr  string `json:"expr"`
	Count int    `json:"count"`
}

// FieldReport groups pattern counts for one semantic field.
type FieldReport struct {
	Field    string         `json:"field"`
	Patterns []PatternCount `json:"patterns"`
	Samples  []string       `json:"samples,omitempty"`
}

// StructureReport describes the page against every registered pattern.
type StructureReport struct {
	URL    string        `json:"url"`
	Title  string        `json:"title"`
	Fields []FieldReport `json:"fields"`
}

const sampleLen = 80

// Structure counts matches per candidate pattern for every field. It never
// fails for "nothing found"; zero counts are the report.
func (e *Extractor) Structure(snap *types.Snapshot) StructureReport {
	report := StructureReport{URL: snap.URL}

	root, err := snap.Root()
	if err != nil {
		e.logger.Warn("snapshot parse failed", "url", snap.URL, "error", err)
		return report
	}
	report.Title = strings.TrimSpace(root.Find("title").First().Text())

	fields := selectors.FieldPatterns()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fr := FieldReport{Field: name}
		for _, p := range fields[name] {
			fr.Patterns = append(fr.Patterns, PatternCount{
				Kind:  string(p.Kind),
				Expr:  p.Expr,
				Count: len(p.Matches(root)),
			})
		}
		report.Fields = append(report.Fields, fr)
	}
	return report
}

// SelectorSamples runs every field's pattern list with the usual fallback
// order and reports text samples from the winning pattern.
func (e *Extractor) SelectorSamples(snap *types.Snapshot) StructureReport {
	report := e.Structure(snap)

	root, err := snap.Root()
	if err != nil {
		return report
	}

	fields := selectors.FieldPatterns()
	for i := range report.Fields {
		matches := selectors.FindAll(root, fields[report.Fields[i].Field])
		for _, m := range matches {
			if len(report.Fields[i].Samples) >= 3 {
				break
			}
			text := strings.TrimSpace(m.Text())
			if text == "" {
				continue
			}
			if runes := []rune(text); len(runes) > sampleLen {
				text = string(runes[:sampleLen]) + "..."
			}
			report.Fields[i].Samples = append(report.Fields[i].Samples, text)
		}
	}
	return report
}
