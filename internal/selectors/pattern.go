// Package selectors centralizes every DOM pattern used to locate a semantic
// field in the rendered feed. Each field is backed by an ordered list of
// candidate patterns so markup changes degrade gracefully instead of
// breaking extraction outright.
package selectors

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Kind identifies the matching engine a pattern uses.
type Kind string

const (
	KindCSS   Kind = "css"
	KindXPath Kind = "xpath"
)

// Pattern is a single DOM-matching expression.
type Pattern struct {
	Kind Kind
	Expr string
}

// CSS builds a CSS selector pattern.
func CSS(expr string) Pattern { return Pattern{Kind: KindCSS, Expr: expr} }

// XPath builds an XPath pattern.
func XPath(expr string) Pattern { return Pattern{Kind: KindXPath, Expr: expr} }

// Matches evaluates the pattern scoped to sel and returns every match as a
// single-element selection, in document order.
func (p Pattern) Matches(sel *goquery.Selection) []*goquery.Selection {
	if sel == nil {
		return nil
	}

	var out []*goquery.Selection
	switch p.Kind {
	case KindXPath:
		for _, node := range sel.Nodes {
			found, err := htmlquery.QueryAll(node, p.Expr)
			if err != nil {
				return nil
			}
			for _, n := range found {
				out = append(out, goquery.NewDocumentFromNode(n).Selection)
			}
		}
	default:
		sel.Find(p.Expr).Each(func(_ int, s *goquery.Selection) {
			out = append(out, s)
		})
	}
	return out
}

// FindFirst tries each pattern strictly in order and returns the first
// element of the first pattern yielding at least one match. Results from
// different patterns are never merged.
func FindFirst(sel *goquery.Selection, patterns []Pattern) (*goquery.Selection, bool) {
	for _, p := range patterns {
		if matches := p.Matches(sel); len(matches) > 0 {
			return matches[0], true
		}
	}
	return nil, false
}

// FindAll tries each pattern strictly in order and returns all matches of
// the first successful pattern, never the union across patterns.
func FindAll(sel *goquery.Selection, patterns []Pattern) []*goquery.Selection {
	for _, p := range patterns {
		if matches := p.Matches(sel); len(matches) > 0 {
			return matches
		}
	}
	return nil
}
