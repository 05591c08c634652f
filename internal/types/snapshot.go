package types

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot is one rendered-page capture. The extraction engine works on
// snapshots only, never on a live page handle, so it can be driven by an
// in-memory document in tests.
type Snapshot struct {
	// HTML is the serialized rendered DOM.
	HTML string

	// URL is the page location at capture time.
	URL string

	// CapturedAt is when the snapshot was taken.
	CapturedAt time.Time

	doc *goquery.Document
}

// NewSnapshot creates a snapshot from serialized HTML.
func NewSnapshot(html, url string) *Snapshot {
	return &Snapshot{
		HTML:       html,
		URL:        url,
		CapturedAt: time.Now(),
	}
}

// Document returns the parsed goquery document, lazily initializing it.
func (s *Snapshot) Document() (*goquery.Document, error) {
	if s.doc != nil {
		return s.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.HTML))
	if err != nil {
		return nil, err
	}
	s.doc = doc
	return doc, nil
}

// Root returns the document's root selection.
func (s *Snapshot) Root() (*goquery.Selection, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	return doc.Selection, nil
}
