// Package sheets merges record batches into a persistent spreadsheet
// without overwriting prior data. All backend access goes through the
// SheetAPI capability interface so the append logic is testable against an
// in-memory backend.
package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// RangeRef is an explicit rectangular cell range, 1-based and inclusive.
// Writes always target a fully specified rectangle, never an open-ended
// auto-expanding range, so their effect is independently verifiable.
type RangeRef struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// A1 renders the range in A1 notation scoped to a worksheet.
func (r RangeRef) A1(worksheet string) string {
	return fmt.Sprintf("%s!%s%d:%s%d",
		quoteTitle(worksheet),
		columnLetter(r.StartCol), r.StartRow,
		columnLetter(r.EndCol), r.EndRow,
	)
}

var plainTitle = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// quoteTitle wraps a worksheet title in single quotes for A1 notation when
// the bare form cannot carry it, doubling embedded quotes.
func quoteTitle(title string) string {
	if plainTitle.MatchString(title) {
		return title
	}
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// columnLetter converts a 1-based column index to its letter form.
func columnLetter(col int) string {
	s := ""
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}

// SheetAPI is the minimal surface the writer needs from a spreadsheet
// backend. Every call names the destination spreadsheet explicitly so one
// backend serves any spreadsheet the credentials can reach; the destination
// is an external shared resource and nothing is cached between calls.
type SheetAPI interface {
	// EnsureWorksheet creates the named worksheet if it does not exist and
	// reports whether it was created.
	EnsureWorksheet(ctx context.Context, destination, worksheet string) (created bool, err error)

	// RowCount returns the number of occupied rows in column A of the
	// worksheet. This probe is the authoritative measure of prior writes.
	RowCount(ctx context.Context, destination, worksheet string) (int, error)

	// WriteRange writes values into the exact rectangle ref.
	WriteRange(ctx context.Context, destination, worksheet string, ref RangeRef, values [][]string) error

	// ReadRange reads the exact rectangle ref back.
	ReadRange(ctx context.Context, destination, worksheet string, ref RangeRef) ([][]string, error)
}
