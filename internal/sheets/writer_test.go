package sheets

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"
	"time"

	"feedsheet/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const testDest = "sheet-id-1"

var testHeader = []string{"Timestamp", "Author", "Text"}

func testRows(tag string, n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{"2024-03-01", "alice", tag}
	}
	return rows
}

func readAll(t *testing.T, api SheetAPI, destination, worksheet string, rowCount int) [][]string {
	t.Helper()
	got, err := api.ReadRange(context.Background(), destination, worksheet, RangeRef{
		StartRow: 1, StartCol: 1, EndRow: rowCount, EndCol: len(testHeader),
	})
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return got
}

func TestAppendFirstWriteIncludesHeader(t *testing.T) {
	w := NewWriter(NewMemory(), testLogger)

	res, err := w.Append(context.Background(), testDest, "batch", testHeader, testRows("first", 1))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !res.WorksheetCreated {
		t.Error("expected worksheet to be created")
	}
	if res.Spreadsheet != testDest {
		t.Errorf("spreadsheet = %q", res.Spreadsheet)
	}
	if res.StartRow != 1 || res.NewRows != 2 || res.TotalRows != 2 {
		t.Errorf("result = %+v, want start 1, new 2, total 2", res)
	}
}

func TestAppendNeverOverwritesPriorRows(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, testLogger)
	ctx := context.Background()

	if _, err := w.Append(ctx, testDest, "batch", testHeader, testRows("a", 3)); err != nil {
		t.Fatalf("first append: %v", err)
	}
	before := readAll(t, mem, testDest, "batch", 4)

	res, err := w.Append(ctx, testDest, "batch", testHeader, testRows("b", 2))
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if res.StartRow != 5 || res.NewRows != 2 || res.TotalRows != 6 {
		t.Errorf("result = %+v, want start 5, new 2, total 6", res)
	}
	if res.WorksheetCreated {
		t.Error("second append must not recreate the worksheet")
	}

	after := readAll(t, mem, testDest, "batch", 6)
	if !reflect.DeepEqual(after[:4], before) {
		t.Errorf("prior rows changed:\nbefore %v\nafter  %v", before, after[:4])
	}
	if after[0][0] != "Timestamp" {
		t.Errorf("row 1 = %v, header lost", after[0])
	}
	if after[4][2] != "b" || after[5][2] != "b" {
		t.Errorf("new rows not at 5-6: %v", after[4:])
	}
}

func TestAppendSecondWriteOmitsHeader(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, testLogger)
	ctx := context.Background()

	if _, err := w.Append(ctx, testDest, "batch", testHeader, testRows("a", 1)); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if _, err := w.Append(ctx, testDest, "batch", testHeader, testRows("b", 1)); err != nil {
		t.Fatalf("second append: %v", err)
	}

	grid := readAll(t, mem, testDest, "batch", 3)
	for i, row := range grid[1:] {
		if row[0] == "Timestamp" {
			t.Errorf("duplicate header at row %d", i+2)
		}
	}
}

func TestAppendKeepsDestinationsSeparate(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, testLogger)
	ctx := context.Background()

	if _, err := w.Append(ctx, "sheet-one", "batch", testHeader, testRows("one", 2)); err != nil {
		t.Fatalf("append to sheet-one: %v", err)
	}

	// Same worksheet name in a different spreadsheet starts fresh at row 1.
	res, err := w.Append(ctx, "sheet-two", "batch", testHeader, testRows("two", 1))
	if err != nil {
		t.Fatalf("append to sheet-two: %v", err)
	}
	if !res.WorksheetCreated || res.StartRow != 1 || res.TotalRows != 2 {
		t.Errorf("result = %+v, want a fresh worksheet in the second spreadsheet", res)
	}

	one := readAll(t, mem, "sheet-one", "batch", 3)
	if one[1][2] != "one" || one[2][2] != "one" {
		t.Errorf("sheet-one rows = %v", one[1:])
	}
	two := readAll(t, mem, "sheet-two", "batch", 2)
	if two[1][2] != "two" {
		t.Errorf("sheet-two rows = %v", two[1:])
	}
}

func TestAppendEmptyBatch(t *testing.T) {
	mem := NewMemory()
	w := NewWriter(mem, testLogger)
	ctx := context.Background()

	if _, err := w.Append(ctx, testDest, "batch", testHeader, testRows("a", 2)); err != nil {
		t.Fatalf("seed append: %v", err)
	}

	res, err := w.Append(ctx, testDest, "batch", testHeader, nil)
	if err != nil {
		t.Fatalf("empty append: %v", err)
	}
	if res.NewRows != 0 || res.TotalRows != 3 {
		t.Errorf("result = %+v, want 0 new rows and 3 total", res)
	}
}

func TestAppendWrapsBackendErrors(t *testing.T) {
	w := NewWriter(failingAPI{}, testLogger)

	_, err := w.Append(context.Background(), testDest, "batch", testHeader, testRows("a", 1))
	var be *types.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

type failingAPI struct{}

func (failingAPI) EnsureWorksheet(context.Context, string, string) (bool, error) {
	return false, errors.New("quota exceeded")
}

func (failingAPI) RowCount(context.Context, string, string) (int, error) {
	return 0, nil
}

func (failingAPI) WriteRange(context.Context, string, string, RangeRef, [][]string) error {
	return nil
}

func (failingAPI) ReadRange(context.Context, string, string, RangeRef) ([][]string, error) {
	return nil, nil
}

func TestRangeRefA1(t *testing.T) {
	ref := RangeRef{StartRow: 5, StartCol: 1, EndRow: 6, EndCol: 10}
	if got := ref.A1("2024-03-01"); got != "2024-03-01!A5:J6" {
		t.Errorf("A1 = %q", got)
	}

	wide := RangeRef{StartRow: 1, StartCol: 27, EndRow: 1, EndCol: 28}
	if got := wide.A1("s"); got != "s!AA1:AB1" {
		t.Errorf("A1 = %q", got)
	}
}

func TestRangeRefA1QuotesAwkwardTitles(t *testing.T) {
	ref := RangeRef{StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 2}
	if got := ref.A1("post batch"); got != "'post batch'!A1:B1" {
		t.Errorf("A1 = %q, spaced title must be quoted", got)
	}
	if got := ref.A1("alice's"); got != "'alice''s'!A1:B1" {
		t.Errorf("A1 = %q, embedded quote must be doubled", got)
	}
	if got := ref.A1("a/b"); got != "'a/b'!A1:B1" {
		t.Errorf("A1 = %q, slash title must be quoted", got)
	}
}

func TestMemoryRejectsInvalidRange(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	if _, err := mem.EnsureWorksheet(ctx, testDest, "s"); err != nil {
		t.Fatal(err)
	}

	bad := RangeRef{StartRow: 0, StartCol: 1, EndRow: 1, EndCol: 1}
	if err := mem.WriteRange(ctx, testDest, "s", bad, [][]string{{"x"}}); !errors.Is(err, types.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}

	mismatch := RangeRef{StartRow: 1, StartCol: 1, EndRow: 2, EndCol: 1}
	if err := mem.WriteRange(ctx, testDest, "s", mismatch, [][]string{{"x"}}); !errors.Is(err, types.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for height mismatch, got %v", err)
	}
}

func TestPostRows(t *testing.T) {
	collected := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := PostRows([]*types.Post{{
		ID:             "post_1_0",
		Text:           "hello",
		Timestamp:      "2024-03-01T10:00:00.000Z",
		Author:         "alice",
		Likes:          3,
		IsRepost:       true,
		OriginalAuthor: "bob",
		CollectedAt:    collected,
	}})
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	row := rows[0]
	if len(row) != len(PostColumns) {
		t.Fatalf("row width %d, columns %d", len(row), len(PostColumns))
	}
	if row[1] != "alice" || row[3] != "3" || row[6] != "yes" || row[7] != "bob" {
		t.Errorf("row = %v", row)
	}
	if row[8] != "https://x.com/alice" {
		t.Errorf("profile url = %q", row[8])
	}
}

func TestProfileRows(t *testing.T) {
	rows := ProfileRows(&types.Profile{Handle: "alice", Followers: 10, Verified: true})
	if len(rows) != 1 || len(rows[0]) != len(ProfileColumns) {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][4] != "Verified" {
		t.Errorf("verified label = %q", rows[0][4])
	}
}

func TestDefaultWorksheetName(t *testing.T) {
	now := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	if got := DefaultWorksheetName(now); got != "2024-03-01" {
		t.Errorf("name = %q", got)
	}
}
