package sheets

import (
	"context"
	"log/slog"

	"feedsheet/internal/types"
)

// Writer appends record batches to worksheets. It is append-only: existing
// rows are never re-read into memory or rewritten.
//
// The row-count probe and the write are two separate round trips, so two
// concurrent writers to the same worksheet can compute the same start row
// and the later write clobbers the earlier one. Correctness assumes a
// single writer per worksheet.
type Writer struct {
	api    SheetAPI
	logger *slog.Logger
}

// NewWriter creates a Writer over the given backend.
func NewWriter(api SheetAPI, logger *slog.Logger) *Writer {
	return &Writer{
		api:    api,
		logger: logger.With("component", "sheet_writer"),
	}
}

// Append merges rows into a worksheet of the destination spreadsheet. On
// the first write to an empty worksheet the header row is written together
// with the data in a single write at row 1; every later call writes data
// rows only, starting directly after the freshly probed row count.
func (w *Writer) Append(ctx context.Context, destination, worksheet string, header []string, rows [][]string) (types.WriteResult, error) {
	result := types.WriteResult{Spreadsheet: destination, Worksheet: worksheet}

	created, err := w.api.EnsureWorksheet(ctx, destination, worksheet)
	if err != nil {
		return result, &types.BackendError{Op: "ensure worksheet " + worksheet, Err: err}
	}
	if created {
		w.logger.Info("worksheet created", "spreadsheet", destination, "worksheet", worksheet)
		result.WorksheetCreated = true
	}

	existing, err := w.api.RowCount(ctx, destination, worksheet)
	if err != nil {
		return result, &types.BackendError{Op: "probe row count of " + worksheet, Err: err}
	}

	batch := rows
	startRow := existing + 1
	if existing == 0 {
		batch = make([][]string, 0, len(rows)+1)
		batch = append(batch, header)
		batch = append(batch, rows...)
		startRow = 1
	}

	result.StartRow = startRow
	if len(batch) == 0 {
		result.TotalRows = existing
		return result, nil
	}

	ref := RangeRef{
		StartRow: startRow,
		StartCol: 1,
		EndRow:   startRow + len(batch) - 1,
		EndCol:   len(header),
	}
	if err := w.api.WriteRange(ctx, destination, worksheet, ref, batch); err != nil {
		return result, &types.BackendError{Op: "write " + ref.A1(worksheet), Err: err}
	}

	result.NewRows = len(batch)
	result.TotalRows = existing + len(batch)

	w.logger.Info("batch appended",
		"spreadsheet", destination,
		"worksheet", worksheet,
		"start_row", result.StartRow,
		"new_rows", result.NewRows,
		"total_rows", result.TotalRows,
	)
	return result, nil
}
