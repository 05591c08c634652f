package sheets

import (
	"context"
	"sync"

	"feedsheet/internal/types"
)

// Memory is an in-memory SheetAPI holding any number of destination
// spreadsheets. It backs the writer tests and the CLI's dry-run export
// mode.
type Memory struct {
	mu           sync.Mutex
	destinations map[string]map[string][][]string
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{destinations: make(map[string]map[string][][]string)}
}

func (m *Memory) spreadsheet(destination string) map[string][][]string {
	sheets, ok := m.destinations[destination]
	if !ok {
		sheets = make(map[string][][]string)
		m.destinations[destination] = sheets
	}
	return sheets
}

// EnsureWorksheet implements SheetAPI.
func (m *Memory) EnsureWorksheet(_ context.Context, destination, worksheet string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sheets := m.spreadsheet(destination)
	if _, ok := sheets[worksheet]; ok {
		return false, nil
	}
	sheets[worksheet] = nil
	return true, nil
}

// RowCount implements SheetAPI.
func (m *Memory) RowCount(_ context.Context, destination, worksheet string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.spreadsheet(destination)[worksheet]
	if !ok {
		return 0, types.ErrNoWorksheet
	}
	count := 0
	for i, row := range grid {
		if len(row) > 0 && row[0] != "" {
			count = i + 1
		}
	}
	return count, nil
}

// WriteRange implements SheetAPI.
func (m *Memory) WriteRange(_ context.Context, destination, worksheet string, ref RangeRef, values [][]string) error {
	if ref.StartRow < 1 || ref.StartCol < 1 || ref.EndRow < ref.StartRow || ref.EndCol < ref.StartCol {
		return types.ErrInvalidRange
	}
	if len(values) != ref.EndRow-ref.StartRow+1 {
		return types.ErrInvalidRange
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sheets := m.spreadsheet(destination)
	grid, ok := sheets[worksheet]
	if !ok {
		return types.ErrNoWorksheet
	}

	for grid == nil || len(grid) < ref.EndRow {
		grid = append(grid, nil)
	}
	for i, row := range values {
		r := ref.StartRow - 1 + i
		width := ref.StartCol - 1 + len(row)
		for len(grid[r]) < width {
			grid[r] = append(grid[r], "")
		}
		copy(grid[r][ref.StartCol-1:], row)
	}
	sheets[worksheet] = grid
	return nil
}

// ReadRange implements SheetAPI.
func (m *Memory) ReadRange(_ context.Context, destination, worksheet string, ref RangeRef) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grid, ok := m.spreadsheet(destination)[worksheet]
	if !ok {
		return nil, types.ErrNoWorksheet
	}

	var out [][]string
	for r := ref.StartRow; r <= ref.EndRow && r <= len(grid); r++ {
		row := grid[r-1]
		var cells []string
		for c := ref.StartCol; c <= ref.EndCol; c++ {
			if c <= len(row) {
				cells = append(cells, row[c-1])
			} else {
				cells = append(cells, "")
			}
		}
		out = append(out, cells)
	}
	return out, nil
}
