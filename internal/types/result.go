package types

// WriteResult reports exactly what an append changed in the destination
// worksheet.
type WriteResult struct {
	// Spreadsheet is the destination spreadsheet the batch was written to.
	Spreadsheet string `json:"spreadsheet,omitempty"`

	// Worksheet is the worksheet the batch was written to.
	Worksheet string `json:"worksheet"`

	// StartRow is the first row the batch occupied (1-based).
	StartRow int `json:"start_row"`

	// NewRows is the number of rows written by this call, header included.
	NewRows int `json:"new_rows"`

	// TotalRows is the worksheet's occupied row count after the write.
	TotalRows int `json:"total_rows"`

	// WorksheetCreated is true when the worksheet had to be created.
	WorksheetCreated bool `json:"worksheet_created,omitempty"`
}
