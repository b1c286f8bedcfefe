// Package trialbalance parses raw trial-balance spreadsheets into
// normalized, hierarchically-enriched ledger rows.
package trialbalance

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// RawSheet is the untyped cell grid of a spreadsheet, exactly as read
// from the file. No header is assumed.
type RawSheet [][]string

// ReadSheet loads the first worksheet of an xlsx file as raw text cells.
func ReadSheet(path string) (RawSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// cellAt returns the cell at index i, or "" when the row is shorter.
// excelize trims trailing empty cells, so short rows are routine.
func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
