// Package ledger persists one folder's consolidated master ledger as a
// single spreadsheet artifact.
package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/acertijo-dev/balanza/internal/model"
)

// ErrStore means the artifact could not be opened or written.
var ErrStore = errors.New("ledger store I/O")

// Store reads and writes the master-ledger artifact at a fixed path.
// A Store is never used concurrently; each watched folder owns one.
type Store struct {
	path string
}

// NewStore returns a Store bound to an artifact path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact path.
func (s *Store) Path() string { return s.path }

// Load returns the persisted rows, or nil when no artifact exists yet.
// The period-date column is parsed back into period values so that
// duplicate-period checks compare dates, not raw text.
func (s *Store) Load() ([]model.Row, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", s.path, ErrStore)
	}
	defer f.Close()

	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, ErrStore)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	// Skip the header row.
	var rows []model.Row
	for i, rec := range records[1:] {
		row, err := unmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", s.path, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Rewrite replaces the artifact's data rows with the given sequence.
// The full workbook is built in memory, written to a temporary file in
// the same directory, and swapped into place, so a failed write never
// corrupts the existing artifact.
func (s *Store) Rewrite(rows []model.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := writeRows(f, sheet, 1, rows, true); err != nil {
		return err
	}
	return s.swap(f)
}

// Append adds rows after the artifact's current last row, creating the
// artifact (with header) when absent. This is the no-conflict fast
// path; prior rows are carried over untouched.
func (s *Store) Append(rows []model.Row) error {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.Rewrite(rows)
		}
		return fmt.Errorf("opening %s: %w", s.path, ErrStore)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	existing, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, ErrStore)
	}

	if err := writeRows(f, sheet, len(existing)+1, rows, len(existing) == 0); err != nil {
		return err
	}
	return s.swap(f)
}

// writeRows writes data rows starting at the given 1-based sheet row,
// preceded by the fixed header when withHeader is set.
func writeRows(f *excelize.File, sheet string, start int, rows []model.Row, withHeader bool) error {
	if withHeader {
		if err := f.SetSheetRow(sheet, cell(start), &Header); err != nil {
			return fmt.Errorf("writing header: %w", ErrStore)
		}
		start++
	}
	for i, row := range rows {
		cells := marshalRow(row)
		if err := f.SetSheetRow(sheet, cell(start+i), &cells); err != nil {
			return fmt.Errorf("writing row %d: %w", start+i, ErrStore)
		}
	}
	return nil
}

// swap writes the workbook to a temporary file next to the artifact and
// renames it into place.
func (s *Store) swap(f *excelize.File) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, ErrStore)
	}

	tmp, err := os.CreateTemp(dir, ".procesado-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", ErrStore)
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", s.path, ErrStore)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", ErrStore)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, ErrStore)
	}
	return nil
}

func cell(row int) string {
	return fmt.Sprintf("A%d", row)
}
