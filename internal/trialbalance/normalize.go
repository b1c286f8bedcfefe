package trialbalance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/acertijo-dev/balanza/internal/model"
	"github.com/acertijo-dev/balanza/internal/period"
)

// ErrSchema means the sheet is not a recognized trial-balance layout.
var ErrSchema = errors.New("unrecognized trial-balance layout")

// The period label sits at a fixed position in the raw grid.
const (
	periodLabelRow = 4
	periodLabelCol = 0
)

// transactionalYes is the exact flag value (trimmed, lowercased) that
// marks an account as transactional.
const transactionalYes = "sí"

// NameIndex maps account codes to display names. It is built from every
// row of a sheet, not only transactional ones, so that roll-up accounts
// resolve the names of their hierarchy levels.
type NameIndex map[string]string

// Lookup resolves a code to its display name, substituting the
// not-applicable sentinel for absent or blank names.
func (ix NameIndex) Lookup(code string) string {
	name, ok := ix[code]
	if !ok || strings.TrimSpace(name) == "" {
		return model.NotApplicable
	}
	return name
}

// Normalize parses one raw trial-balance sheet into ordered ledger
// rows. The source name is used only in error messages.
func Normalize(sheet RawSheet, source string) ([]model.Row, error) {
	p, err := resolvePeriod(sheet, source)
	if err != nil {
		return nil, err
	}

	hr := findHeaderRow(sheet)
	if hr < 0 {
		return nil, fmt.Errorf("%s: no %q header row: %w", source, headerToken, ErrSchema)
	}
	header := sheet[hr]
	data := sheet[hr+1:]

	cols, err := resolveColumns(header, source)
	if err != nil {
		return nil, err
	}

	index := buildNameIndex(data, cols)

	var rows []model.Row
	for _, raw := range data {
		flag := strings.ToLower(strings.TrimSpace(cellAt(raw, cols.transactional)))
		if flag != transactionalYes {
			continue
		}
		rows = append(rows, normalizeRow(raw, cols, index, p))
	}
	return rows, nil
}

// resolvePeriod reads the period label from its fixed cell and resolves
// it to the accounting period.
func resolvePeriod(sheet RawSheet, source string) (period.Period, error) {
	if len(sheet) <= periodLabelRow {
		return period.Period{}, fmt.Errorf("%s: period label cell missing: %w", source, period.ErrParse)
	}
	label := cellAt(sheet[periodLabelRow], periodLabelCol)
	p, err := period.Parse(label)
	if err != nil {
		return period.Period{}, fmt.Errorf("%s: %w", source, err)
	}
	return p, nil
}

// findHeaderRow returns the index of the first row containing the
// header token, or -1.
func findHeaderRow(sheet RawSheet) int {
	for i, row := range sheet {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), headerToken) {
				return i
			}
		}
	}
	return -1
}

// buildNameIndex collects code -> name from every data row.
func buildNameIndex(data [][]string, cols columns) NameIndex {
	ix := make(NameIndex, len(data))
	for _, raw := range data {
		code := strings.TrimSpace(cellAt(raw, cols.code))
		if code == "" {
			continue
		}
		ix[code] = strings.TrimSpace(cellAt(raw, cols.name))
	}
	return ix
}

func normalizeRow(raw []string, cols columns, index NameIndex, p period.Period) model.Row {
	code := strings.TrimSpace(cellAt(raw, cols.code))

	class := prefix(code, 1)
	group := prefix(code, 2)
	account := prefix(code, 4)
	subaccount := prefix(code, 6)

	auxiliary := model.NotApplicable
	auxiliaryName := model.NotApplicable
	if len(code) >= 8 {
		auxiliary = code[:8]
		auxiliaryName = index.Lookup(auxiliary)
	}

	debit := parseMetric(cellAt(raw, cols.debit))
	credit := parseMetric(cellAt(raw, cols.credit))

	return model.Row{
		Category:       model.Classify(class),
		Class:          class,
		ClassName:      index.Lookup(class),
		Group:          group,
		GroupName:      index.Lookup(group),
		Account:        account,
		AccountName:    index.Lookup(account),
		Subaccount:     subaccount,
		SubaccountName: index.Lookup(subaccount),
		Auxiliary:      auxiliary,
		AuxiliaryName:  auxiliaryName,
		Branch:         valueOr(raw, cols.branch),
		Counterparty:   valueOr(raw, cols.counterparty),
		OpeningBalance: parseMetric(cellAt(raw, cols.opening)),
		Debit:          debit,
		Credit:         credit,
		PeriodMovement: debit.Sub(credit),
		ClosingBalance: parseMetric(cellAt(raw, cols.closing)),
		Period:         p,
	}
}

// prefix returns the first n bytes of code, or the whole code when
// shorter. Account codes are plain digits.
func prefix(code string, n int) string {
	if len(code) < n {
		return code
	}
	return code[:n]
}

// parseMetric coerces a cell to a decimal. Empty and non-numeric cells
// coerce to zero; this is deliberate, not a validation failure.
func parseMetric(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// valueOr returns the trimmed cell value, or the sentinel when the
// column is absent or the cell blank.
func valueOr(raw []string, col int) string {
	if col < 0 {
		return model.NotApplicable
	}
	v := strings.TrimSpace(cellAt(raw, col))
	if v == "" {
		return model.NotApplicable
	}
	return v
}
