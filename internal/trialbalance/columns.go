package trialbalance

import (
	"fmt"
	"strings"
)

// headerToken marks the header row: the first raw row containing it,
// case-insensitively, is taken as the column header.
const headerToken = "código cuenta contable"

// Accepted header aliases per logical column, in priority order.
// Resolution is deliberate about ties: for each column the aliases are
// tried in order, and for each alias the header cells are scanned left
// to right; the first cell whose lowercased text contains the alias
// wins. Ambiguous headers therefore resolve deterministically instead
// of depending on incidental scan order.
var (
	codeAliases          = []string{"código cuenta contable", "codigo cuenta contable"}
	nameAliases          = []string{"nombre cuenta contable", "nombre cuenta", "nombre de la cuenta"}
	transactionalAliases = []string{"transaccional"}
	openingAliases       = []string{"saldo inicial"}
	debitAliases         = []string{"movimiento débito", "movimiento debito"}
	creditAliases        = []string{"movimiento crédito", "movimiento credito"}
	closingAliases       = []string{"saldo final"}
	branchAliases        = []string{"sucursal"}
	counterpartyAliases  = []string{"nombre tercero", "tercero"}
)

// columns holds resolved column indexes into the data rows. Optional
// columns are -1 when absent.
type columns struct {
	code          int
	name          int
	transactional int
	opening       int
	debit         int
	credit        int
	closing       int
	branch        int
	counterparty  int
}

// resolveColumns locates the required and optional columns in a header
// row. The account code, account name and transactional flag are
// required; missing any of them fails with ErrSchema. The four metric
// columns and the branch/counterparty columns are optional.
func resolveColumns(header []string, source string) (columns, error) {
	c := columns{
		code:          findColumn(header, codeAliases),
		name:          findColumn(header, nameAliases),
		transactional: findColumn(header, transactionalAliases),
		opening:       findColumn(header, openingAliases),
		debit:         findColumn(header, debitAliases),
		credit:        findColumn(header, creditAliases),
		closing:       findColumn(header, closingAliases),
		branch:        findColumn(header, branchAliases),
		counterparty:  findColumn(header, counterpartyAliases),
	}

	required := []struct {
		idx  int
		what string
	}{
		{c.code, "account code"},
		{c.name, "account name"},
		{c.transactional, "transactional flag"},
	}
	for _, r := range required {
		if r.idx < 0 {
			return columns{}, fmt.Errorf("%s: missing %s column: %w", source, r.what, ErrSchema)
		}
	}
	return c, nil
}

func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, cell := range header {
			if strings.Contains(strings.ToLower(cell), alias) {
				return i
			}
		}
	}
	return -1
}
