package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/acertijo-dev/balanza/internal/model"
	"github.com/acertijo-dev/balanza/internal/period"
)

// Header is the fixed column order of the master-ledger artifact.
var Header = []interface{}{
	"Categoría",
	"Clase", "Nombre clase",
	"Grupo", "Nombre grupo",
	"Cuenta", "Nombre cuenta",
	"Subcuenta", "Nombre subcuenta",
	"Auxiliar", "Nombre auxiliar",
	"Sucursal", "Nombre tercero",
	"Saldo inicial", "Movimiento débito", "Movimiento crédito", "Saldo mes", "Saldo final",
	"Fecha",
}

const (
	numFields         = 19
	colCategory       = 0
	colClass          = 1
	colClassName      = 2
	colGroup          = 3
	colGroupName      = 4
	colAccount        = 5
	colAccountName    = 6
	colSubaccount     = 7
	colSubaccountName = 8
	colAuxiliary      = 9
	colAuxiliaryName  = 10
	colBranch         = 11
	colCounterparty   = 12
	colOpening        = 13
	colDebit          = 14
	colCredit         = 15
	colMovement       = 16
	colClosing        = 17
	colDate           = 18
)

// marshalRow converts a Row to one sheet row. Metrics are written as
// numbers; everything else, including the period date, as text.
func marshalRow(r model.Row) []interface{} {
	cells := make([]interface{}, numFields)
	cells[colCategory] = r.Category
	cells[colClass] = r.Class
	cells[colClassName] = r.ClassName
	cells[colGroup] = r.Group
	cells[colGroupName] = r.GroupName
	cells[colAccount] = r.Account
	cells[colAccountName] = r.AccountName
	cells[colSubaccount] = r.Subaccount
	cells[colSubaccountName] = r.SubaccountName
	cells[colAuxiliary] = r.Auxiliary
	cells[colAuxiliaryName] = r.AuxiliaryName
	cells[colBranch] = r.Branch
	cells[colCounterparty] = r.Counterparty
	cells[colOpening] = r.OpeningBalance.InexactFloat64()
	cells[colDebit] = r.Debit.InexactFloat64()
	cells[colCredit] = r.Credit.InexactFloat64()
	cells[colMovement] = r.PeriodMovement.InexactFloat64()
	cells[colClosing] = r.ClosingBalance.InexactFloat64()
	cells[colDate] = r.Period.String()
	return cells
}

// unmarshalRow converts one sheet row back to a Row. Rows persisted by
// older runs may come back shorter when trailing cells are blank.
func unmarshalRow(rec []string) (model.Row, error) {
	if len(rec) > numFields {
		return model.Row{}, fmt.Errorf("expected at most %d fields, got %d", numFields, len(rec))
	}
	at := func(i int) string {
		if i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	p, err := period.ParseEnd(strings.TrimSpace(at(colDate)))
	if err != nil {
		return model.Row{}, err
	}

	return model.Row{
		Category:       at(colCategory),
		Class:          at(colClass),
		ClassName:      at(colClassName),
		Group:          at(colGroup),
		GroupName:      at(colGroupName),
		Account:        at(colAccount),
		AccountName:    at(colAccountName),
		Subaccount:     at(colSubaccount),
		SubaccountName: at(colSubaccountName),
		Auxiliary:      at(colAuxiliary),
		AuxiliaryName:  at(colAuxiliaryName),
		Branch:         at(colBranch),
		Counterparty:   at(colCounterparty),
		OpeningBalance: parseAmount(at(colOpening)),
		Debit:          parseAmount(at(colDebit)),
		Credit:         parseAmount(at(colCredit)),
		PeriodMovement: parseAmount(at(colMovement)),
		ClosingBalance: parseAmount(at(colClosing)),
		Period:         p,
	}, nil
}

func parseAmount(s string) decimal.Decimal {
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
