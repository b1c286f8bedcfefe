package model

import (
	"github.com/shopspring/decimal"

	"github.com/acertijo-dev/balanza/internal/period"
)

// NotApplicable is the placeholder used whenever a lookup or derivation
// has no valid value. Persisted cells never hold an empty string.
const NotApplicable = "no aplica"

// Classification labels derived from the class digit.
const (
	CategoryBalanceSheet    = "Balance general"
	CategoryIncomeStatement = "Estado de Resultado"
)

// Row is one transactional account's figures for one period, enriched
// with the account-code hierarchy. Immutable once produced.
type Row struct {
	Category string // balance sheet vs income statement

	Class          string // first digit
	ClassName      string
	Group          string // first 2 digits
	GroupName      string
	Account        string // first 4 digits
	AccountName    string
	Subaccount     string // first 6 digits
	SubaccountName string
	Auxiliary      string // first 8 digits, or NotApplicable
	AuxiliaryName  string

	Branch       string
	Counterparty string

	OpeningBalance decimal.Decimal
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	PeriodMovement decimal.Decimal // Debit - Credit
	ClosingBalance decimal.Decimal

	Period period.Period
}

// Classify returns the classification label for a class digit. Classes
// 1 (assets), 2 (liabilities), 3 (equity) and 9 (memorandum) report on
// the balance sheet; everything else is income-statement activity.
func Classify(class string) string {
	switch class {
	case "1", "2", "3", "9":
		return CategoryBalanceSheet
	default:
		return CategoryIncomeStatement
	}
}
