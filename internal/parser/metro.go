package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// MetroDialect handles statements with separate debit and credit columns:
//
//	Date | Description | Paid out | Paid in | Balance
//
// The empty column is printed as 0.00.
// Example line: "15/01/2024 CARD PAYMENT TESCO STORES 25.99 0.00 1,234.56"
type MetroDialect struct{}

func (d *MetroDialect) Name() string {
	return "metro"
}

// Metro transaction line pattern:
// DATE  DESCRIPTION  PAID_OUT  PAID_IN  BALANCE
var metroTxnPattern = regexp.MustCompile(
	`^(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+?)` +
		`\s+(` + amountText + `)\s+(` + amountText + `)\s+(` + amountText + `)$`,
)

func (d *MetroDialect) Match(lines []string, i int, _ *State) (models.Transaction, int, bool) {
	m := metroTxnPattern.FindStringSubmatch(lines[i])
	if m == nil {
		return models.Transaction{}, 0, false
	}

	paidOut, err1 := parseAmount(m[3])
	paidIn, err2 := parseAmount(m[4])
	bal, err3 := parseAmount(m[5])
	if err1 != nil || err2 != nil || err3 != nil {
		return models.Transaction{}, 1, false
	}

	txn := models.Transaction{
		RawDate:     m[1],
		Description: strings.TrimSpace(m[2]),
		Balance:     decimal.NewNullDecimal(bal),
	}
	txn.Amount, txn.Direction, txn.Provenance.Rule = pickColumn(paidOut, paidIn)
	return txn, 1, true
}

// pickColumn chooses magnitude and direction from a debit and a credit
// column: the non-zero column wins; if both are non-zero the larger wins.
func pickColumn(debit, credit decimal.Decimal) (decimal.Decimal, models.Direction, string) {
	switch {
	case !debit.IsZero() && credit.IsZero():
		return debit, models.Debit, "debit_column"
	case debit.IsZero() && !credit.IsZero():
		return credit, models.Credit, "credit_column"
	case credit.GreaterThan(debit):
		return credit, models.Credit, "larger_column"
	case !debit.IsZero():
		return debit, models.Debit, "larger_column"
	default:
		return decimal.Zero, models.Debit, "zero_columns"
	}
}
