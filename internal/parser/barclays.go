package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// BarclaysDialect handles text-date statements with a single amount column:
//
//	Date | Description | Amount | Balance
//
// Date format: DD Mon YYYY (or DD Mon YY)
// Example: "15 Jan 2024 CARD PAYMENT TO TESCO STORES 25.99 1,234.56"
//
// There is no marker column, so direction comes from the running balance:
// ascending means credit, descending means debit. The first row of a
// statement without a printed opening balance falls back to the credit
// vocabulary.
type BarclaysDialect struct{}

func (d *BarclaysDialect) Name() string {
	return "barclays"
}

var barclaysTextDatePattern = regexp.MustCompile(
	`(?i)^(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})\s+` +
		`(.+?)\s+[£\x{00A3}]?(` + amountText + `)\s+[£\x{00A3}]?(` + amountText + `)$`,
)

func (d *BarclaysDialect) Match(lines []string, i int, st *State) (models.Transaction, int, bool) {
	m := barclaysTextDatePattern.FindStringSubmatch(lines[i])
	if m == nil {
		return models.Transaction{}, 0, false
	}

	amt, err := parseAmount(m[3])
	if err != nil {
		return models.Transaction{}, 1, false
	}
	bal, err := parseAmount(m[4])
	if err != nil {
		return models.Transaction{}, 1, false
	}

	txn := models.Transaction{
		RawDate:     m[1],
		Description: strings.TrimSpace(m[2]),
		Amount:      amt,
		Balance:     decimal.NewNullDecimal(bal),
	}
	txn.Direction, txn.Provenance.Rule = classifyByBalance(bal, st.PrevBalance, txn.Description)
	return txn, 1, true
}

// classifyByBalance compares the new running balance with the previous one.
// Falls back to the description vocabulary when no previous balance exists.
func classifyByBalance(bal decimal.Decimal, prev decimal.NullDecimal, desc string) (models.Direction, string) {
	if !prev.Valid {
		return directionByKeywords(desc)
	}
	if bal.GreaterThan(prev.Decimal) {
		return models.Credit, "balance_ascending"
	}
	return models.Debit, "balance_descending"
}
