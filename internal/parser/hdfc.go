package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// HDFCDialect handles the compact single-line layout:
//
//	DD/MM/YY | Narration | Amount | Balance
//
// No direction column is printed; the narration's credit vocabulary decides.
// Example line: "01/02/24 NEFT CR-ACME PAYROLL 50,000.00 1,50,000.00"
type HDFCDialect struct{}

func (d *HDFCDialect) Name() string {
	return "hdfc"
}

var hdfcTxnPattern = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{2,4})\s+(.+?)\s+(` + amountText + `)\s+(` + amountText + `)$`,
)

func (d *HDFCDialect) Match(lines []string, i int, _ *State) (models.Transaction, int, bool) {
	m := hdfcTxnPattern.FindStringSubmatch(lines[i])
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
	txn.Direction, txn.Provenance.Rule = directionByKeywords(txn.Description)
	return txn, 1, true
}
