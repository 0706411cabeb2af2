package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// SBIDialect handles statements that print an explicit CR/DR marker next to
// the amount. The layout comes in two shapes:
//
// Single line:
//
//	"03/02/2024 BY TRANSFER-NEFT ACME 1,200.00 CR 5,400.00"
//
// Split across two lines, when the narration is long enough to push the
// numbers onto the next row:
//
//	"03/02/2024 TO TRANSFER-INB RENT FOR FEBRUARY"
//	"8,000.00 DR 1,400.00"
type SBIDialect struct{}

func (d *SBIDialect) Name() string {
	return "sbi"
}

var sbiTxnPattern = regexp.MustCompile(
	`(?i)^(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+?)\s+(` + amountText + `)\s*(CR|DR)\.?\s+(` + amountText + `)(?:\s*(?:CR|DR)\.?)?$`,
)

var (
	sbiHeadPattern   = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\s+(.+)$`)
	sbiAmountPattern = regexp.MustCompile(
		`(?i)^(` + amountText + `)\s*(CR|DR)\.?\s+(` + amountText + `)(?:\s*(?:CR|DR)\.?)?$`,
	)
)

func (d *SBIDialect) Match(lines []string, i int, _ *State) (models.Transaction, int, bool) {
	if m := sbiTxnPattern.FindStringSubmatch(lines[i]); m != nil {
		txn, ok := buildMarked(m[1], m[2], m[3], m[4], m[5])
		txn.Provenance.Rule = "explicit_marker"
		return txn, 1, ok
	}

	// Two-line shape: the head carries no amounts, the next line carries
	// nothing but amount, marker and balance.
	head := sbiHeadPattern.FindStringSubmatch(lines[i])
	if head == nil || amountTokenPattern.MatchString(head[2]) || i+1 >= len(lines) {
		return models.Transaction{}, 0, false
	}
	tail := sbiAmountPattern.FindStringSubmatch(lines[i+1])
	if tail == nil {
		return models.Transaction{}, 0, false
	}
	txn, ok := buildMarked(head[1], head[2], tail[1], tail[2], tail[3])
	txn.Provenance.Rule = "explicit_marker_two_line"
	return txn, 2, ok
}

func buildMarked(date, desc, amount, marker, balance string) (models.Transaction, bool) {
	amt, err := parseAmount(amount)
	if err != nil {
		return models.Transaction{}, false
	}
	bal, err := parseAmount(balance)
	if err != nil {
		return models.Transaction{}, false
	}
	txn := models.Transaction{
		RawDate:     date,
		Description: strings.TrimSpace(desc),
		Amount:      amt,
		Balance:     decimal.NewNullDecimal(bal),
		Direction:   models.Debit,
	}
	if strings.EqualFold(marker, "CR") {
		txn.Direction = models.Credit
	}
	return txn, true
}
