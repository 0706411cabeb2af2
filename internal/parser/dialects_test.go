package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func TestSBIDialect_SingleAndTwoLine(t *testing.T) {
	lines := []string{
		"03/02/2024 BY TRANSFER-NEFT ACME 1,200.00 CR 5,400.00",
		"04/02/2024 TO TRANSFER-INB RENT FOR FEBRUARY",
		"8,000.00 DR 1,400.00",
		"05/02/2024 ATM CASH 500.00 Dr. 900.00 Cr.",
	}
	txns, debug := NewFixedExtractor(&SBIDialect{}).Extract(lines)
	require.Len(t, txns, 3)

	assert.Equal(t, models.Credit, txns[0].Direction)
	assert.Equal(t, "explicit_marker", txns[0].Provenance.Rule)

	assert.Equal(t, "TO TRANSFER-INB RENT FOR FEBRUARY", txns[1].Description)
	assert.Equal(t, "8000", txns[1].Amount.String())
	assert.Equal(t, models.Debit, txns[1].Direction)
	assert.Equal(t, "explicit_marker_two_line", txns[1].Provenance.Rule)

	assert.Equal(t, models.Debit, txns[2].Direction)
	assert.Equal(t, "900", txns[2].Balance.Decimal.String())

	// the joined pair is one debug entry
	require.Len(t, debug, 3)
	assert.Equal(t, "joined", debug[1].Result)
	assert.Equal(t, 4, debug[2].LineNum)
}

func TestSBIDialect_HeadWithoutTail(t *testing.T) {
	txns, debug := NewFixedExtractor(&SBIDialect{}).Extract([]string{
		"04/02/2024 TO TRANSFER-INB RENT",
		"continued narration",
	})
	assert.Empty(t, txns)
	assert.Equal(t, "unmatched", debug[0].Result)
}

func TestHDFCDialect_Vocabulary(t *testing.T) {
	lines := []string{
		"01/02/24 NEFT CR-ACME PAYROLL 50,000.00 1,50,000.00",
		"02/02/24 POS AMAZON 1,200.00 1,48,800.00",
		"03/02/24 INTEREST PAID 12.00 1,48,812.00",
	}
	txns, _ := NewFixedExtractor(&HDFCDialect{}).Extract(lines)
	require.Len(t, txns, 3)

	assert.Equal(t, models.Credit, txns[0].Direction)
	assert.Equal(t, "credit_keyword", txns[0].Provenance.Rule)
	assert.Equal(t, "150000", txns[0].Balance.Decimal.String())
	assert.Equal(t, models.Debit, txns[1].Direction)
	assert.Equal(t, "no_credit_keyword", txns[1].Provenance.Rule)
	assert.Equal(t, models.Credit, txns[2].Direction)
}

func TestFixedExtractor_OrderedAndExclusive(t *testing.T) {
	lines := []string{
		"15/01/2024 CARD PAYMENT TESCO STORES 25.99 0.00 1,234.56",
		"03/02/2024 BY TRANSFER-NEFT ACME 1,200.00 CR 5,400.00",
		"15 Jan 2024 COFFEE 3.20 996.80",
		"01/02/24 POS AMAZON 1,200.00 1,48,800.00",
		"Page 2 of 3",
	}
	e := NewDefaultFixedExtractor()
	assert.Equal(t, []string{"metro", "sbi", "barclays", "hdfc"}, e.Dialects())

	txns, debug := e.Extract(lines)
	require.Len(t, txns, 4, "each line yields at most one transaction")
	var dialects []string
	for _, txn := range txns {
		dialects = append(dialects, txn.Provenance.Dialect)
		assert.Equal(t, models.PathFixed, txn.Provenance.Path)
		assert.False(t, txn.Amount.IsNegative())
	}
	assert.Equal(t, []string{"metro", "sbi", "barclays", "hdfc"}, dialects)
	assert.Equal(t, "unmatched", debug[4].Result)
}

func TestFixedExtractor_Idempotent(t *testing.T) {
	lines := SplitLines([]string{metroPage})
	e := NewDefaultFixedExtractor()

	first, _ := e.Extract(lines)
	second, _ := e.Extract(lines)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Provenance, second[i].Provenance)
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
		assert.Equal(t, first[i].Direction, second[i].Direction)
	}
}

func TestFixedExtractor_Empty(t *testing.T) {
	txns, debug := NewDefaultFixedExtractor().Extract(nil)
	assert.Empty(t, txns)
	assert.Empty(t, debug)
}
