package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func TestClassifyLines(t *testing.T) {
	pages := []models.Page{
		{Number: 1, Text: "Date Narration Withdrawal Amt. Closing Balance\n01/02/24 SALARY 50000.00 150000.00\nPage 1 of 2"},
		{Number: 2, Text: "02/02/24 OPENING 1,00,000.00\n03/02/24 CHQ 12.5 100.00\n15 Jan 2024 ATM WDL ₹2,000.00 98,000.00\n04/02/24 NOTE ONLY"},
	}
	lines := ClassifyLines(pages)
	require.Len(t, lines, 5)

	salary := lines[0]
	assert.Equal(t, 1, salary.Page)
	assert.Equal(t, "01/02/24", salary.RawDate)
	assert.Equal(t, "SALARY", salary.Description)
	assert.Equal(t, "50000", salary.Amount.Decimal.String())
	assert.Equal(t, "150000", salary.Balance.Decimal.String())
	assert.True(t, salary.Complete())

	// a lone trailing number is the balance
	assert.False(t, lines[1].Amount.Valid)
	assert.True(t, lines[1].Balance.Valid)

	// malformed numeric token leaves the field null
	assert.False(t, lines[2].Amount.Valid)
	assert.Equal(t, "CHQ", lines[2].Description)

	assert.Equal(t, "15 Jan 2024", lines[3].RawDate)
	assert.Equal(t, "2000", lines[3].Amount.Decimal.String())
	assert.Equal(t, 2, lines[3].Page)

	assert.Equal(t, "NOTE ONLY", lines[4].Description)
	assert.False(t, lines[4].Balance.Valid)

	complete := CompleteLines(lines)
	require.Len(t, complete, 2)
	assert.Equal(t, "SALARY", complete[0].Description)
	assert.Equal(t, "ATM WDL", complete[1].Description)
}
