package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		path   models.ExtractionPath
		marker string
	}{
		{"closing balance header", "Date Narration Withdrawal Amt. Closing Balance", models.PathDelta, "closing balance"},
		{"abbreviated closing bal", "Txn Date  Amount  Closing Bal", models.PathDelta, "closing bal"},
		{"summary block", "STATEMENT SUMMARY\nOpening Balance 100.00", models.PathDelta, "statement summary"},
		{"withdrawal amount", "Withdrawal Amount  Deposit Amount", models.PathDelta, "withdrawal amount"},
		{"debits and credits", "Total Debits 10.00\nTotal Credits 5.00", models.PathDelta, "debits+credits"},
		{"debits alone", "Total Debits 10.00", models.PathFixed, ""},
		{"fixed layout", metroPage, models.PathFixed, ""},
		{"empty", "", models.PathFixed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.path, Route(tt.text))
			assert.Equal(t, tt.marker, DeltaMarker(tt.text))
		})
	}
}
