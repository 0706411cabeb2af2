package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAmount(t *testing.T, want string, got decimal.NullDecimal, field string) {
	t.Helper()
	require.True(t, got.Valid, "%s: expected a value", field)
	assert.True(t, got.Decimal.Equal(decimal.RequireFromString(want)), "%s: got %s, want %s", field, got.Decimal, want)
}

func TestExtract_SummaryBlockWithCounts(t *testing.T) {
	text := `Page 1 of 1
STATEMENT SUMMARY :-
Opening Balance   Dr Count   Cr Count   Debits   Credits   Closing Bal
1,00,000.00   5   3   12,000.00   50,500.00   1,38,500.00
Generated On: 04/03/24`

	res := Extract(text)
	assert.Equal(t, StrategySummaryBlock, res.Strategy)
	assertAmount(t, "100000.00", res.Summary.OpeningBalance, "opening")
	assertAmount(t, "12000.00", res.Summary.TotalDebits, "debits")
	assertAmount(t, "50500.00", res.Summary.TotalCredits, "credits")
	assertAmount(t, "138500.00", res.Summary.ClosingBalance, "closing")
}

func TestExtract_SummaryBlockWithoutCounts(t *testing.T) {
	text := "Statement Summary\nOpening Balance Debits Credits Closing Balance\n100.00 20.00 30.00 110.00"

	res := Extract(text)
	assert.Equal(t, StrategySummaryBlock, res.Strategy)
	assertAmount(t, "100.00", res.Summary.OpeningBalance, "opening")
	assertAmount(t, "20.00", res.Summary.TotalDebits, "debits")
	assertAmount(t, "30.00", res.Summary.TotalCredits, "credits")
	assertAmount(t, "110.00", res.Summary.ClosingBalance, "closing")
}

func TestExtract_OpeningLabelTrailingTotals(t *testing.T) {
	text := `Opening Balance: 5,000.00
01/02/24 UPI/GROCER 1,200.00 3,800.00
02/02/24 NEFT CR ACME 3,000.00 6,800.00
Totals 1,200.00 3,000.00 6,800.00`

	res := Extract(text)
	assert.Equal(t, StrategyOpeningLabel, res.Strategy)
	assertAmount(t, "5000.00", res.Summary.OpeningBalance, "opening")
	assertAmount(t, "1200.00", res.Summary.TotalDebits, "debits")
	assertAmount(t, "3000.00", res.Summary.TotalCredits, "credits")
	assertAmount(t, "6800.00", res.Summary.ClosingBalance, "closing")
}

func TestExtract_OpeningLabelTooFewTokens(t *testing.T) {
	res := Extract("opening balance 42.00 and nothing else 1.00")
	assert.Equal(t, StrategyOpeningLabel, res.Strategy)
	assertAmount(t, "42.00", res.Summary.OpeningBalance, "opening")
	assert.False(t, res.Summary.TotalDebits.Valid)
	assert.False(t, res.Summary.TotalCredits.Valid)
	assert.False(t, res.Summary.ClosingBalance.Valid)
}

func TestExtract_DebitsCreditsPair(t *testing.T) {
	text := `Total Debits: 1,250.75   Total Credits: 900.00
Balance carried forward 2,649.25`

	res := Extract(text)
	assert.Equal(t, StrategyDebitsCredits, res.Strategy)
	assert.False(t, res.Summary.OpeningBalance.Valid)
	assertAmount(t, "1250.75", res.Summary.TotalDebits, "debits")
	assertAmount(t, "900.00", res.Summary.TotalCredits, "credits")
	assertAmount(t, "2649.25", res.Summary.ClosingBalance, "closing")
}

func TestExtract_NothingPrinted(t *testing.T) {
	for _, text := range []string{
		"",
		"15/01/2024 CARD PAYMENT TESCO 25.99 1,234.56",
		"Debits and credits are shown below",
	} {
		res := Extract(text)
		assert.Empty(t, res.Strategy, "text %q", text)
		assert.True(t, res.Summary.IsEmpty(), "text %q", text)
	}
}

func TestExtract_RejectsOverlongFraction(t *testing.T) {
	res := Extract("Opening Balance: 1234.567")
	assert.Empty(t, res.Strategy)
	assert.True(t, res.Summary.IsEmpty())

	res = Extract("Total Debits: 10.00 Total Credits: 20.005")
	assert.Empty(t, res.Strategy, "credits with three decimals")

	text := `Opening Balance: 5,000.00
Totals 1,200.00 3,000.00 6,800.00 rate 7.125`
	res = Extract(text)
	assert.Equal(t, StrategyOpeningLabel, res.Strategy)
	assertAmount(t, "6800.00", res.Summary.ClosingBalance, "closing")
}

func TestStrategies_Order(t *testing.T) {
	var ids []string
	for _, s := range Strategies() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{StrategySummaryBlock, StrategyOpeningLabel, StrategyDebitsCredits}, ids)
}
