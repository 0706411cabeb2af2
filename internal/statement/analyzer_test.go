package statement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/observability"
)

const deltaStatement = `Date Narration Withdrawal Amt. Closing Balance
01/02/24 SALARY 50000.00 150000.00
02/02/24 ATM WDL 2000.00 148000.00
03/02/24 REFUND 500.00 148500.00`

const metroStatement = `Metro Bank
Date Description Paid out Paid in Balance
15/01/2024 CARD PAYMENT TESCO STORES 25.99 0.00 1,234.56
16/01/2024 DIRECT DEBIT SKY UK LTD 45.00 0.00 1,189.56
17/01/2024 BANK CREDIT SALARY 0.00 2,500.00 3,689.56`

func TestAnalyze_DeltaInferredDocument(t *testing.T) {
	metrics := observability.NewMetrics()
	a := NewAnalyzer(WithMetrics(metrics))

	res := a.Analyze(models.NewDocument("feb.txt", []string{deltaStatement}))
	require.NoError(t, res.Err)
	assert.Equal(t, models.PathDelta, res.Path)
	require.NotNil(t, res.Hypothesis)
	assert.Equal(t, "100000.00", res.Hypothesis.Opening.StringFixed(2))

	require.Len(t, res.Transactions, 3)
	var dirs []models.Direction
	var rules []string
	for _, txn := range res.Transactions {
		dirs = append(dirs, txn.Direction)
		rules = append(rules, txn.Provenance.Rule)
		assert.Equal(t, "feb.txt", txn.Source)
	}
	assert.Equal(t, []models.Direction{models.Credit, models.Debit, models.Credit}, dirs)
	assert.Equal(t, []string{"delta_matches_plus_amount", "delta_matches_minus_amount", "delta_matches_plus_amount"}, rules)

	assert.True(t, res.Summary.IsEmpty())
	assert.Equal(t, 1.0, metrics.DocumentCount("delta-inferred", "ok"))
	assert.Equal(t, 3.0, metrics.TransactionCount("delta-inferred"))
	assert.Equal(t, 2.0, metrics.RuleCount("delta_matches_plus_amount"))
}

func TestAnalyze_FixedFormatDocument(t *testing.T) {
	res := NewAnalyzer().Analyze(models.NewDocument("jan.txt", []string{metroStatement}))
	assert.Equal(t, models.PathFixed, res.Path)
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, models.Debit, res.Transactions[0].Direction)
	assert.Equal(t, models.Credit, res.Transactions[2].Direction)
	assert.Equal(t, "metro", res.Transactions[2].Provenance.Dialect)
	assert.Equal(t, "jan.txt", res.Transactions[1].Source)
	assert.NotEmpty(t, res.DebugLines)
}

func TestAnalyze_BlankDocumentIsEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	a := NewAnalyzer(WithLogger(zap.New(core)))

	res := a.Analyze(models.NewDocument("scan.pdf", []string{"", "  \n "}))
	assert.True(t, res.Empty)
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Transactions)
	assert.Equal(t, 1, logs.FilterMessage("document has no extractable text").Len())
}

func TestAnalyzeFiles_OrderAndIsolation(t *testing.T) {
	a := NewAnalyzer(WithConcurrency(2))
	inputs := []Input{
		{Name: "feb.txt", Data: []byte(deltaStatement)},
		{Name: "broken.pdf", Data: []byte("not a pdf")},
		{Name: "jan.txt", Data: []byte(metroStatement)},
	}

	results := a.AnalyzeFiles(context.Background(), inputs)
	require.Len(t, results, 3)
	assert.Equal(t, "feb.txt", results[0].Name)
	assert.Len(t, results[0].Transactions, 3)
	require.Error(t, results[1].Err)
	assert.True(t, errors.Is(results[1].Err, extractor.ErrUnreadable))
	assert.Equal(t, "jan.txt", results[2].Name)
	assert.Len(t, results[2].Transactions, 3)
}

func TestAnalyzeAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewAnalyzer().AnalyzeAll(ctx, []*models.Document{
		models.NewDocument("a.txt", []string{deltaStatement}),
	})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestRun_AggregatesAndCategorizes(t *testing.T) {
	a := NewAnalyzer()
	l := a.Run(context.Background(), []Input{
		{Name: "jan.txt", Data: []byte(metroStatement)},
		{Name: "feb.txt", Data: []byte(deltaStatement)},
	}, nil)

	require.Len(t, l.Transactions, 6)
	assert.Equal(t, "jan.txt", l.Transactions[0].Source)
	assert.Equal(t, "feb.txt", l.Transactions[5].Source)
	assert.Equal(t, "Grocery", l.Transactions[0].Category)
	assert.Equal(t, "Credit card payment", l.Transactions[2].Category)
	assert.Equal(t, "Misc", l.Transactions[3].Category)

	d := l.DisplayTotals()
	assert.Equal(t, "computed", d.CreditsSource)
	assert.Equal(t, "53000.00", d.Credits.StringFixed(2))
}

func TestRunDocuments_ActiveOrder(t *testing.T) {
	a := NewAnalyzer()
	a.Classifier().Index().AddKeyword("Payroll", "salary")

	l := a.RunDocuments(context.Background(), []*models.Document{
		models.NewDocument("jan.txt", []string{metroStatement}),
	}, []string{"Payroll", "Credit card payment"})
	assert.Equal(t, "Payroll", l.Transactions[2].Category)
}
