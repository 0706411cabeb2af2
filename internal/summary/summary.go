// Package summary recovers a statement's printed totals (opening balance,
// total debits, total credits, closing balance) from its full text.
package summary

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
)

// Strategy identifiers, in the order they are tried.
const (
	StrategySummaryBlock  = "summary_block"
	StrategyOpeningLabel  = "opening_label_trailing_totals"
	StrategyDebitsCredits = "debits_credits_pair"
)

// num is an amount with exactly two decimals; "1234.567" is not one.
const num = `(\d[\d,]*\.\d{2})\b`

var (
	// STATEMENT SUMMARY
	// Opening Balance  Dr Count  Cr Count  Debits  Credits  Closing Bal
	// 1,00,000.00      5         3         12,000.00 50,500.00 1,38,500.00
	summaryBlockPattern = regexp.MustCompile(
		`(?is)statement\s+summary.*?opening\s+balance.*?closing\s+bal(?:ance)?\b[^\d]*?` +
			num + `\s+(?:\d+\s+\d+\s+)?` + num + `\s+` + num + `\s+` + num,
	)
	openingLabelPattern  = regexp.MustCompile(`(?i)opening\s+balance\s*:?\s*` + num)
	debitsCreditsPattern = regexp.MustCompile(`(?is)debits\s*:?\s*` + num + `.*?credits\s*:?\s*` + num)
	numericToken         = regexp.MustCompile(num)
)

// Strategy is one pattern family. Extract reports false when the family does
// not apply to the text.
type Strategy struct {
	ID      string
	Extract func(text string) (models.StatementSummary, bool)
}

// Result is a summary tagged with the strategy that produced it. Strategy is
// empty when no family matched; all fields are then null.
type Result struct {
	Strategy string                  `json:"strategy,omitempty"`
	Summary  models.StatementSummary `json:"summary"`
}

// Strategies returns the pattern families in priority order.
func Strategies() []Strategy {
	return []Strategy{
		{ID: StrategySummaryBlock, Extract: fromSummaryBlock},
		{ID: StrategyOpeningLabel, Extract: fromOpeningLabel},
		{ID: StrategyDebitsCredits, Extract: fromDebitsCredits},
	}
}

// Extract runs the strategies in order and returns the first match. It never
// fails: a statement without printed totals is a normal outcome.
func Extract(text string) Result {
	for _, s := range Strategies() {
		if sum, ok := s.Extract(text); ok {
			return Result{Strategy: s.ID, Summary: sum}
		}
	}
	return Result{}
}

func fromSummaryBlock(text string) (models.StatementSummary, bool) {
	m := summaryBlockPattern.FindStringSubmatch(text)
	if m == nil {
		return models.StatementSummary{}, false
	}
	return models.StatementSummary{
		OpeningBalance: amount(m[1]),
		TotalDebits:    amount(m[2]),
		TotalCredits:   amount(m[3]),
		ClosingBalance: amount(m[4]),
	}, true
}

func fromOpeningLabel(text string) (models.StatementSummary, bool) {
	m := openingLabelPattern.FindStringSubmatch(text)
	if m == nil {
		return models.StatementSummary{}, false
	}
	sum := models.StatementSummary{OpeningBalance: amount(m[1])}
	if tokens := numericToken.FindAllString(text, -1); len(tokens) >= 3 {
		tail := tokens[len(tokens)-3:]
		sum.TotalDebits = amount(tail[0])
		sum.TotalCredits = amount(tail[1])
		sum.ClosingBalance = amount(tail[2])
	}
	return sum, true
}

func fromDebitsCredits(text string) (models.StatementSummary, bool) {
	m := debitsCreditsPattern.FindStringSubmatch(text)
	if m == nil {
		return models.StatementSummary{}, false
	}
	sum := models.StatementSummary{
		TotalDebits:  amount(m[1]),
		TotalCredits: amount(m[2]),
	}
	if tokens := numericToken.FindAllString(text, -1); len(tokens) > 0 {
		sum.ClosingBalance = amount(tokens[len(tokens)-1])
	}
	return sum, true
}

func amount(s string) decimal.NullDecimal {
	d, err := parser.ParseAmount(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
