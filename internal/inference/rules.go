// Package inference assigns transaction directions for statements that
// print only an amount and a running balance. It trusts the printed balances
// and derives each sign from consecutive balance deltas, falling back to
// description keywords and finally to the sign of the delta.
package inference

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
)

// Rule names the step of the fallback chain that decided a direction.
type Rule string

const (
	RulePlusAmount  Rule = "delta_matches_plus_amount"
	RuleMinusAmount Rule = "delta_matches_minus_amount"
	RuleKeywords    Rule = "description_keywords"
	RuleDeltaSign   Rule = "delta_sign"
)

// Arithmetic reports whether the rule resolved by a direct balance match.
func (r Rule) Arithmetic() bool {
	return r == RulePlusAmount || r == RuleMinusAmount
}

// Config holds the inherited numeric heuristics.
type Config struct {
	// Tolerance is the absolute slack allowed between a delta and ±amount.
	Tolerance decimal.Decimal
	// SampleSize is how many leading rows score a hypothesis.
	SampleSize int
	// ZeroDelta is the direction given to an exactly-zero delta by the sign rule.
	ZeroDelta models.Direction
	// Precision is the currency's minor-unit precision used to round deltas.
	Precision int32
}

// DefaultConfig returns the tolerance 0.6, window 8, zero-as-debit defaults.
func DefaultConfig() Config {
	return Config{
		Tolerance:  decimal.New(6, -1),
		SampleSize: 8,
		ZeroDelta:  models.Debit,
		Precision:  2,
	}
}

// Vocabulary is the keyword fallback used when the arithmetic is ambiguous.
// The longest contained token decides; equal lengths go to credit.
type Vocabulary struct {
	Credit []string
	Debit  []string
}

// DefaultVocabulary extends the fixed-format parser's credit tokens and
// debit phrases with balance-statement wording.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Credit: append(parser.CreditTokens(),
			"RTGS CR", "BY TRANSFER", "SALARY", "CASHBACK", "REVERSAL", "DEPOSIT",
		),
		Debit: append(parser.DebitPhrases(),
			"ATM", "WDL", "WITHDRAWAL", "POS", "DEBIT", "EMI", "CHARGES",
			"FEE", "BILL", "NEFT DR", "RTGS DR", "TO TRANSFER", "PURCHASE",
		),
	}
}

// Match returns the direction implied by desc, if any token matches.
func (v Vocabulary) Match(desc string) (models.Direction, bool) {
	return parser.MatchDirection(desc, v.Credit, v.Debit)
}
