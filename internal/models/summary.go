package models

import "github.com/shopspring/decimal"

// StatementSummary holds the totals printed on a statement. Every field is
// independently nullable; a null field means "not printed", never zero.
type StatementSummary struct {
	OpeningBalance decimal.NullDecimal `json:"openingBalance"`
	TotalDebits    decimal.NullDecimal `json:"totalDebits"`
	TotalCredits   decimal.NullDecimal `json:"totalCredits"`
	ClosingBalance decimal.NullDecimal `json:"closingBalance"`
}

// IsEmpty reports whether no field was extracted.
func (s StatementSummary) IsEmpty() bool {
	return !s.OpeningBalance.Valid && !s.TotalDebits.Valid &&
		!s.TotalCredits.Valid && !s.ClosingBalance.Valid
}

// HypothesisOrigin names where an opening balance hypothesis came from.
type HypothesisOrigin string

const (
	OriginPrinted     HypothesisOrigin = "printed_opening_balance"
	OriginFirstDebit  HypothesisOrigin = "first_transaction_debit"
	OriginFirstCredit HypothesisOrigin = "first_transaction_credit"
)

// OpeningBalanceHypothesis is a candidate starting balance for delta inference.
// Lower Priority wins ties.
type OpeningBalanceHypothesis struct {
	Origin   HypothesisOrigin `json:"origin"`
	Opening  decimal.Decimal  `json:"opening"`
	Priority int              `json:"priority"`
	Score    int              `json:"score"`
}

// DocumentResult is the outcome of extracting a single document.
type DocumentResult struct {
	DocumentID      string                    `json:"documentId"`
	Name            string                    `json:"name"`
	Path            ExtractionPath            `json:"path,omitempty"`
	Transactions    []Transaction             `json:"transactions"`
	Summary         StatementSummary          `json:"summary"`
	SummaryStrategy string                    `json:"summaryStrategy,omitempty"`
	Hypothesis      *OpeningBalanceHypothesis `json:"hypothesis,omitempty"`
	Empty           bool                      `json:"empty,omitempty"`
	DebugLines      []DebugLine               `json:"debugLines,omitempty"`
	Err             error                     `json:"-"`
}
