package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a transaction: money in (CREDIT) or money out (DEBIT).
type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

// ExtractionPath identifies which extraction strategy produced a transaction.
type ExtractionPath string

const (
	PathFixed ExtractionPath = "fixed-format"
	PathDelta ExtractionPath = "delta-inferred"
)

// Provenance records how a transaction's fields were derived.
// Rule is the direction rule that fired (delta-inferred rows) or the
// dialect-specific rule (fixed-format rows).
type Provenance struct {
	Path    ExtractionPath `json:"path"`
	Dialect string         `json:"dialect,omitempty"`
	Rule    string         `json:"rule"`
}

func (p Provenance) String() string {
	s := string(p.Path)
	if p.Dialect != "" {
		s += ":" + p.Dialect
	}
	return s + "/" + p.Rule
}

// Transaction represents a single normalized ledger row.
type Transaction struct {
	Date        *time.Time          `json:"date"`
	RawDate     string              `json:"rawDate"`
	Description string              `json:"description"`
	Direction   Direction           `json:"direction"`
	Amount      decimal.Decimal     `json:"amount"` // always >= 0
	Balance     decimal.NullDecimal `json:"balance"`
	Source      string              `json:"source"`
	Category    string              `json:"category,omitempty"`
	Provenance  Provenance          `json:"provenance"`
}

// Signed returns the amount with the sign implied by Direction.
func (t Transaction) Signed() decimal.Decimal {
	if t.Direction == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DebugLine captures what the fixed-format extractor did with each input line.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"` // "parsed", "joined", "unmatched"
	Method  string `json:"method,omitempty"`
}
