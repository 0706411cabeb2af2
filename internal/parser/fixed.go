package parser

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Dialect is a fixed-format line parser for one statement layout.
type Dialect interface {
	// Name returns the dialect identifier used in provenance tags.
	Name() string
	// Match tries the dialect against lines[i] (and lines[i+1] for two-line
	// layouts). Consumed is 0 when the dialect does not apply. A match whose
	// numeric text is malformed consumes its lines with ok=false.
	Match(lines []string, i int, st *State) (txn models.Transaction, consumed int, ok bool)
}

// State is the per-run memory shared by dialects while walking one document.
type State struct {
	PrevBalance decimal.NullDecimal
}

func (st *State) advance(bal decimal.NullDecimal) {
	if bal.Valid {
		st.PrevBalance = bal
	}
}

// FixedExtractor runs an ordered list of dialects over a document's lines.
type FixedExtractor struct {
	dialects []Dialect
}

// NewFixedExtractor returns an extractor trying dialects in the given order.
func NewFixedExtractor(dialects ...Dialect) *FixedExtractor {
	return &FixedExtractor{dialects: dialects}
}

// DefaultDialects returns the built-in dialects in matching priority order.
// Wider layouts come first so a narrower pattern cannot swallow their columns.
func DefaultDialects() []Dialect {
	return []Dialect{
		&MetroDialect{},
		&SBIDialect{},
		&BarclaysDialect{},
		&HDFCDialect{},
	}
}

// NewDefaultFixedExtractor returns an extractor over DefaultDialects.
func NewDefaultFixedExtractor() *FixedExtractor {
	return NewFixedExtractor(DefaultDialects()...)
}

// Dialects returns the dialect names in priority order.
func (e *FixedExtractor) Dialects() []string {
	names := make([]string, len(e.dialects))
	for i, d := range e.dialects {
		names[i] = d.Name()
	}
	return names
}

// Extract turns stripped lines into transactions. The first dialect that
// matches a line consumes it; no line yields more than one transaction.
// Extraction state is local to the call, so identical input always gives
// identical output.
func (e *FixedExtractor) Extract(lines []string) ([]models.Transaction, []models.DebugLine) {
	var transactions []models.Transaction
	var debugLines []models.DebugLine
	st := &State{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		dl := models.DebugLine{LineNum: i + 1, Text: truncate(line)}

		if bal, ok := extractOpeningBalance(line); ok {
			st.PrevBalance = decimal.NewNullDecimal(bal)
			dl.Result = "opening-balance"
			debugLines = append(debugLines, dl)
			continue
		}

		matched := false
		for _, d := range e.dialects {
			txn, consumed, ok := d.Match(lines, i, st)
			if consumed == 0 {
				continue
			}
			matched = true
			dl.Method = d.Name()
			switch {
			case !ok:
				dl.Result = "malformed"
			case consumed > 1:
				dl.Result = "joined"
			default:
				dl.Result = "parsed"
			}
			if ok {
				txn.Date = ParseDate(txn.RawDate)
				txn.Provenance.Path = models.PathFixed
				txn.Provenance.Dialect = d.Name()
				transactions = append(transactions, txn)
				st.advance(txn.Balance)
			}
			i += consumed - 1
			break
		}
		if !matched {
			dl.Result = "unmatched"
		}
		debugLines = append(debugLines, dl)
	}

	return transactions, debugLines
}

func truncate(line string) string {
	// Truncate long lines for debug display
	if len(line) > 120 {
		return line[:120] + "..."
	}
	return line
}

// directionByKeywords applies the credit vocabulary: presence means credit.
func directionByKeywords(desc string) (models.Direction, string) {
	if hasCreditToken(desc) {
		return models.Credit, "credit_keyword"
	}
	return models.Debit, "no_credit_keyword"
}
