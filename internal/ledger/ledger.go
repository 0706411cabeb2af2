// Package ledger combines per-document extraction results into one ledger
// with reconciled totals.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Totals are the printed totals summed across documents. A field is null
// when no document printed it.
type Totals struct {
	Debits  decimal.NullDecimal `json:"debits"`
	Credits decimal.NullDecimal `json:"credits"`
}

// Totals sources reported by DisplayTotals.
const (
	SourcePrinted  = "printed"
	SourceComputed = "computed"
)

// Display is what a consumer should show as the ledger's totals.
type Display struct {
	Debits        decimal.Decimal `json:"debits"`
	Credits       decimal.Decimal `json:"credits"`
	DebitsSource  string          `json:"debitsSource"`
	CreditsSource string          `json:"creditsSource"`
}

// DocumentStatus is the per-document outcome kept alongside the ledger.
type DocumentStatus struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Path         models.ExtractionPath `json:"path,omitempty"`
	Transactions int                   `json:"transactions"`
	Empty        bool                  `json:"empty,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// Ledger is the merged output of a batch of documents.
type Ledger struct {
	Transactions []models.Transaction `json:"transactions"`
	Totals       Totals               `json:"totals"`
	Documents    []DocumentStatus     `json:"documents"`
}

// Aggregate concatenates results in the given order. Failed documents
// contribute no transactions and no totals but are still listed.
func Aggregate(results []models.DocumentResult) *Ledger {
	l := &Ledger{Transactions: []models.Transaction{}}
	for _, r := range results {
		st := DocumentStatus{
			ID:           r.DocumentID,
			Name:         r.Name,
			Path:         r.Path,
			Transactions: len(r.Transactions),
			Empty:        r.Empty,
		}
		if r.Err != nil {
			st.Error = r.Err.Error()
			st.Transactions = 0
			l.Documents = append(l.Documents, st)
			continue
		}
		l.Documents = append(l.Documents, st)
		l.Transactions = append(l.Transactions, r.Transactions...)
		l.Totals.Debits = addNull(l.Totals.Debits, r.Summary.TotalDebits)
		l.Totals.Credits = addNull(l.Totals.Credits, r.Summary.TotalCredits)
	}
	return l
}

// addNull sums two nullable amounts; the result is null only if both are.
func addNull(acc, v decimal.NullDecimal) decimal.NullDecimal {
	switch {
	case !v.Valid:
		return acc
	case !acc.Valid:
		return v
	default:
		return decimal.NewNullDecimal(acc.Decimal.Add(v.Decimal))
	}
}

// Computed sums transaction amounts by direction.
func (l *Ledger) Computed() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, t := range l.Transactions {
		if t.Direction == models.Credit {
			credits = credits.Add(t.Amount)
		} else {
			debits = debits.Add(t.Amount)
		}
	}
	return debits, credits
}

// DisplayTotals prefers the printed totals and falls back, per field, to
// the transaction sums.
func (l *Ledger) DisplayTotals() Display {
	debits, credits := l.Computed()
	d := Display{
		Debits:        debits,
		Credits:       credits,
		DebitsSource:  SourceComputed,
		CreditsSource: SourceComputed,
	}
	if l.Totals.Debits.Valid {
		d.Debits, d.DebitsSource = l.Totals.Debits.Decimal, SourcePrinted
	}
	if l.Totals.Credits.Valid {
		d.Credits, d.CreditsSource = l.Totals.Credits.Decimal, SourcePrinted
	}
	return d
}

// Failed returns the documents that could not be read.
func (l *Ledger) Failed() []DocumentStatus {
	var out []DocumentStatus
	for _, d := range l.Documents {
		if d.Error != "" {
			out = append(out, d)
		}
	}
	return out
}
