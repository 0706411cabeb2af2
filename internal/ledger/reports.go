package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// FileSummary is the per-source-document roll-up.
type FileSummary struct {
	Source  string          `json:"source"`
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
	Count   int             `json:"count"`
}

// MonthlyTrend is one calendar month of activity.
type MonthlyTrend struct {
	Month   string          `json:"month"` // YYYY-MM
	Credits decimal.Decimal `json:"credits"`
	Debits  decimal.Decimal `json:"debits"`
	Net     decimal.Decimal `json:"net"`
}

// CategoryTotal is one category's share of the ledger.
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Credits  decimal.Decimal `json:"credits"`
	Debits   decimal.Decimal `json:"debits"`
}

// FileSummaries groups transactions by source, in order of first appearance.
func (l *Ledger) FileSummaries() []FileSummary {
	var out []FileSummary
	pos := make(map[string]int)
	for _, t := range l.Transactions {
		i, ok := pos[t.Source]
		if !ok {
			i = len(out)
			pos[t.Source] = i
			out = append(out, FileSummary{Source: t.Source, Credits: decimal.Zero, Debits: decimal.Zero})
		}
		out[i].Count++
		if t.Direction == models.Credit {
			out[i].Credits = out[i].Credits.Add(t.Amount)
		} else {
			out[i].Debits = out[i].Debits.Add(t.Amount)
		}
	}
	return out
}

// MonthlyTrends groups dated transactions by month, oldest first. Rows
// without a parsed date are left out.
func (l *Ledger) MonthlyTrends() []MonthlyTrend {
	byMonth := make(map[string]*MonthlyTrend)
	for _, t := range l.Transactions {
		if t.Date == nil {
			continue
		}
		key := t.Date.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyTrend{Month: key, Credits: decimal.Zero, Debits: decimal.Zero}
			byMonth[key] = m
		}
		if t.Direction == models.Credit {
			m.Credits = m.Credits.Add(t.Amount)
		} else {
			m.Debits = m.Debits.Add(t.Amount)
		}
	}

	out := make([]MonthlyTrend, 0, len(byMonth))
	for _, m := range byMonth {
		m.Net = m.Credits.Sub(m.Debits)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Top returns the n largest transactions by amount. Equal amounts keep
// ledger order.
func (l *Ledger) Top(n int) []models.Transaction {
	if n <= 0 {
		return nil
	}
	sorted := append([]models.Transaction(nil), l.Transactions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CategoryBreakdown totals transactions per category. Categories follow
// the active order; categories seen in the ledger but not active come
// after, in order of first appearance. Categories with no rows are skipped.
func (l *Ledger) CategoryBreakdown(active []string) []CategoryTotal {
	byName := make(map[string]*CategoryTotal)
	var seen []string
	for _, t := range l.Transactions {
		c, ok := byName[t.Category]
		if !ok {
			c = &CategoryTotal{Category: t.Category, Credits: decimal.Zero, Debits: decimal.Zero}
			byName[t.Category] = c
			seen = append(seen, t.Category)
		}
		c.Count++
		if t.Direction == models.Credit {
			c.Credits = c.Credits.Add(t.Amount)
		} else {
			c.Debits = c.Debits.Add(t.Amount)
		}
	}

	var out []CategoryTotal
	emitted := make(map[string]bool)
	for _, name := range append(append([]string(nil), active...), seen...) {
		if c, ok := byName[name]; ok && !emitted[name] {
			out = append(out, *c)
			emitted[name] = true
		}
	}
	return out
}
