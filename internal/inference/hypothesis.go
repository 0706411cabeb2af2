package inference

import (
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Hypotheses builds the opening balance candidates in priority order:
// the printed opening balance (if any), then "first row is a debit",
// then "first row is a credit". Lines must be complete.
func Hypotheses(lines []models.CandidateLine, summary models.StatementSummary) []models.OpeningBalanceHypothesis {
	var hyps []models.OpeningBalanceHypothesis
	if summary.OpeningBalance.Valid {
		hyps = append(hyps, models.OpeningBalanceHypothesis{
			Origin:  models.OriginPrinted,
			Opening: summary.OpeningBalance.Decimal,
		})
	}
	if len(lines) > 0 {
		first := lines[0]
		hyps = append(hyps,
			models.OpeningBalanceHypothesis{
				Origin:  models.OriginFirstDebit,
				Opening: first.Balance.Decimal.Add(first.Amount.Decimal),
			},
			models.OpeningBalanceHypothesis{
				Origin:  models.OriginFirstCredit,
				Opening: first.Balance.Decimal.Sub(first.Amount.Decimal),
			},
		)
	}
	for i := range hyps {
		hyps[i].Priority = i
	}
	return hyps
}

// Score counts the rows in the sample window that the walk resolves by a
// direct arithmetic match.
func (e *Engine) Score(h models.OpeningBalanceHypothesis, lines []models.CandidateLine) int {
	window := lines
	if len(window) > e.cfg.SampleSize {
		window = window[:e.cfg.SampleSize]
	}
	score := 0
	for _, s := range e.Walk(h.Opening, window) {
		if s.Rule.Arithmetic() {
			score++
		}
	}
	return score
}

// ScoreAll returns a copy of hyps with Score filled in.
func (e *Engine) ScoreAll(hyps []models.OpeningBalanceHypothesis, lines []models.CandidateLine) []models.OpeningBalanceHypothesis {
	out := make([]models.OpeningBalanceHypothesis, len(hyps))
	for i, h := range hyps {
		h.Score = e.Score(h, lines)
		out[i] = h
	}
	return out
}

// Select returns the highest-scoring hypothesis. Scores must already be
// filled in (see ScoreAll).
//
// Ties: a printed opening balance always wins. The two derived hypotheses
// always tie with each other, since they differ only on the first row. That
// tie is broken by the first row's description keywords, and only then by
// priority order. This departs from a plain priority-order tie-break on
// purpose: priority alone would always pick debit-first, even for a
// statement whose first row reads "SALARY" or "REFUND".
// When nothing scores above zero the debit-first hypothesis is used.
func (e *Engine) Select(hyps []models.OpeningBalanceHypothesis, lines []models.CandidateLine) models.OpeningBalanceHypothesis {
	if len(hyps) == 0 {
		return models.OpeningBalanceHypothesis{}
	}
	best := -1
	for _, h := range hyps {
		if h.Score > best {
			best = h.Score
		}
	}

	if best <= 0 {
		for _, h := range hyps {
			if h.Origin == models.OriginFirstDebit {
				return h
			}
		}
		return lowestPriority(hyps)
	}

	var tied []models.OpeningBalanceHypothesis
	for _, h := range hyps {
		if h.Score == best {
			tied = append(tied, h)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	for _, h := range tied {
		if h.Origin == models.OriginPrinted {
			return h
		}
	}

	if len(lines) > 0 {
		if dir, ok := e.vocab.Match(lines[0].Description); ok {
			want := models.OriginFirstDebit
			if dir == models.Credit {
				want = models.OriginFirstCredit
			}
			for _, h := range tied {
				if h.Origin == want {
					return h
				}
			}
		}
	}
	return lowestPriority(tied)
}

func lowestPriority(hyps []models.OpeningBalanceHypothesis) models.OpeningBalanceHypothesis {
	best := hyps[0]
	for _, h := range hyps[1:] {
		if h.Priority < best.Priority {
			best = h
		}
	}
	return best
}
