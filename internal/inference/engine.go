package inference

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
)

// Step is the outcome of walking one candidate line.
type Step struct {
	Direction models.Direction
	Rule      Rule
	Delta     decimal.Decimal
}

// Result is the inference outcome for one document.
type Result struct {
	Hypothesis   *models.OpeningBalanceHypothesis
	Candidates   []models.OpeningBalanceHypothesis
	Transactions []models.Transaction
}

// Engine runs delta inference with fixed configuration. It is stateless
// across calls.
type Engine struct {
	cfg   Config
	vocab Vocabulary
}

// New creates an engine. A zero SampleSize or Precision takes the default.
func New(cfg Config, vocab Vocabulary) *Engine {
	def := DefaultConfig()
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
	if cfg.Precision <= 0 {
		cfg.Precision = def.Precision
	}
	if cfg.ZeroDelta == "" {
		cfg.ZeroDelta = def.ZeroDelta
	}
	return &Engine{cfg: cfg, vocab: vocab}
}

// NewDefault creates an engine with DefaultConfig and DefaultVocabulary.
func NewDefault() *Engine {
	return New(DefaultConfig(), DefaultVocabulary())
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Walk assigns a direction to every line, starting from opening. The
// previous balance always advances to the printed balance, whichever rule
// fired. Every line must be complete.
func (e *Engine) Walk(opening decimal.Decimal, lines []models.CandidateLine) []Step {
	steps := make([]Step, len(lines))
	prev := opening
	for i, c := range lines {
		amount := c.Amount.Decimal
		bal := c.Balance.Decimal
		delta := bal.Sub(prev).Round(e.cfg.Precision)

		s := Step{Delta: delta}
		switch {
		case delta.Sub(amount).Abs().LessThanOrEqual(e.cfg.Tolerance):
			s.Direction, s.Rule = models.Credit, RulePlusAmount
		case delta.Add(amount).Abs().LessThanOrEqual(e.cfg.Tolerance):
			s.Direction, s.Rule = models.Debit, RuleMinusAmount
		default:
			if dir, ok := e.vocab.Match(c.Description); ok {
				s.Direction, s.Rule = dir, RuleKeywords
			} else {
				s.Direction, s.Rule = e.bySign(delta), RuleDeltaSign
			}
		}
		steps[i] = s
		prev = bal
	}
	return steps
}

func (e *Engine) bySign(delta decimal.Decimal) models.Direction {
	switch delta.Sign() {
	case 1:
		return models.Credit
	case -1:
		return models.Debit
	default:
		return e.cfg.ZeroDelta
	}
}

// Infer picks an opening balance hypothesis and walks the full sequence.
// Lines with a missing amount or balance are dropped first.
func (e *Engine) Infer(lines []models.CandidateLine, summary models.StatementSummary) Result {
	lines = parser.CompleteLines(lines)
	hyps := Hypotheses(lines, summary)
	if len(hyps) == 0 {
		return Result{}
	}

	scored := e.ScoreAll(hyps, lines)
	best := e.Select(scored, lines)
	steps := e.Walk(best.Opening, lines)

	txns := make([]models.Transaction, len(lines))
	for i, c := range lines {
		txns[i] = models.Transaction{
			Date:        parser.ParseDate(c.RawDate),
			RawDate:     c.RawDate,
			Description: c.Description,
			Direction:   steps[i].Direction,
			Amount:      c.Amount.Decimal,
			Balance:     c.Balance,
			Provenance: models.Provenance{
				Path: models.PathDelta,
				Rule: string(steps[i].Rule),
			},
		}
	}
	return Result{Hypothesis: &best, Candidates: scored, Transactions: txns}
}
