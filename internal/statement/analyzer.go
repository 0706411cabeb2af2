// Package statement runs the full extraction pipeline over documents:
// routing, fixed-format or delta-inferred extraction, summary extraction,
// aggregation and categorisation.
package statement

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-ledger/internal/category"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/inference"
	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/observability"
	"github.com/insightdelivered/statement-ledger/internal/parser"
	"github.com/insightdelivered/statement-ledger/internal/summary"
)

// Input is one raw file to analyze.
type Input struct {
	Name       string
	Data       []byte
	Credential string
}

// Analyzer is safe for concurrent use as long as the category index it
// classifies against is not mutated during a call.
type Analyzer struct {
	fixed      *parser.FixedExtractor
	engine     *inference.Engine
	classifier *category.Classifier
	logger     *zap.Logger
	metrics    *observability.Metrics
	workers    int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithEngine replaces the default delta inference engine.
func WithEngine(e *inference.Engine) Option {
	return func(a *Analyzer) { a.engine = e }
}

// WithFixedExtractor replaces the default dialect list.
func WithFixedExtractor(f *parser.FixedExtractor) Option {
	return func(a *Analyzer) { a.fixed = f }
}

// WithClassifier replaces the default category classifier.
func WithClassifier(c *category.Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithConcurrency caps how many documents are processed at once.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// NewAnalyzer returns an analyzer with the built-in dialects, inference
// defaults and category index.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		fixed:      parser.NewDefaultFixedExtractor(),
		engine:     inference.NewDefault(),
		classifier: category.NewClassifier(category.DefaultIndex()),
		logger:     zap.NewNop(),
		workers:    4,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Classifier returns the classifier used by Run.
func (a *Analyzer) Classifier() *category.Classifier {
	return a.classifier
}

// Dialects names the fixed-format dialects in priority order.
func (a *Analyzer) Dialects() []string {
	return a.fixed.Dialects()
}

// Analyze extracts one document. It never fails: a blank document is
// reported as Empty with no transactions.
func (a *Analyzer) Analyze(doc *models.Document) models.DocumentResult {
	start := time.Now()
	res := models.DocumentResult{
		DocumentID:   doc.ID,
		Name:         doc.Name,
		Transactions: []models.Transaction{},
	}
	log := a.logger.With(zap.String("document", doc.Name), zap.String("document_id", doc.ID))

	if doc.IsBlank() {
		res.Empty = true
		log.Warn("document has no extractable text")
		a.record("none", "empty", start)
		return res
	}

	text := doc.Text()
	sum := summary.Extract(text)
	res.Summary = sum.Summary
	res.SummaryStrategy = sum.Strategy
	res.Path = parser.Route(text)

	switch res.Path {
	case models.PathDelta:
		candidates := parser.ClassifyLines(doc.Pages)
		out := a.engine.Infer(candidates, sum.Summary)
		res.Hypothesis = out.Hypothesis
		res.Transactions = out.Transactions
		if out.Hypothesis != nil {
			log.Debug("opening balance selected",
				zap.String("origin", string(out.Hypothesis.Origin)),
				zap.String("opening", out.Hypothesis.Opening.StringFixed(2)),
				zap.Int("score", out.Hypothesis.Score),
				zap.Int("candidates", len(candidates)),
			)
		}
	default:
		pages := make([]string, len(doc.Pages))
		for i, p := range doc.Pages {
			pages[i] = p.Text
		}
		txns, debug := a.fixed.Extract(parser.SplitLines(pages))
		if txns != nil {
			res.Transactions = txns
		}
		res.DebugLines = debug
	}

	for i := range res.Transactions {
		res.Transactions[i].Source = doc.Name
	}

	if a.metrics != nil {
		a.metrics.AddTransactions(string(res.Path), len(res.Transactions))
		a.metrics.IncrSummaryStrategy(res.SummaryStrategy)
		if res.Path == models.PathDelta {
			for _, t := range res.Transactions {
				a.metrics.IncrRule(t.Provenance.Rule)
			}
		}
	}
	a.record(string(res.Path), "ok", start)

	log.Info("document analyzed",
		zap.String("path", string(res.Path)),
		zap.String("marker", parser.DeltaMarker(text)),
		zap.String("summary_strategy", res.SummaryStrategy),
		zap.Int("transactions", len(res.Transactions)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}

// AnalyzeFiles loads and analyzes inputs concurrently. Results are in input
// order. A file that cannot be read yields a result with Err set and does
// not affect the others. A cancelled context marks the remaining inputs
// with the context error.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, inputs []Input) []models.DocumentResult {
	results := make([]models.DocumentResult, len(inputs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i] = models.DocumentResult{Name: in.Name, Err: err}
				return nil
			}
			results[i] = a.analyzeInput(in)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (a *Analyzer) analyzeInput(in Input) models.DocumentResult {
	start := time.Now()
	doc, err := extractor.Load(in.Name, in.Data, in.Credential)
	switch {
	case err == nil, errors.Is(err, extractor.ErrEmptyText):
		return a.Analyze(doc)
	default:
		a.logger.Error("document unreadable", zap.String("document", in.Name), zap.Error(err))
		a.record("none", "error", start)
		return models.DocumentResult{Name: in.Name, Transactions: []models.Transaction{}, Err: err}
	}
}

// AnalyzeAll analyzes already-extracted documents concurrently, keeping
// document order.
func (a *Analyzer) AnalyzeAll(ctx context.Context, docs []*models.Document) []models.DocumentResult {
	results := make([]models.DocumentResult, len(docs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				results[i] = models.DocumentResult{DocumentID: doc.ID, Name: doc.Name, Err: err}
				return nil
			}
			results[i] = a.Analyze(doc)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Categorize assigns a category to every transaction. Active is the
// caller's category priority order; nil means all categories.
func (a *Analyzer) Categorize(txns []models.Transaction, active []string) {
	for i := range txns {
		txns[i].Category = a.classifier.Classify(txns[i].Description, active)
	}
}

// Run analyzes files, aggregates them and categorises the merged ledger.
func (a *Analyzer) Run(ctx context.Context, inputs []Input, active []string) *ledger.Ledger {
	l := ledger.Aggregate(a.AnalyzeFiles(ctx, inputs))
	a.Categorize(l.Transactions, active)
	return l
}

// RunDocuments is Run for already-extracted documents.
func (a *Analyzer) RunDocuments(ctx context.Context, docs []*models.Document, active []string) *ledger.Ledger {
	l := ledger.Aggregate(a.AnalyzeAll(ctx, docs))
	a.Categorize(l.Transactions, active)
	return l
}

func (a *Analyzer) record(dialect, status string, start time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.IncrDocument(dialect, status)
	a.metrics.RecordDocumentDuration(time.Since(start))
}
