package category

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCutoff is the minimum similarity ratio for a fuzzy token match.
const DefaultCutoff = 0.8

// Classifier assigns one category to a description.
type Classifier struct {
	idx      *Index
	cutoff   float64
	fallback string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCutoff overrides the fuzzy match cutoff.
func WithCutoff(cutoff float64) Option {
	return func(c *Classifier) {
		if cutoff > 0 {
			c.cutoff = cutoff
		}
	}
}

// WithDefault overrides the category returned when nothing matches.
func WithDefault(name string) Option {
	return func(c *Classifier) {
		if name != "" {
			c.fallback = name
		}
	}
}

// NewClassifier returns a classifier reading from idx. Later changes to idx
// are visible to the classifier.
func NewClassifier(idx *Index, opts ...Option) *Classifier {
	c := &Classifier{idx: idx, cutoff: DefaultCutoff, fallback: DefaultCategory}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Index returns the index the classifier reads from.
func (c *Classifier) Index() *Index {
	return c.idx
}

// Classify returns a category for description. Active is the caller's
// priority order for keyword and name containment; when nil, every indexed
// category is active in insertion order. The fuzzy pass always consults the
// whole index. Classify always returns a name.
func (c *Classifier) Classify(description string, active []string) string {
	text := strings.ToLower(description)
	if strings.TrimSpace(text) == "" {
		return c.fallback
	}
	if active == nil {
		active = c.idx.names
	}

	for _, cat := range active {
		for _, kw := range c.idx.keywords[cat] {
			if strings.Contains(text, kw) {
				return cat
			}
		}
	}

	for _, word := range strings.Fields(text) {
		for _, cat := range c.idx.names {
			if c.closeMatch(word, c.idx.keywords[cat]) {
				return cat
			}
		}
	}

	for _, cat := range active {
		if strings.Contains(text, strings.ToLower(cat)) {
			return cat
		}
	}
	return c.fallback
}

// closeMatch reports whether any keyword is at least cutoff-similar to word,
// checking the cheap upper bounds before the full ratio.
func (c *Classifier) closeMatch(word string, keywords []string) bool {
	w := strings.Split(word, "")
	for _, kw := range keywords {
		m := difflib.NewMatcher(strings.Split(kw, ""), w)
		if m.RealQuickRatio() >= c.cutoff && m.QuickRatio() >= c.cutoff && m.Ratio() >= c.cutoff {
			return true
		}
	}
	return false
}
