package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Page is one page of extracted text. Text may be empty if extraction failed.
type Page struct {
	Number int
	Text   string
}

// Document is one source statement after text extraction.
type Document struct {
	ID         string
	Name       string
	Pages      []Page
	Credential string
}

// NewDocument builds a Document from ordered page texts.
func NewDocument(name string, pages []string) *Document {
	doc := &Document{
		ID:   uuid.NewString(),
		Name: name,
	}
	for i, text := range pages {
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Text: text})
	}
	return doc
}

// Text returns all page texts joined by newlines.
func (d *Document) Text() string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n")
}

// IsBlank reports whether no page carries any non-whitespace text.
func (d *Document) IsBlank() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// CandidateLine is a raw line that matched the date-prefix pattern of the
// delta-inferred dialect. Amount and Balance are invalid when they did not parse.
type CandidateLine struct {
	Page        int
	Text        string
	RawDate     string
	Description string
	Amount      decimal.NullDecimal
	Balance     decimal.NullDecimal
}

// Complete reports whether both numeric fields parsed.
func (c CandidateLine) Complete() bool {
	return c.Amount.Valid && c.Balance.Valid
}
