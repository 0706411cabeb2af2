package extractor

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// SplitTextPages splits pre-extracted text into pages on form feeds, the
// separator pdftotext writes between pages.
func SplitTextPages(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\f")
}

// Load turns raw file bytes into a Document. ".txt" files are taken as
// already-extracted text; anything else is read as a PDF.
//
// An ErrEmptyText result still carries a Document with blank pages, so the
// caller can treat it as a zero-transaction statement.
func Load(name string, data []byte, credential string) (*models.Document, error) {
	var pages []string
	var err error
	if strings.EqualFold(filepath.Ext(name), ".txt") {
		pages = SplitTextPages(string(data))
	} else {
		pages, err = ExtractPages(data, credential)
	}
	if err != nil && !errors.Is(err, ErrEmptyText) {
		return nil, err
	}

	doc := models.NewDocument(name, pages)
	doc.Credential = credential
	if err != nil {
		doc.Pages = []models.Page{{Number: 1}}
		return doc, err
	}
	return doc, nil
}
