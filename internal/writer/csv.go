package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// CSVWriter writes a ledger to CSV format, one row per transaction.
type CSVWriter struct {
	IncludeHeader bool
}

// Columns are the transaction columns, in output order.
var Columns = []string{"Date", "Description", "Direction", "Amount", "Balance", "Category", "Source", "Provenance"}

// WriteToFile writes the ledger to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, l *ledger.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, l)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, l *ledger.Ledger) error {
	writer := csv.NewWriter(out)

	// Metadata as comment rows
	if w.IncludeHeader {
		for _, d := range l.Documents {
			status := strconv.Itoa(d.Transactions) + " transactions"
			switch {
			case d.Error != "":
				status = "error: " + d.Error
			case d.Empty:
				status = "no text"
			}
			writer.Write([]string{"# Document", d.Name, string(d.Path), status})
		}
		totals := l.DisplayTotals()
		writer.Write([]string{"# Total Debits", totals.Debits.StringFixed(2), totals.DebitsSource})
		writer.Write([]string{"# Total Credits", totals.Credits.StringFixed(2), totals.CreditsSource})
	}

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range l.Transactions {
		if err := writer.Write(Row(txn)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteSummary writes the flat summary record: one header row and one
// value row.
func (w *CSVWriter) WriteSummary(out io.Writer, l *ledger.Ledger) error {
	writer := csv.NewWriter(out)
	totals := l.DisplayTotals()
	debits, credits := l.Computed()

	rows := [][]string{
		{"Documents", "Failed", "Transactions", "Total Debits", "Total Credits", "Totals Source", "Computed Debits", "Computed Credits"},
		{
			strconv.Itoa(len(l.Documents)),
			strconv.Itoa(len(l.Failed())),
			strconv.Itoa(len(l.Transactions)),
			totals.Debits.StringFixed(2),
			totals.Credits.StringFixed(2),
			totals.DebitsSource + "/" + totals.CreditsSource,
			debits.StringFixed(2),
			credits.StringFixed(2),
		},
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// Row flattens one transaction into the Columns order.
func Row(txn models.Transaction) []string {
	date := txn.RawDate
	if txn.Date != nil {
		date = txn.Date.Format("2006-01-02")
	}
	balance := ""
	if txn.Balance.Valid {
		balance = txn.Balance.Decimal.StringFixed(2)
	}
	return []string{
		date,
		txn.Description,
		string(txn.Direction),
		txn.Amount.StringFixed(2),
		balance,
		txn.Category,
		txn.Source,
		txn.Provenance.String(),
	}
}
