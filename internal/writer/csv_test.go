package writer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

func testLedger() *ledger.Ledger {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return ledger.Aggregate([]models.DocumentResult{
		{
			Name: "jan.pdf",
			Path: models.PathFixed,
			Summary: models.StatementSummary{
				TotalCredits: decimal.NewNullDecimal(decimal.RequireFromString("2500.00")),
			},
			Transactions: []models.Transaction{
				{
					Date: &date, RawDate: "15/01/2024", Description: "CARD PAYMENT TESCO",
					Direction: models.Debit, Amount: decimal.RequireFromString("25.99"),
					Balance:  decimal.NewNullDecimal(decimal.RequireFromString("1234.56")),
					Category: "Grocery", Source: "jan.pdf",
					Provenance: models.Provenance{Path: models.PathFixed, Dialect: "metro", Rule: "debit_column"},
				},
				{
					RawDate: "32/01/2024", Description: "SALARY, ACME",
					Direction: models.Credit, Amount: decimal.RequireFromString("2500"),
					Category: "Misc", Source: "jan.pdf",
					Provenance: models.Provenance{Path: models.PathDelta, Rule: "delta_sign"},
				},
			},
		},
		{Name: "bad.pdf", Err: errors.New("document unreadable")},
	})
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, testLedger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "# Document,jan.pdf,fixed-format,2 transactions") {
		t.Errorf("expected document metadata, got:\n%s", output)
	}
	if !strings.Contains(output, "# Document,bad.pdf,,error: document unreadable") {
		t.Error("expected failed document metadata")
	}
	if !strings.Contains(output, "# Total Credits,2500.00,printed") {
		t.Error("expected printed credit total")
	}
	if !strings.Contains(output, "# Total Debits,25.99,computed") {
		t.Error("expected computed debit total")
	}
	if !strings.Contains(output, "Date,Description,Direction,Amount,Balance,Category,Source,Provenance") {
		t.Error("expected column headers")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 2 documents + 2 totals + 1 header + 2 transactions = 7
	if len(lines) != 7 {
		t.Errorf("expected 7 lines, got %d", len(lines))
	}
}

func TestCSVWriter_Rows(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, testLedger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	want := []string{"2024-01-15", "CARD PAYMENT TESCO", "DEBIT", "25.99", "1234.56", "Grocery", "jan.pdf", "fixed-format:metro/debit_column"}
	for i, v := range want {
		if records[1][i] != v {
			t.Errorf("row 1 column %s: got %q, want %q", Columns[i], records[1][i], v)
		}
	}

	// Unparseable dates fall back to the raw text; a null balance is blank.
	if records[2][0] != "32/01/2024" {
		t.Errorf("raw date: got %q", records[2][0])
	}
	if records[2][1] != "SALARY, ACME" {
		t.Errorf("quoted description: got %q", records[2][1])
	}
	if records[2][3] != "2500.00" || records[2][4] != "" {
		t.Errorf("amount/balance: got %q/%q", records[2][3], records[2][4])
	}
}

func TestCSVWriter_WriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVWriter{}).WriteSummary(&buf, testLedger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header and one value row, got %d rows", len(records))
	}
	got := strings.Join(records[1], ",")
	want := "2,1,2,25.99,2500.00,computed/printed,25.99,2500.00"
	if got != want {
		t.Errorf("summary: got %q, want %q", got, want)
	}
}
