package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/ledger"
	"github.com/insightdelivered/statement-ledger/internal/observability"
	"github.com/insightdelivered/statement-ledger/internal/statement"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

type convertOptions struct {
	password string
	output   string
	header   bool
	summary  bool
}

func newConvertCommand(g *globalFlags) *cobra.Command {
	opts := convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <statement> [statement ...]",
		Short: "Convert statements (.pdf or .txt) into one categorised CSV ledger",
		Example: `  # Single statement, written next to the input as jan.csv
  statement-ledger convert jan.pdf

  # Several statements merged into one ledger
  statement-ledger convert --output q1.csv jan.pdf feb.pdf mar.pdf

  # Password-protected statement
  statement-ledger convert --password 50100012345678 locked.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, g, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.password, "password", "", "password for protected PDFs")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output CSV path (defaults to <first input>.csv)")
	cmd.Flags().BoolVar(&opts.header, "header", true, "include document and totals metadata rows")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "also print the summary record to stdout")

	return cmd
}

func runConvert(cmd *cobra.Command, g *globalFlags, paths []string, opts convertOptions) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.Log.Level)
	defer logger.Sync()

	a, err := newAnalyzer(cfg, logger, nil)
	if err != nil {
		return err
	}

	inputs := make([]statement.Input, 0, len(paths))
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".pdf" && ext != ".txt" {
			return fmt.Errorf("expected .pdf or .txt file, got %q", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, statement.Input{Name: filepath.Base(path), Data: data, Credential: opts.password})
	}

	l := a.Run(cmd.Context(), inputs, nil)
	out := cmd.OutOrStdout()
	for _, d := range l.Documents {
		switch {
		case d.Error != "":
			fmt.Fprintf(out, "%s: error: %s\n", d.Name, d.Error)
		case d.Empty:
			fmt.Fprintf(out, "%s: no extractable text\n", d.Name)
		default:
			fmt.Fprintf(out, "%s: %d transaction(s) via %s\n", d.Name, d.Transactions, d.Path)
		}
	}
	if len(l.Failed()) == len(l.Documents) {
		return fmt.Errorf("no statement could be read")
	}

	outPath := opts.output
	if outPath == "" {
		outPath = strings.TrimSuffix(paths[0], filepath.Ext(paths[0])) + ".csv"
	}
	w := &writer.CSVWriter{IncludeHeader: opts.header}
	if err := w.WriteToFile(outPath, l); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	printTotals(cmd, l)
	fmt.Fprintf(out, "Output: %s\n", outPath)

	if opts.summary {
		return w.WriteSummary(out, l)
	}
	return nil
}

func printTotals(cmd *cobra.Command, l *ledger.Ledger) {
	d := l.DisplayTotals()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transactions: %d\n", len(l.Transactions))
	fmt.Fprintf(out, "Total debits: %s (%s)\n", d.Debits.StringFixed(2), d.DebitsSource)
	fmt.Fprintf(out, "Total credits: %s (%s)\n", d.Credits.StringFixed(2), d.CreditsSource)
}
