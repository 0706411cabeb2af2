// Package commands wires the ledger CLI.
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/inference"
	"github.com/insightdelivered/statement-ledger/internal/observability"
	"github.com/insightdelivered/statement-ledger/internal/statement"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:     "statement-ledger",
		Short:   "Bank statement extraction and categorisation",
		Version: api.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to ledger.yaml")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	rootCmd.AddCommand(newConvertCommand(g))
	rootCmd.AddCommand(newServeCommand(g))
	rootCmd.AddCommand(newCategoriesCommand(g))

	return rootCmd
}

// load reads the config and applies the command-line overrides.
func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return cfg, nil
}

// newAnalyzer builds an analyzer from the config.
func newAnalyzer(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*statement.Analyzer, error) {
	idx, err := cfg.CategoryIndex()
	if err != nil {
		return nil, err
	}
	opts := []statement.Option{
		statement.WithLogger(logger),
		statement.WithConcurrency(cfg.Server.Concurrency),
		statement.WithEngine(inference.New(cfg.EngineConfig(), inference.DefaultVocabulary())),
		statement.WithClassifier(cfg.Classifier(idx)),
	}
	if metrics != nil {
		opts = append(opts, statement.WithMetrics(metrics))
	}
	return statement.NewAnalyzer(opts...), nil
}
