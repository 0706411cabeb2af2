package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-ledger/internal/category"
)

func newCategoriesCommand(g *globalFlags) *cobra.Command {
	var seed string
	var format string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Print the category index in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if seed != "" {
				cfg.Categories.SeedFile = seed
			}
			idx, err := cfg.CategoryIndex()
			if err != nil {
				return err
			}
			return printSeeds(cmd, idx.Export(), format)
		},
	}

	cmd.Flags().StringVar(&seed, "seed", "", "extra category seed file (YAML or JSON)")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")

	return cmd
}

func printSeeds(cmd *cobra.Command, seeds []category.Seed, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(seeds); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(seeds)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
