package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/pipeline"
	"github.com/KaramelBytes/edareport/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath string
	anaFormat     string
	anaTargets    []string
	anaNoVIF      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute summary statistics and correlations without rendering charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := pipeline.EnsureDelimited(cfg, log); err != nil {
			return err
		}
		tbl, err := pipeline.LoadTable(cfg)
		if err != nil {
			return err
		}
		opt := pipeline.AnalysisOptions(cfg)
		if len(anaTargets) > 0 {
			opt.Targets = anaTargets
		}
		if anaNoVIF {
			opt.VIF = false
		}
		a, err := analysis.Analyze(tbl, opt)
		if err != nil {
			return err
		}

		var out []byte
		switch strings.ToLower(strings.TrimSpace(anaFormat)) {
		case "", "md", "markdown":
			out = []byte(a.Markdown())
		case "yaml", "yml":
			if out, err = a.Snapshot().YAML(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported --format: %s (use markdown|yaml)", anaFormat)
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "markdown", "output format: markdown|yaml")
	analyzeCmd.Flags().StringSliceVar(&anaTargets, "target", nil, "target column (repeatable; default last two numeric columns)")
	analyzeCmd.Flags().BoolVar(&anaNoVIF, "no-vif", false, "skip variance inflation factors")
}
