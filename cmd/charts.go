package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/pipeline"
	"github.com/spf13/cobra"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render histograms, box plot, scatter plots and the correlation heatmap",
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
		opt.VIF = false
		a, err := analysis.Analyze(tbl, opt)
		if err != nil {
			return err
		}
		set, err := pipeline.RenderCharts(cfg, a)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, art := range set.All() {
			fmt.Fprintf(out, "  %-9s %s\n", art.Kind, art.Path)
		}
		fmt.Fprintf(out, "✓ Rendered %d charts in %s\n", len(set.All()), cfg.ImagesDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
}
