package cmd

import (
	"fmt"

	"github.com/KaramelBytes/edareport/internal/pipeline"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the source spreadsheet to CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, converted, err := pipeline.EnsureDelimited(cfg, log)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !converted {
			fmt.Fprintf(out, "✓ %s is up to date (use --force-convert to rewrite)\n", cfg.CSVPath)
			return nil
		}
		fmt.Fprintf(out, "✓ Converted %s → %s (%d rows, %d columns)\n", res.Source, res.Destination, res.Rows, len(res.Columns))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
