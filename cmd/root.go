package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/edareport/internal/config"
	"github.com/KaramelBytes/edareport/internal/logging"
	"github.com/KaramelBytes/edareport/internal/pipeline"
	"github.com/KaramelBytes/edareport/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Path and run overrides (applied over config when set)
	flagSource       string
	flagCSV          string
	flagOutputDir    string
	flagImagesDir    string
	flagReport       string
	flagTopN         int
	flagForceConvert bool

	// Loaded configuration
	cfg *cfgpkg.Global
	log *slog.Logger
)

// annotation for commands that may run before a config file exists
const configOptional = "config-optional"

var rootCmd = &cobra.Command{
	Use:   "edareport",
	Short: "edareport: exploratory data analysis report for the building energy dataset",
	Long: `edareport converts the building energy-efficiency spreadsheet to CSV, computes
summary statistics and correlations, renders charts and assembles them into a PDF report.

Running it without a subcommand executes the whole pipeline.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := pipeline.Run(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res.Converted {
			fmt.Fprintf(out, "✓ Converted %s → %s (%d rows)\n", cfg.SourcePath, cfg.CSVPath, res.Conversion.Rows)
		}
		a := res.Analysis
		fmt.Fprintf(out, "✓ Analyzed %d rows × %d columns (%d missing cells)\n", a.Table.Rows, len(a.Table.Columns), a.TotalMissing())
		fmt.Fprintf(out, "✓ Rendered %d charts in %s\n", len(res.Charts.All()), cfg.ImagesDir)
		fmt.Fprintf(out, "✓ Report written to %s\n", res.ReportPath)
		fmt.Fprintf(out, "  run %s · summary %s · manifest %s\n", res.RunID, res.SummaryPath, res.ManifestPath)
		for _, w := range a.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		return nil
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./edareport.yaml or ~/.edareport/edareport.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&flagSource, "source", "", "source spreadsheet (default data/ENB2012_data.xlsx)")
	pf.StringVar(&flagCSV, "csv", "", "delimited copy of the source (default data/ENB2012_data.csv)")
	pf.StringVar(&flagOutputDir, "output-dir", "", "output directory (default outputs)")
	pf.StringVar(&flagImagesDir, "images-dir", "", "chart directory (default <output-dir>/figs)")
	pf.StringVar(&flagReport, "report", "", "PDF report path (default <output-dir>/eda_report.pdf)")
	pf.IntVar(&flagTopN, "top", 0, "number of top correlated pairs to report")
	pf.BoolVar(&flagForceConvert, "force-convert", false, "convert the spreadsheet even when the CSV is up to date")
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		if cfgFile == "" || utils.FileExists(cfgFile) || cmd.Annotations[configOptional] == "" {
			return fmt.Errorf("load config: %w", err)
		}
		// config file will be created by this command
		if c, err = cfgpkg.Load(""); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	cfg = c
	applyOverrides(cmd)
	log = logging.New(cmd.ErrOrStderr(), debug || cfg.Debug)
	log.Debug("configuration loaded", "source", cfg.SourcePath, "csv", cfg.CSVPath, "output_dir", cfg.OutputDir)
	return nil
}

func applyOverrides(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("source") {
		cfg.SourcePath = flagSource
	}
	if f.Changed("csv") {
		cfg.CSVPath = flagCSV
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
		// derived paths follow the new output directory unless set explicitly
		if !f.Changed("images-dir") {
			cfg.ImagesDir = filepath.Join(flagOutputDir, "figs")
		}
		if !f.Changed("report") {
			cfg.ReportPath = filepath.Join(flagOutputDir, "eda_report.pdf")
		}
	}
	if f.Changed("images-dir") {
		cfg.ImagesDir = flagImagesDir
	}
	if f.Changed("report") {
		cfg.ReportPath = flagReport
	}
	if f.Changed("top") && flagTopN > 0 {
		cfg.TopN = flagTopN
	}
	if f.Changed("force-convert") {
		cfg.ForceConvert = flagForceConvert
	}
	if f.Changed("debug") {
		cfg.Debug = debug
	}
	cfg.ApplyDerived()
}
