package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/edareport/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set edareport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "source_path: %s\n", cfg.SourcePath)
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "csv_path: %s\n", cfg.CSVPath)
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "images_dir: %s\n", cfg.ImagesDir)
		fmt.Fprintf(out, "report_path: %s\n", cfg.ReportPath)
		fmt.Fprintf(out, "force_convert: %t\n", cfg.ForceConvert)
		fmt.Fprintf(out, "rename_columns: %t\n", cfg.RenameColumns)
		if cfg.RenameColumns {
			fmt.Fprintf(out, "column_names: %s\n", strings.Join(cfg.ColumnNames, ","))
		}
		if len(cfg.Targets) > 0 {
			fmt.Fprintf(out, "targets: %s\n", strings.Join(cfg.Targets, ","))
		} else {
			fmt.Fprintln(out, "targets: (last two numeric columns)")
		}
		fmt.Fprintf(out, "top_n: %d\n", cfg.TopN)
		fmt.Fprintf(out, "hist_bins: %d\n", cfg.HistBins)
		fmt.Fprintf(out, "chart_width_in: %.2f\n", cfg.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.2f\n", cfg.ChartHeightIn)
		fmt.Fprintf(out, "standardize_boxes: %t\n", cfg.StandardizeBoxes)
		fmt.Fprintf(out, "compute_vif: %t\n", cfg.ComputeVIF)
		fmt.Fprintf(out, "report_title: %s\n", cfg.ReportTitle)
		fmt.Fprintf(out, "debug: %t\n", cfg.Debug)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Set a config value and save to disk",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{configOptional: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setKey(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "source_path":
		c.SourcePath = val
	case "sheet_name":
		c.SheetName = val
	case "csv_path":
		c.CSVPath = val
	case "output_dir":
		c.SetOutputDir(val)
	case "images_dir":
		c.ImagesDir = val
	case "report_path":
		c.ReportPath = val
	case "report_title":
		c.ReportTitle = val
	case "targets":
		c.Targets = splitList(val)
	case "column_names":
		c.ColumnNames = splitList(val)
	case "force_convert", "rename_columns", "standardize_boxes", "compute_vif", "debug":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %v", key, val)
		}
		switch key {
		case "force_convert":
			c.ForceConvert = b
		case "rename_columns":
			c.RenameColumns = b
		case "standardize_boxes":
			c.StandardizeBoxes = b
		case "compute_vif":
			c.ComputeVIF = b
		case "debug":
			c.Debug = b
		}
	case "top_n", "hist_bins":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		if key == "top_n" {
			c.TopN = i
		} else {
			c.HistBins = i
		}
	case "chart_width_in", "chart_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for %s: %v", key, val)
		}
		if key == "chart_width_in" {
			c.ChartWidthIn = f
		} else {
			c.ChartHeightIn = f
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
