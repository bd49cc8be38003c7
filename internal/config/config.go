package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultColumnNames are the descriptive names given positionally to the
// energy-efficiency dataset columns (X1..X8, Y1, Y2).
var DefaultColumnNames = []string{
	"Relative_Compactness",
	"Surface_Area",
	"Wall_Area",
	"Roof_Area",
	"Overall_Height",
	"Orientation",
	"Glazing_Area",
	"Glazing_Area_Distribution",
	"Heating_Load",
	"Cooling_Load",
}

// Global configuration structure.
type Global struct {
	// Input and output locations
	SourcePath string `mapstructure:"source_path" yaml:"source_path"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	CSVPath    string `mapstructure:"csv_path" yaml:"csv_path"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	ImagesDir  string `mapstructure:"images_dir" yaml:"images_dir"`
	ReportPath string `mapstructure:"report_path" yaml:"report_path"`

	ForceConvert bool `mapstructure:"force_convert" yaml:"force_convert"`

	// Dataset interpretation
	RenameColumns bool     `mapstructure:"rename_columns" yaml:"rename_columns"`
	ColumnNames   []string `mapstructure:"column_names" yaml:"column_names"`
	Targets       []string `mapstructure:"targets" yaml:"targets"`

	// Analysis and charts
	TopN             int     `mapstructure:"top_n" yaml:"top_n"`
	HistBins         int     `mapstructure:"hist_bins" yaml:"hist_bins"`
	ChartWidthIn     float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn    float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	StandardizeBoxes bool    `mapstructure:"standardize_boxes" yaml:"standardize_boxes"`
	ComputeVIF       bool    `mapstructure:"compute_vif" yaml:"compute_vif"`

	ReportTitle string `mapstructure:"report_title" yaml:"report_title"`
	Debug       bool   `mapstructure:"debug" yaml:"debug"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ./edareport.yaml.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		path = "edareport.yaml"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c.persisted())
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDAREPORT")
	v.AutomaticEnv()

	v.SetDefault("source_path", filepath.Join("data", "ENB2012_data.xlsx"))
	v.SetDefault("sheet_name", "")
	v.SetDefault("csv_path", filepath.Join("data", "ENB2012_data.csv"))
	v.SetDefault("output_dir", "outputs")
	v.SetDefault("images_dir", "")
	v.SetDefault("report_path", "")
	v.SetDefault("force_convert", false)
	v.SetDefault("rename_columns", true)
	v.SetDefault("column_names", DefaultColumnNames)
	v.SetDefault("targets", []string{})
	v.SetDefault("top_n", 5)
	v.SetDefault("hist_bins", 20)
	v.SetDefault("chart_width_in", 8.0)
	v.SetDefault("chart_height_in", 4.5)
	v.SetDefault("standardize_boxes", true)
	v.SetDefault("compute_vif", true)
	v.SetDefault("report_title", "Exploratory Data Analysis Report")
	v.SetDefault("debug", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".edareport"))
		}
		v.SetConfigName("edareport")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.ApplyDerived()
	return &c, nil
}

// ApplyDerived fills paths that default relative to OutputDir.
func (c *Global) ApplyDerived() {
	if c.OutputDir == "" {
		c.OutputDir = "outputs"
	}
	if c.ImagesDir == "" {
		c.ImagesDir = c.defaultImagesDir()
	}
	if c.ReportPath == "" {
		c.ReportPath = c.defaultReportPath()
	}
	if c.TopN <= 0 {
		c.TopN = 5
	}
	if c.HistBins <= 0 {
		c.HistBins = 20
	}
}

// SetOutputDir moves OutputDir; images and report paths that were derived from
// the previous directory follow it.
func (c *Global) SetOutputDir(dir string) {
	if c.ImagesDir == c.defaultImagesDir() {
		c.ImagesDir = ""
	}
	if c.ReportPath == c.defaultReportPath() {
		c.ReportPath = ""
	}
	c.OutputDir = dir
	c.ApplyDerived()
}

// persisted returns a copy with derived paths cleared so a saved file keeps
// deriving them from output_dir.
func (c *Global) persisted() *Global {
	out := *c
	if out.ImagesDir == c.defaultImagesDir() {
		out.ImagesDir = ""
	}
	if out.ReportPath == c.defaultReportPath() {
		out.ReportPath = ""
	}
	return &out
}

func (c *Global) defaultImagesDir() string  { return filepath.Join(c.OutputDir, "figs") }
func (c *Global) defaultReportPath() string { return filepath.Join(c.OutputDir, "eda_report.pdf") }

// SummaryPath is the YAML export of the computed tables.
func (c *Global) SummaryPath() string { return filepath.Join(c.OutputDir, "summary.yaml") }

// ManifestDir is where manifest.json is written.
func (c *Global) ManifestDir() string { return c.OutputDir }
