// Package pipeline runs the conversion, analysis, chart and report stages in order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/charts"
	"github.com/KaramelBytes/edareport/internal/config"
	"github.com/KaramelBytes/edareport/internal/convert"
	"github.com/KaramelBytes/edareport/internal/manifest"
	"github.com/KaramelBytes/edareport/internal/report"
	"github.com/KaramelBytes/edareport/internal/utils"
	"gonum.org/v1/plot/vg"
)

// Stage names used in errors, logs and the manifest.
const (
	StageConvert  = "convert"
	StageLoad     = "load"
	StageAnalyze  = "analyze"
	StageCharts   = "charts"
	StageReport   = "report"
	StageSummary  = "summary"
	StageManifest = "manifest"
)

// StageError identifies the stage that aborted a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Converted    bool
	Conversion   *convert.Result
	Analysis     *analysis.Analysis
	Charts       *charts.Set
	ReportPath   string
	SummaryPath  string
	ManifestPath string
}

// Run executes every stage sequentially. The context is checked between stages.
func Run(ctx context.Context, cfg *config.Global, log *slog.Logger) (*Result, error) {
	m := manifest.New(cfg.ManifestDir())
	log = log.With("run_id", m.RunID)
	res := &Result{RunID: m.RunID}
	m.Source = cfg.SourcePath
	m.Delimited = cfg.CSVPath

	step := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: name, Err: err}
		}
		start := time.Now()
		log.Debug("stage start", "stage", name)
		if err := fn(); err != nil {
			log.Error("stage failed", "stage", name, "error", err)
			return &StageError{Stage: name, Err: err}
		}
		d := time.Since(start)
		m.Track(name, d)
		log.Info("stage done", "stage", name, "elapsed", d.Round(time.Millisecond))
		return nil
	}

	if err := step(StageConvert, func() error {
		conv, converted, err := EnsureDelimited(cfg, log)
		res.Conversion, res.Converted = conv, converted
		m.Converted = converted
		return err
	}); err != nil {
		return nil, err
	}

	var tbl *analysis.Table
	if err := step(StageLoad, func() error {
		var err error
		tbl, err = LoadTable(cfg)
		return err
	}); err != nil {
		return nil, err
	}
	m.Rows = tbl.Rows
	m.Columns = tbl.Names()

	if err := step(StageAnalyze, func() error {
		var err error
		res.Analysis, err = analysis.Analyze(tbl, AnalysisOptions(cfg))
		for _, w := range warnings(res.Analysis) {
			log.Warn(w)
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err := step(StageCharts, func() error {
		var err error
		res.Charts, err = RenderCharts(cfg, res.Analysis)
		return err
	}); err != nil {
		return nil, err
	}

	if err := step(StageReport, func() error {
		doc := report.Build(report.Input{
			Title:       cfg.ReportTitle,
			RunID:       m.RunID,
			GeneratedAt: m.StartedAt,
			Source:      cfg.SourcePath,
			Analysis:    res.Analysis,
			Charts:      res.Charts,
		})
		if err := report.Assemble(doc, cfg.ReportPath); err != nil {
			return err
		}
		res.ReportPath = cfg.ReportPath
		m.Report = cfg.ReportPath
		return nil
	}); err != nil {
		return nil, err
	}

	if err := step(StageSummary, func() error {
		b, err := res.Analysis.Snapshot().YAML()
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(cfg.SummaryPath(), b); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		res.SummaryPath = cfg.SummaryPath()
		m.Summary = res.SummaryPath
		return nil
	}); err != nil {
		return nil, err
	}

	if err := step(StageManifest, func() error {
		if prev, err := manifest.Load(cfg.ManifestDir()); err == nil {
			pruneStale(prev, res.Charts, log)
		}
		for _, a := range res.Charts.All() {
			if err := m.AddArtifact(string(a.Kind), a.Label, a.Path); err != nil {
				return err
			}
		}
		if err := m.AddArtifact("report", "PDF report", res.ReportPath); err != nil {
			return err
		}
		if err := m.AddArtifact("summary", "Summary tables", res.SummaryPath); err != nil {
			return err
		}
		if err := m.Save(); err != nil {
			return err
		}
		res.ManifestPath = m.Path()
		return nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// EnsureDelimited converts the spreadsheet when the delimited copy is missing,
// stale or ForceConvert is set. A missing spreadsheet is tolerated when the
// delimited file already exists.
func EnsureDelimited(cfg *config.Global, log *slog.Logger) (*convert.Result, bool, error) {
	if !utils.FileExists(cfg.SourcePath) {
		if utils.FileExists(cfg.CSVPath) {
			log.Warn("source spreadsheet not found; using existing delimited file",
				"source", cfg.SourcePath, "csv", cfg.CSVPath)
			return nil, false, nil
		}
		return nil, false, &convert.ConversionError{
			Path: cfg.SourcePath,
			Err:  errors.New("neither the source spreadsheet nor the delimited file exists"),
		}
	}
	if !convert.NeedsConversion(cfg.SourcePath, cfg.CSVPath, cfg.ForceConvert) {
		log.Info("delimited file is up to date", "csv", cfg.CSVPath)
		return nil, false, nil
	}
	res, err := convert.Convert(cfg.SourcePath, cfg.CSVPath, convert.Options{Sheet: cfg.SheetName})
	if err != nil {
		return nil, false, err
	}
	log.Info("converted spreadsheet", "source", res.Source, "csv", res.Destination,
		"rows", res.Rows, "columns", len(res.Columns))
	return res, true, nil
}

// LoadTable parses the delimited file, applying the configured column names.
func LoadTable(cfg *config.Global) (*analysis.Table, error) {
	opt := analysis.LoadOptions{}
	if cfg.RenameColumns {
		opt.ColumnNames = cfg.ColumnNames
	}
	return analysis.Load(cfg.CSVPath, opt)
}

// AnalysisOptions maps configuration onto analysis.Options.
func AnalysisOptions(cfg *config.Global) analysis.Options {
	opt := analysis.DefaultOptions()
	opt.TopN = cfg.TopN
	opt.Targets = cfg.Targets
	opt.VIF = cfg.ComputeVIF
	return opt
}

// RenderCharts draws every chart for a into cfg.ImagesDir.
func RenderCharts(cfg *config.Global, a *analysis.Analysis) (*charts.Set, error) {
	r := charts.NewRenderer(cfg.ImagesDir)
	if cfg.ChartWidthIn > 0 {
		r.Width = vg.Length(cfg.ChartWidthIn) * vg.Inch
	}
	if cfg.ChartHeightIn > 0 {
		r.Height = vg.Length(cfg.ChartHeightIn) * vg.Inch
	}
	r.Bins = cfg.HistBins
	r.StandardizeBoxes = cfg.StandardizeBoxes
	return r.RenderAll(a.Table, a.Roles, a.Corr)
}

// pruneStale deletes charts listed by the previous run that this run did not
// produce, e.g. after columns were renamed.
func pruneStale(prev *manifest.Manifest, set *charts.Set, log *slog.Logger) {
	current := map[string]bool{}
	for _, a := range set.All() {
		current[a.Path] = true
	}
	for _, a := range prev.Artifacts {
		switch charts.Kind(a.Kind) {
		case charts.KindHistogram, charts.KindBoxPlot, charts.KindScatter, charts.KindHeatmap:
		default:
			continue
		}
		if current[a.Path] {
			continue
		}
		if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("could not remove stale chart", "path", a.Path, "error", err)
			continue
		}
		log.Info("removed stale chart", "path", a.Path, "previous_run", prev.RunID)
	}
}

func warnings(a *analysis.Analysis) []string {
	if a == nil {
		return nil
	}
	return a.Warnings
}
