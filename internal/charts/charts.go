// Package charts renders the distribution, box, scatter and heatmap images that
// the report embeds.
package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Kind identifies the chart type of an artifact.
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBoxPlot   Kind = "boxplot"
	KindScatter   Kind = "scatter"
	KindHeatmap   Kind = "heatmap"
)

// Artifact is a rendered image plus the label used to place it in the report.
type Artifact struct {
	Kind   Kind   `json:"kind"`
	Label  string `json:"label"`
	Column string `json:"column,omitempty"`
	Target string `json:"target,omitempty"`
	Path   string `json:"path"`
}

// Set groups the artifacts of one run in report order.
type Set struct {
	Histograms []Artifact
	BoxPlot    Artifact
	Scatters   []Artifact
	Heatmap    Artifact
}

// All returns every artifact in report order.
func (s *Set) All() []Artifact {
	out := make([]Artifact, 0, len(s.Histograms)+len(s.Scatters)+2)
	out = append(out, s.Histograms...)
	if s.BoxPlot.Path != "" {
		out = append(out, s.BoxPlot)
	}
	out = append(out, s.Scatters...)
	if s.Heatmap.Path != "" {
		out = append(out, s.Heatmap)
	}
	return out
}

// RenderError reports a filesystem or drawing failure while writing an image.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer writes chart images under Dir. Filenames depend only on chart type and
// column names, so re-runs overwrite earlier images.
type Renderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
	// Bins is the histogram bin count.
	Bins int
	// StandardizeBoxes z-scores every column so the shared box plot has one scale.
	StandardizeBoxes bool

	names fileNames
}

// fileNames hands out unique image names within one RenderAll call. Names whose
// slugs coincide get a numeric suffix in render order.
type fileNames map[string]bool

func (f fileNames) claim(name string) string {
	if f == nil {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	out := name
	for i := 2; f[out]; i++ {
		out = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	f[out] = true
	return out
}

// NewRenderer returns a Renderer with default sizes.
func NewRenderer(dir string) *Renderer {
	return &Renderer{
		Dir:              dir,
		Width:            8 * vg.Inch,
		Height:           4.5 * vg.Inch,
		Bins:             20,
		StandardizeBoxes: true,
	}
}

// RenderAll draws one histogram per numeric column, one box plot, predictor×target
// scatters and the correlation heatmap.
func (r *Renderer) RenderAll(t *analysis.Table, roles analysis.Roles, corr *analysis.CorrMatrix) (*Set, error) {
	if err := r.ensureDir(); err != nil {
		return nil, err
	}
	r.names = fileNames{BoxPlotFile: true, HeatmapFile: true}
	defer func() { r.names = nil }()
	set := &Set{}
	numeric := t.NumericColumns()
	for _, c := range numeric {
		a, err := r.Histogram(c)
		if err != nil {
			return nil, err
		}
		set.Histograms = append(set.Histograms, a)
	}
	box, err := r.BoxPlot(numeric)
	if err != nil {
		return nil, err
	}
	set.BoxPlot = box
	for _, target := range roles.Targets {
		y, ok := t.Column(target)
		if !ok {
			return nil, &RenderError{Path: r.Dir, Err: fmt.Errorf("target column %q not found", target)}
		}
		for _, pred := range roles.Predictors {
			x, ok := t.Column(pred)
			if !ok {
				return nil, &RenderError{Path: r.Dir, Err: fmt.Errorf("predictor column %q not found", pred)}
			}
			a, err := r.Scatter(x, y)
			if err != nil {
				return nil, err
			}
			set.Scatters = append(set.Scatters, a)
		}
	}
	hm, err := r.Heatmap(corr)
	if err != nil {
		return nil, err
	}
	set.Heatmap = hm
	return set, nil
}

func (r *Renderer) ensureDir() error {
	if err := utils.EnsureDir(r.Dir); err != nil {
		return &RenderError{Path: r.Dir, Err: err}
	}
	return nil
}

func (r *Renderer) path(name string) string {
	return filepath.Join(r.Dir, name)
}

func (r *Renderer) save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := r.ensureDir(); err != nil {
		return err
	}
	if err := p.Save(w, h, path); err != nil {
		return &RenderError{Path: path, Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		return &RenderError{Path: path, Err: err}
	}
	return nil
}

// HistogramFile is the deterministic image name for a column distribution.
func HistogramFile(column string) string { return "hist_" + utils.Slug(column) + ".png" }

// ScatterFile is the deterministic image name for a predictor/target scatter.
func ScatterFile(predictor, target string) string {
	return "scatter_" + utils.Slug(predictor) + "_vs_" + utils.Slug(target) + ".png"
}

const (
	BoxPlotFile = "boxplot.png"
	HeatmapFile = "heatmap_correlation.png"
)
