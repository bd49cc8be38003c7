package charts

import (
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	pointColor = color.RGBA{R: 85, G: 168, B: 104, A: 160}
	nanColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Scatter plots predictor x against target y over rows where both are present.
func (r *Renderer) Scatter(x, y analysis.Column) (Artifact, error) {
	path := r.path(r.names.claim(ScatterFile(x.Name, y.Name)))
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", x.Name, y.Name)
	p.X.Label.Text = x.Name
	p.Y.Label.Text = y.Name
	p.Add(plotter.NewGrid())

	var xy plotter.XYs
	for i := range x.Values {
		if i >= len(y.Values) || math.IsNaN(x.Values[i]) || math.IsNaN(y.Values[i]) {
			continue
		}
		xy = append(xy, plotter.XY{X: x.Values[i], Y: y.Values[i]})
	}
	if len(xy) > 0 {
		s, err := plotter.NewScatter(xy)
		if err != nil {
			return Artifact{}, &RenderError{Path: path, Err: err}
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Color = pointColor
		p.Add(s)
	}
	if err := r.save(p, r.Width, r.Height, path); err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Kind:   KindScatter,
		Label:  fmt.Sprintf("%s vs %s", x.Name, y.Name),
		Column: x.Name,
		Target: y.Name,
		Path:   path,
	}, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first
// column drawn at the top row.
type corrGrid struct {
	m *analysis.CorrMatrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// Heatmap draws the correlation matrix on a diverging blue-red scale fixed to
// [-1, 1], annotating each cell with its coefficient.
func (r *Renderer) Heatmap(m *analysis.CorrMatrix) (Artifact, error) {
	path := r.path(HeatmapFile)
	p := plot.New()
	p.Title.Text = "Correlation matrix (Pearson)"

	if m != nil && len(m.Columns) >= 2 {
		n := len(m.Columns)
		cm := moreland.SmoothBlueRed()
		cm.SetMin(-1)
		cm.SetMax(1)
		hm := plotter.NewHeatMap(corrGrid{m: m}, cm.Palette(255))
		hm.Min, hm.Max = -1, 1
		hm.NaN = nanColor
		p.Add(hm)

		xys := make(plotter.XYs, 0, n*n)
		labels := make([]string, 0, n*n)
		grid := corrGrid{m: m}
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				xys = append(xys, plotter.XY{X: float64(col), Y: float64(row)})
				labels = append(labels, analysis.FormatFloat(grid.Z(col, row), 2))
			}
		}
		lab, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return Artifact{}, &RenderError{Path: path, Err: err}
		}
		for i := range lab.TextStyle {
			lab.TextStyle[i].XAlign = text.XCenter
			lab.TextStyle[i].YAlign = text.YCenter
			lab.TextStyle[i].Font.Size = vg.Points(7)
		}
		p.Add(lab)

		xt := make([]plot.Tick, n)
		yt := make([]plot.Tick, n)
		for i, name := range m.Columns {
			xt[i] = plot.Tick{Value: float64(i), Label: name}
			yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
		}
		p.X.Tick.Marker = plot.ConstantTicks(xt)
		p.Y.Tick.Marker = plot.ConstantTicks(yt)
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}
	if err := r.save(p, 9*vg.Inch, 8*vg.Inch, path); err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: KindHeatmap, Label: "Correlation heatmap", Path: path}, nil
}
