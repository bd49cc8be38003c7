package charts

import (
	"image/color"
	"math"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

var (
	barColor  = color.RGBA{R: 76, G: 114, B: 176, A: 200}
	lineColor = color.RGBA{R: 196, G: 78, B: 82, A: 255}
	boxColor  = color.RGBA{R: 221, G: 132, B: 82, A: 255}
)

const kdePoints = 200

// Histogram draws a density-normalized histogram with a Gaussian KDE overlay.
func (r *Renderer) Histogram(c analysis.Column) (Artifact, error) {
	path := r.path(r.names.claim(HistogramFile(c.Name)))
	p := plot.New()
	p.Title.Text = "Distribution - " + c.Name
	p.X.Label.Text = c.Name
	p.Y.Label.Text = "Density"
	p.Add(plotter.NewGrid())

	vals := c.Present()
	if len(vals) > 0 {
		h, err := plotter.NewHist(plotter.Values(vals), r.bins())
		if err != nil {
			return Artifact{}, &RenderError{Path: path, Err: err}
		}
		h.Normalize(1)
		h.FillColor = barColor
		h.LineStyle.Width = vg.Points(0.5)
		p.Add(h)
		if xy := kde(vals, kdePoints); xy != nil {
			l, err := plotter.NewLine(xy)
			if err != nil {
				return Artifact{}, &RenderError{Path: path, Err: err}
			}
			l.LineStyle.Width = vg.Points(1.5)
			l.LineStyle.Color = lineColor
			p.Add(l)
		}
	}
	if err := r.save(p, r.Width, r.Height, path); err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: KindHistogram, Label: "Distribution of " + c.Name, Column: c.Name, Path: path}, nil
}

func (r *Renderer) bins() int {
	if r.Bins <= 0 {
		return 20
	}
	return r.Bins
}

// kde evaluates a Gaussian kernel density estimate using Scott's bandwidth.
// It returns nil when the sample has no spread.
func kde(vals []float64, points int) plotter.XYs {
	n := len(vals)
	if n < 2 || points < 2 {
		return nil
	}
	_, sd := stat.MeanStdDev(vals, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	bw := sd * math.Pow(float64(n), -0.2)
	lo := floats.Min(vals) - 3*bw
	hi := floats.Max(vals) + 3*bw
	norm := 1 / (float64(n) * bw * math.Sqrt(2*math.Pi))
	xy := make(plotter.XYs, points)
	for i := range xy {
		x := lo + (hi-lo)*float64(i)/float64(points-1)
		var sum float64
		for _, v := range vals {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		xy[i].X = x
		xy[i].Y = sum * norm
	}
	return xy
}

// BoxPlot draws every column side by side on one plot.
func (r *Renderer) BoxPlot(cols []analysis.Column) (Artifact, error) {
	path := r.path(BoxPlotFile)
	p := plot.New()
	p.Title.Text = "Box plot - all columns"
	if r.StandardizeBoxes {
		p.Y.Label.Text = "Standardized value (z-score)"
	} else {
		p.Y.Label.Text = "Value"
	}
	p.Add(plotter.NewGrid())

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		vals := c.Present()
		if len(vals) == 0 {
			continue
		}
		if r.StandardizeBoxes {
			vals = zscore(vals)
		}
		b, err := plotter.NewBoxPlot(vg.Points(18), float64(i), plotter.Values(vals))
		if err != nil {
			return Artifact{}, &RenderError{Path: path, Err: err}
		}
		b.FillColor = boxColor
		p.Add(b)
	}
	if len(names) > 0 {
		p.NominalX(names...)
	}
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	if err := r.save(p, r.Width, r.Height+vg.Inch, path); err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: KindBoxPlot, Label: "Box plot of all columns", Path: path}, nil
}

func zscore(vals []float64) []float64 {
	mean, sd := stat.MeanStdDev(vals, nil)
	out := make([]float64, len(vals))
	if sd == 0 || math.IsNaN(sd) {
		return out
	}
	for i, v := range vals {
		out[i] = (v - mean) / sd
	}
	return out
}
