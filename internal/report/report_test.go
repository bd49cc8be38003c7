package report

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/charts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func sampleAnalysis(t *testing.T, vif bool) *analysis.Analysis {
	t.Helper()
	cols := []analysis.Column{
		{Name: "Surface_Area", Numeric: true},
		{Name: "Glazing_Area", Numeric: true},
		{Name: "Heating_Load", Numeric: true},
		{Name: "Cooling_Load", Numeric: true},
	}
	for i := 0; i < 12; i++ {
		x := float64(i)
		cols[0].Values = append(cols[0].Values, 500+x*7)
		cols[1].Values = append(cols[1].Values, float64(i%4)*0.1)
		cols[2].Values = append(cols[2].Values, 10+x*1.5+float64(i%3))
		cols[3].Values = append(cols[3].Values, 12+x*1.2-float64(i%2))
	}
	tbl := &analysis.Table{Name: "sample.csv", Rows: 12, Columns: cols}
	a, err := analysis.Analyze(tbl, analysis.Options{TopN: 5, VIF: vif})
	require.NoError(t, err)
	return a
}

func sampleCharts(t *testing.T, dir string) *charts.Set {
	t.Helper()
	mk := func(name string, kind charts.Kind) charts.Artifact {
		p := filepath.Join(dir, name)
		writePNG(t, p, 80, 45)
		return charts.Artifact{Kind: kind, Label: name, Path: p}
	}
	return &charts.Set{
		Histograms: []charts.Artifact{mk("hist_a.png", charts.KindHistogram), mk("hist_b.png", charts.KindHistogram)},
		BoxPlot:    mk("boxplot.png", charts.KindBoxPlot),
		Scatters:   []charts.Artifact{mk("scatter_a_vs_y.png", charts.KindScatter)},
		Heatmap:    mk("heatmap_correlation.png", charts.KindHeatmap),
	}
}

func headings(doc *Document) []string {
	var out []string
	for _, s := range doc.Sections {
		if h := s.heading(); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func TestBuildSectionOrder(t *testing.T) {
	dir := t.TempDir()
	doc := Build(Input{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Analysis:    sampleAnalysis(t, true),
		Charts:      sampleCharts(t, dir),
	})

	assert.Equal(t, "Exploratory Data Analysis Report", doc.Title)
	assert.Equal(t, "Generated 2024-03-01 12:00:00 UTC", doc.Subtitle)
	assert.Equal(t, []string{
		"Dataset overview",
		"Summary statistics",
		"Missing values",
		"Correlation matrix (Pearson)",
		"Top 5 correlated pairs",
		"Variance inflation factors",
		"Distributions",
		"Box plot",
		"Predictors vs targets",
		"Correlation heatmap",
	}, headings(doc))
	assert.Len(t, doc.Images(), 5)

	missing := doc.Sections[2].(TableSection)
	assert.Equal(t, "No missing values.", missing.Caption)
	top := doc.Sections[4].(TableSection)
	assert.Len(t, top.Rows, 5)
}

func TestBuildNotesRenamedHeaders(t *testing.T) {
	a := sampleAnalysis(t, false)
	overview := Build(Input{Analysis: a}).Sections[0].(TextSection)
	assert.NotContains(t, overview.Paragraphs, "Column headers were replaced positionally with descriptive names.")

	a.Table.Renamed = true
	overview = Build(Input{Analysis: a}).Sections[0].(TextSection)
	assert.Contains(t, overview.Paragraphs, "Column headers were replaced positionally with descriptive names.")
}

func TestBuildWithoutVIF(t *testing.T) {
	doc := Build(Input{Analysis: sampleAnalysis(t, false)})
	for _, h := range headings(doc) {
		assert.NotEqual(t, "Variance inflation factors", h)
	}
	assert.Empty(t, doc.Images())
}

func TestAssembleWritesPDF(t *testing.T) {
	dir := t.TempDir()
	doc := Build(Input{
		RunID:       "run-2",
		GeneratedAt: time.Now(),
		Analysis:    sampleAnalysis(t, true),
		Charts:      sampleCharts(t, dir),
	})
	out := filepath.Join(dir, "nested", "eda_report.pdf")
	require.NoError(t, Assemble(doc, out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Greater(t, len(b), 1000)
	assert.Equal(t, "%PDF-", string(b[:5]))
	assert.NoFileExists(t, out+".tmp")
}

func TestTableRepeatsHeaderOnEveryPage(t *testing.T) {
	rows := make([][]string, 200)
	for i := range rows {
		rows[i] = []string{"row", "1.0000"}
	}
	doc := &Document{Title: "Long"}
	w := newWriter(doc)
	w.cover(doc)
	w.table(TableSection{Heading: "Long table", Header: []string{"name", "value"}, Rows: rows})
	require.False(t, w.pdf.Err(), "%v", w.pdf.Error())

	tablePages := w.pdf.PageNo() - 1
	assert.Greater(t, tablePages, 1)
	assert.Equal(t, tablePages, w.headers)
	assert.False(t, w.landscape)
}

func TestImageAfterLandscapeTableFitsPortraitPage(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "chart.png")
	writePNG(t, img, 800, 450)

	header := make([]string, 14)
	row := make([]string, 14)
	for i := range header {
		header[i] = "Glazing_Area_Distribution"
		row[i] = "-0.1234"
	}
	doc := &Document{Title: "Wide"}
	w := newWriter(doc)
	w.cover(doc)
	w.table(TableSection{Heading: "Wide table", Header: header, Rows: [][]string{row}})
	require.True(t, w.landscape)

	width, height := w.image(ImageSection{Caption: "chart", Path: img})
	require.False(t, w.pdf.Err(), "%v", w.pdf.Error())
	assert.False(t, w.landscape)

	pw, ph := w.pdf.GetPageSize()
	assert.Less(t, pw, ph, "image page should be portrait")
	l, _, r, _ := w.pdf.GetMargins()
	assert.InDelta(t, pw-l-r, width, 1e-6)
	assert.InDelta(t, width*450/800, height, 1e-6)
}

func TestAssembleMissingImage(t *testing.T) {
	dir := t.TempDir()
	doc := &Document{Title: "x", Sections: []Section{
		ImageSection{Heading: "Charts", Path: filepath.Join(dir, "absent.png")},
	}}
	out := filepath.Join(dir, "r.pdf")
	err := Assemble(doc, out)
	require.Error(t, err)
	var re *ReportError
	require.True(t, errors.As(err, &re))
	assert.True(t, errors.Is(err, ErrMissingArtifact))
	assert.Equal(t, filepath.Join(dir, "absent.png"), re.Path)
	assert.NoFileExists(t, out)
}

func TestAssembleUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	doc := &Document{Title: "x"}
	err := Assemble(doc, filepath.Join(blocker, "r.pdf"))
	var re *ReportError
	require.True(t, errors.As(err, &re))
}
