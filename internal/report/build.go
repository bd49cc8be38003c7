package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/charts"
)

// Input carries everything Build needs.
type Input struct {
	Title       string
	RunID       string
	GeneratedAt time.Time
	Source      string
	Analysis    *analysis.Analysis
	Charts      *charts.Set
}

// Build lays out the report in a fixed order: overview, summary statistics,
// missing values, correlation matrix, top correlations, VIF when present, then
// distributions, box plot, scatter plots and the heatmap.
func Build(in Input) *Document {
	title := in.Title
	if title == "" {
		title = "Exploratory Data Analysis Report"
	}
	at := in.GeneratedAt.UTC()
	doc := &Document{
		Title:       title,
		Subtitle:    "Generated " + at.Format("2006-01-02 15:04:05 MST"),
		RunID:       in.RunID,
		GeneratedAt: at,
	}
	a := in.Analysis
	if a == nil {
		return doc
	}

	doc.Sections = append(doc.Sections, overviewSection(in))

	h, rows := analysis.SummaryTable(a.Summary)
	doc.Sections = append(doc.Sections, TableSection{
		Heading:    "Summary statistics",
		Header:     h,
		Rows:       rows,
		RightAlign: rightFrom(1, len(h)),
	})

	h, rows = analysis.MissingTable(a.Table, a.Missing)
	caption := fmt.Sprintf("%d missing cells in total.", a.TotalMissing())
	if a.TotalMissing() == 0 {
		caption = "No missing values."
	}
	doc.Sections = append(doc.Sections, TableSection{
		Heading:    "Missing values",
		Caption:    caption,
		Header:     h,
		Rows:       rows,
		RightAlign: rightFrom(1, len(h)),
	})

	h, rows = analysis.CorrTable(a.Corr)
	doc.Sections = append(doc.Sections, TableSection{
		Heading:    "Correlation matrix (Pearson)",
		Header:     h,
		Rows:       rows,
		RightAlign: rightFrom(1, len(h)),
	})

	h, rows = analysis.TopTable(a.Top)
	doc.Sections = append(doc.Sections, TableSection{
		Heading:    fmt.Sprintf("Top %d correlated pairs", len(a.Top)),
		Caption:    "Ranked by absolute coefficient; the signed value is shown.",
		Header:     h,
		Rows:       rows,
		RightAlign: map[int]bool{0: true, 3: true, 4: true},
	})

	if len(a.VIF) > 0 {
		h, rows = analysis.VIFTable(a.VIF)
		doc.Sections = append(doc.Sections, TableSection{
			Heading:    "Variance inflation factors",
			Caption:    "Computed over predictors on complete rows; inf marks perfect collinearity.",
			Header:     h,
			Rows:       rows,
			RightAlign: map[int]bool{1: true},
		})
	}

	if in.Charts != nil {
		doc.Sections = append(doc.Sections, imageGroup("Distributions", in.Charts.Histograms)...)
		if in.Charts.BoxPlot.Path != "" {
			doc.Sections = append(doc.Sections, imageGroup("Box plot", []charts.Artifact{in.Charts.BoxPlot})...)
		}
		doc.Sections = append(doc.Sections, imageGroup("Predictors vs targets", in.Charts.Scatters)...)
		if in.Charts.Heatmap.Path != "" {
			doc.Sections = append(doc.Sections, imageGroup("Correlation heatmap", []charts.Artifact{in.Charts.Heatmap})...)
		}
	}
	return doc
}

func overviewSection(in Input) TextSection {
	a := in.Analysis
	ov := a.Overview
	p := []string{
		fmt.Sprintf("Dataset: %s", ov.Name),
		fmt.Sprintf("Rows: %d  Columns: %d", ov.Rows, len(ov.Columns)),
	}
	if in.Source != "" && in.Source != ov.Name {
		p = append(p, "Source: "+in.Source)
	}
	if a.Table != nil && a.Table.Renamed {
		p = append(p, "Column headers were replaced positionally with descriptive names.")
	}
	if len(a.Roles.Predictors) > 0 {
		p = append(p, "Predictors: "+strings.Join(a.Roles.Predictors, ", "))
	}
	if len(a.Roles.Targets) > 0 {
		p = append(p, "Targets: "+strings.Join(a.Roles.Targets, ", "))
	}
	var cols []string
	for _, c := range ov.Columns {
		cols = append(cols, fmt.Sprintf("%s (%s, %d non-null)", c.Name, c.Kind, c.NonNull))
	}
	p = append(p, "Schema: "+strings.Join(cols, "; "))
	for _, w := range a.Warnings {
		p = append(p, "Note: "+w)
	}
	return TextSection{Heading: "Dataset overview", Paragraphs: p}
}

func imageGroup(heading string, arts []charts.Artifact) []Section {
	out := make([]Section, 0, len(arts))
	for i, art := range arts {
		s := ImageSection{Caption: art.Label, Path: art.Path}
		if i == 0 {
			s.Heading = heading
		}
		out = append(out, s)
	}
	return out
}

func rightFrom(start, n int) map[int]bool {
	m := make(map[int]bool, n)
	for i := start; i < n; i++ {
		m[i] = true
	}
	return m
}
