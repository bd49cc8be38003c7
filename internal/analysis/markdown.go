package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact text report suitable for terminals or standalone docs.
func (a *Analysis) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if a.Overview.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", a.Overview.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", a.Overview.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(a.Overview.Columns)))
	if a.Table != nil && a.Table.Renamed {
		b.WriteString("Headers: renamed to descriptive names\n")
	}
	if len(a.Roles.Predictors) > 0 {
		b.WriteString(fmt.Sprintf("Predictors: %s\n", strings.Join(a.Roles.Predictors, ", ")))
	}
	if len(a.Roles.Targets) > 0 {
		b.WriteString(fmt.Sprintf("Targets: %s\n", strings.Join(a.Roles.Targets, ", ")))
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range a.Overview.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d)\n", c.Name, c.Kind, c.NonNull))
	}

	b.WriteString("\n[SUMMARY STATISTICS]\n")
	h, rows := SummaryTable(a.Summary)
	writeGrid(&b, h, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true})

	b.WriteString("\n[MISSING VALUES]\n")
	if a.TotalMissing() == 0 {
		b.WriteString("No missing values.\n")
	} else {
		h, rows = MissingTable(a.Table, a.Missing)
		writeGrid(&b, h, rows, map[int]bool{1: true})
	}

	if a.Corr != nil && len(a.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range a.Top {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%s\n", p.A, p.B, FormatFloat(p.R, 3)))
		}
	}
	if len(a.VIF) > 0 {
		b.WriteString("\n[VARIANCE INFLATION]\n")
		for _, v := range a.VIF {
			b.WriteString(fmt.Sprintf("- %s: %s\n", v.Column, FormatFloat(v.Value, 2)))
		}
	}
	if len(a.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range a.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeGrid(b *strings.Builder, header []string, rows [][]string, right map[int]bool) {
	for _, line := range FormatGrid(header, rows, right) {
		b.WriteString(line)
		b.WriteString("\n")
	}
}
