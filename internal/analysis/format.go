package analysis

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FormatFloat renders v with prec decimals; NaN and infinities get fixed spellings
// so rendered tables are stable across runs.
func FormatFloat(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if s == "-"+strconv.FormatFloat(0, 'f', prec, 64) {
		s = s[1:]
	}
	return s
}

// SummaryTable returns the describe() grid with one row per column.
func SummaryTable(s Summary) (header []string, rows [][]string) {
	header = []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	for _, c := range s.Columns {
		rows = append(rows, []string{
			c.Name,
			strconv.Itoa(c.Count),
			FormatFloat(c.Mean, 4),
			FormatFloat(c.Std, 4),
			FormatFloat(c.Min, 4),
			FormatFloat(c.Q25, 4),
			FormatFloat(c.Q50, 4),
			FormatFloat(c.Q75, 4),
			FormatFloat(c.Max, 4),
		})
	}
	return header, rows
}

// MissingTable lists missing counts in table column order.
func MissingTable(t *Table, missing map[string]int) (header []string, rows [][]string) {
	header = []string{"column", "missing"}
	for _, c := range t.Columns {
		rows = append(rows, []string{c.Name, strconv.Itoa(missing[c.Name])})
	}
	return header, rows
}

// CorrTable renders the full matrix with the column names as the first column.
func CorrTable(m *CorrMatrix) (header []string, rows [][]string) {
	header = append([]string{""}, m.Columns...)
	for i, name := range m.Columns {
		row := []string{name}
		for j := range m.Columns {
			row = append(row, FormatFloat(m.Values[i][j], 2))
		}
		rows = append(rows, row)
	}
	return header, rows
}

// TopTable renders the ranked pair list.
func TopTable(top []PairCorr) (header []string, rows [][]string) {
	header = []string{"#", "attribute A", "attribute B", "r", "|r|"}
	for i, p := range top {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), p.A, p.B, FormatFloat(p.R, 4), FormatFloat(math.Abs(p.R), 4),
		})
	}
	return header, rows
}

// VIFTable renders variance inflation factors.
func VIFTable(v []VIF) (header []string, rows [][]string) {
	header = []string{"predictor", "VIF"}
	for _, x := range v {
		rows = append(rows, []string{x.Column, FormatFloat(x.Value, 2)})
	}
	return header, rows
}

// FormatGrid pads cells so columns line up; rightAlignCols marks numeric columns.
func FormatGrid(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}
	widths := make([]int, colCount)
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		pad := widths[i] - utf8.RuneCountInString(cell)
		if pad < 0 {
			pad = 0
		}
		if rightAlignCols[i] {
			b.WriteString(strings.Repeat(" ", pad) + cell)
		} else {
			b.WriteString(cell + strings.Repeat(" ", pad))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
