package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ColumnStats captures the descriptive statistics of one numeric column.
type ColumnStats struct {
	Name  string  `yaml:"name"`
	Count int     `yaml:"count"`
	Mean  float64 `yaml:"mean"`
	Std   float64 `yaml:"std"`
	Min   float64 `yaml:"min"`
	Q25   float64 `yaml:"p25"`
	Q50   float64 `yaml:"p50"`
	Q75   float64 `yaml:"p75"`
	Max   float64 `yaml:"max"`
}

// Summary holds ColumnStats for every numeric column, in table order.
type Summary struct {
	Columns []ColumnStats
}

// get returns the statistics for the named column.
func (s Summary) get(name string) (ColumnStats, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Describe computes count, mean, sample standard deviation, min, quartiles and max
// over the non-missing values of each numeric column.
func Describe(t *Table) Summary {
	var out Summary
	for _, c := range t.NumericColumns() {
		out.Columns = append(out.Columns, describeColumn(c))
	}
	return out
}

func describeColumn(c Column) ColumnStats {
	vals := c.Present()
	s := ColumnStats{Name: c.Name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)

	if s.Min == s.Max {
		// constant column: avoid rounding noise in the mean/variance
		s.Mean = s.Min
		s.Std = 0
		if len(vals) < 2 {
			s.Std = math.NaN()
		}
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	return s
}

// quantile interpolates linearly between the closest ranks of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// CountMissing returns the number of empty/null cells per column.
func CountMissing(t *Table) map[string]int {
	out := make(map[string]int, len(t.Columns))
	for _, c := range t.Columns {
		out[c.Name] = c.Missing
	}
	return out
}

// ColumnInfo is the per-column part of the dataset overview.
type ColumnInfo struct {
	Name    string
	Kind    string // float64|int64|object
	NonNull int
}

// Overview describes the dataset shape, similar to a dataframe info() listing.
type Overview struct {
	Name    string
	Rows    int
	Columns []ColumnInfo
}

// NewOverview returns the overview for t.
func NewOverview(t *Table) Overview {
	ov := Overview{Name: t.Name, Rows: t.Rows}
	for _, c := range t.Columns {
		kind := "object"
		if c.Numeric {
			kind = "float64"
			if c.Integer {
				kind = "int64"
			}
		}
		ov.Columns = append(ov.Columns, ColumnInfo{Name: c.Name, Kind: kind, NonNull: c.NonNull()})
	}
	return ov
}
