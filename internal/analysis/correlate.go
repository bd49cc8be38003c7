package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `yaml:"columns"`
	Values  [][]float64 `yaml:"values"` // row-major, Values[i][j]
}

// at returns the coefficient for the named pair.
func (m *CorrMatrix) at(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

func (m *CorrMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A string  `yaml:"a"`
	B string  `yaml:"b"`
	R float64 `yaml:"r"`
}

// Correlate computes pairwise Pearson correlations over numeric columns using
// rows where both values are present. Pairs involving a zero-variance column,
// or with fewer than two paired rows, are NaN.
func Correlate(t *Table) *CorrMatrix {
	cols := t.NumericColumns()
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i := range cols {
		m.Columns[i] = cols[i].Name
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		if varies(cols[i].Present()) {
			m.Values[i][i] = 1
		} else {
			m.Values[i][i] = math.NaN()
		}
		for j := i + 1; j < n; j++ {
			r := pearson(cols[i].Values, cols[j].Values)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(xs, ys []float64) float64 {
	x := make([]float64, 0, len(xs))
	y := make([]float64, 0, len(ys))
	for k := range xs {
		if k >= len(ys) || math.IsNaN(xs[k]) || math.IsNaN(ys[k]) {
			continue
		}
		x = append(x, xs[k])
		y = append(y, ys[k])
	}
	if len(x) < 2 || !varies(x) || !varies(y) {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func varies(vals []float64) bool {
	if len(vals) < 2 {
		return false
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return true
		}
	}
	return false
}

// TopCorrelations returns up to n distinct unordered pairs ordered by |r|
// descending. Ties are broken by the first attribute name, then the second.
// Undefined (NaN) coefficients are skipped.
func TopCorrelations(m *CorrMatrix, n int) []PairCorr {
	if m == nil || n <= 0 {
		return nil
	}
	var pairs []PairCorr
	k := len(m.Columns)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai != aj {
			return ai > aj
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
