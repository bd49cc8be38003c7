package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericTable(cols map[string][]float64, order ...string) *Table {
	t := &Table{Name: "mem"}
	for _, name := range order {
		vals := cols[name]
		miss := 0
		for _, v := range vals {
			if math.IsNaN(v) {
				miss++
			}
		}
		t.Rows = len(vals)
		t.Columns = append(t.Columns, Column{Name: name, Numeric: true, Values: vals, Missing: miss})
	}
	return t
}

func TestDescribeMatchesSampleDefinitions(t *testing.T) {
	tab := numericTable(map[string][]float64{"x": {1, 2, 3, 4}}, "x")
	s := Describe(tab)
	require.Len(t, s.Columns, 1)
	c := s.Columns[0]
	assert.Equal(t, 4, c.Count)
	assert.InDelta(t, 2.5, c.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), c.Std, 1e-12)
	assert.Equal(t, 1.0, c.Min)
	assert.InDelta(t, 1.75, c.Q25, 1e-12)
	assert.InDelta(t, 2.5, c.Q50, 1e-12)
	assert.InDelta(t, 3.25, c.Q75, 1e-12)
	assert.Equal(t, 4.0, c.Max)
}

func TestDescribeConstantColumn(t *testing.T) {
	tab := numericTable(map[string][]float64{"c": {0.1, 0.1, 0.1, 0.1, 0.1}}, "c")
	c, ok := Describe(tab).get("c")
	require.True(t, ok)
	assert.Equal(t, 0.0, c.Std)
	assert.Equal(t, 0.1, c.Min)
	assert.Equal(t, c.Min, c.Max)
	assert.Equal(t, 0.1, c.Mean)
}

func TestDescribeSkipsMissing(t *testing.T) {
	nan := math.NaN()
	tab := numericTable(map[string][]float64{"x": {nan, 2, nan, 4}}, "x")
	c, _ := Describe(tab).get("x")
	assert.Equal(t, 2, c.Count)
	assert.InDelta(t, 3, c.Mean, 1e-12)
	assert.Equal(t, 2.0, c.Min)
	assert.Equal(t, 4.0, c.Max)
}

func TestDescribeEmptyColumn(t *testing.T) {
	nan := math.NaN()
	tab := numericTable(map[string][]float64{"x": {nan, nan}}, "x")
	c, _ := Describe(tab).get("x")
	assert.Equal(t, 0, c.Count)
	assert.True(t, math.IsNaN(c.Mean))
}

func TestNewOverviewKinds(t *testing.T) {
	tab := &Table{Name: "o", Rows: 2, Columns: []Column{
		{Name: "f", Numeric: true, Values: []float64{1.5, 2}},
		{Name: "i", Numeric: true, Integer: true, Values: []float64{1, 2}},
		{Name: "s", Values: []float64{math.NaN(), math.NaN()}, Missing: 1},
	}}
	ov := NewOverview(tab)
	require.Len(t, ov.Columns, 3)
	assert.Equal(t, ColumnInfo{Name: "f", Kind: "float64", NonNull: 2}, ov.Columns[0])
	assert.Equal(t, "int64", ov.Columns[1].Kind)
	assert.Equal(t, ColumnInfo{Name: "s", Kind: "object", NonNull: 1}, ov.Columns[2])
}

func TestQuantileEdges(t *testing.T) {
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.25))
	assert.Equal(t, 1.0, quantile([]float64{1, 2}, 0))
	assert.Equal(t, 2.0, quantile([]float64{1, 2}, 1))
}
