package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelateSymmetricWithUnitDiagonal(t *testing.T) {
	tab := numericTable(map[string][]float64{
		"a": {1, 2, 3, 4, 5},
		"b": {2, 4, 6, 8, 10},
		"c": {5, 3, 4, 1, 2},
	}, "a", "b", "c")
	m := Correlate(tab)
	require.Equal(t, []string{"a", "b", "c"}, m.Columns)
	for i := range m.Columns {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, math.Abs(m.Values[i][j]), 1.0)
		}
	}
	r, ok := m.at("a", "b")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)
	r, _ = m.at("a", "c")
	assert.InDelta(t, -0.8, r, 1e-12)
}

func TestCorrelateZeroVarianceIsNaN(t *testing.T) {
	tab := numericTable(map[string][]float64{
		"a": {1, 2, 3},
		"k": {7, 7, 7},
	}, "a", "k")
	m := Correlate(tab)
	r, _ := m.at("a", "k")
	assert.True(t, math.IsNaN(r))
	d, _ := m.at("k", "k")
	assert.True(t, math.IsNaN(d))
	d, _ = m.at("a", "a")
	assert.Equal(t, 1.0, d)
}

func TestCorrelatePairwiseComplete(t *testing.T) {
	nan := math.NaN()
	tab := numericTable(map[string][]float64{
		"a": {1, 2, nan, 4},
		"b": {2, 4, 100, 8},
	}, "a", "b")
	r, _ := Correlate(tab).at("a", "b")
	assert.InDelta(t, 1.0, r, 1e-12)
}

func TestTopCorrelationsOrderingAndTies(t *testing.T) {
	m := &CorrMatrix{
		Columns: []string{"d", "c", "b", "a"},
		Values: [][]float64{
			{1, 0.5, -0.9, 0.1},
			{0.5, 1, 0.5, math.NaN()},
			{-0.9, 0.5, 1, -0.5},
			{0.1, math.NaN(), -0.5, 1},
		},
	}
	top := TopCorrelations(m, 5)
	require.Len(t, top, 5)
	assert.Equal(t, PairCorr{A: "d", B: "b", R: -0.9}, top[0])
	// three pairs tie at |r| = 0.5; ordered by first attribute, then second
	assert.Equal(t, []PairCorr{
		{A: "b", B: "a", R: -0.5},
		{A: "c", B: "b", R: 0.5},
		{A: "d", B: "c", R: 0.5},
	}, top[1:4])
	assert.Equal(t, PairCorr{A: "d", B: "a", R: 0.1}, top[4])
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, math.Abs(top[i-1].R), math.Abs(top[i].R))
	}
}

func TestTopCorrelationsFewerPairs(t *testing.T) {
	m := &CorrMatrix{Columns: []string{"a", "b"}, Values: [][]float64{{1, 0.3}, {0.3, 1}}}
	assert.Len(t, TopCorrelations(m, 5), 1)
	assert.Nil(t, TopCorrelations(m, 0))
	assert.Nil(t, TopCorrelations(nil, 5))
}
