package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarianceInflationIndependentPredictors(t *testing.T) {
	// a and b are orthogonal over this design, so both VIFs are 1
	tab := numericTable(map[string][]float64{
		"a": {1, -1, 1, -1, 1, -1, 1, -1},
		"b": {1, 1, -1, -1, 1, 1, -1, -1},
	}, "a", "b")
	v, err := VarianceInflation(tab, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, v, 2)
	assert.Equal(t, "a", v[0].Column)
	assert.InDelta(t, 1.0, v[0].Value, 1e-9)
	assert.InDelta(t, 1.0, v[1].Value, 1e-9)
}

func TestVarianceInflationCollinear(t *testing.T) {
	tab := numericTable(map[string][]float64{
		"wall":    {294, 318.5, 343, 416.5, 245, 269.5},
		"roof":    {110.25, 122.5, 147, 122.5, 220.5, 147},
		"surface": {514.5, 563.5, 637, 661.5, 686, 563.5},
		"height":  {7, 3.5, 7, 3.5, 3.5, 7},
	}, "wall", "roof", "surface", "height")
	v, err := VarianceInflation(tab, []string{"wall", "roof", "surface", "height"})
	require.NoError(t, err)
	require.Len(t, v, 4)
	assert.True(t, math.IsInf(v[2].Value, 1), "surface = wall + 2*roof, got %v", v[2].Value)
	assert.False(t, math.IsInf(v[3].Value, 1))
}

func TestVarianceInflationNeedsPredictors(t *testing.T) {
	tab := numericTable(map[string][]float64{"a": {1, 2, 3}}, "a")
	_, err := VarianceInflation(tab, []string{"a"})
	require.Error(t, err)
	_, err = VarianceInflation(tab, []string{"a", "zzz"})
	require.Error(t, err)
}
