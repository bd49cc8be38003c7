package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// VIF is the variance inflation factor of one predictor.
type VIF struct {
	Column string  `yaml:"column"`
	Value  float64 `yaml:"value"` // +Inf when perfectly collinear, NaN when constant
}

// VarianceInflation regresses each predictor on the others (with intercept) over
// complete rows and reports 1/(1-R²).
func VarianceInflation(t *Table, predictors []string) ([]VIF, error) {
	if len(predictors) < 2 {
		return nil, fmt.Errorf("vif: need at least 2 predictors, got %d", len(predictors))
	}
	cols := make([]Column, len(predictors))
	for i, name := range predictors {
		c, ok := t.Column(name)
		if !ok || !c.Numeric {
			return nil, fmt.Errorf("vif: %q is not a numeric column", name)
		}
		cols[i] = c
	}
	// complete-case rows
	var rows []int
	for r := 0; r < t.Rows; r++ {
		ok := true
		for _, c := range cols {
			if math.IsNaN(c.Values[r]) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, r)
		}
	}
	k := len(cols)
	if len(rows) <= k {
		return nil, fmt.Errorf("vif: %d complete rows is not enough for %d predictors", len(rows), k)
	}

	out := make([]VIF, 0, k)
	for target := range cols {
		x := mat.NewDense(len(rows), k, nil) // intercept + k-1 regressors
		y := mat.NewVecDense(len(rows), nil)
		for i, r := range rows {
			x.Set(i, 0, 1)
			col := 1
			for j, c := range cols {
				if j == target {
					continue
				}
				x.Set(i, col, c.Values[r])
				col++
			}
			y.SetVec(i, cols[target].Values[r])
		}
		out = append(out, VIF{Column: cols[target].Name, Value: vifFor(x, y)})
	}
	return out, nil
}

func vifFor(x *mat.Dense, y *mat.VecDense) float64 {
	n := y.Len()
	mean := 0.0
	for i := 0; i < n; i++ {
		mean += y.AtVec(i)
	}
	mean /= float64(n)
	var ssTot float64
	for i := 0; i < n; i++ {
		d := y.AtVec(i) - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return math.NaN()
	}

	// Least squares via thin SVD; directions with singular values below tol are dropped.
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return math.NaN()
	}
	vals := svd.Values(nil)
	if len(vals) == 0 || vals[0] == 0 {
		return math.NaN()
	}
	var u mat.Dense
	svd.UTo(&u)
	rows, cols := x.Dims()
	tol := vals[0] * float64(max(rows, cols)) * 2.220446049250313e-16
	fit := make([]float64, n)
	for k, sv := range vals {
		if sv <= tol {
			continue
		}
		uk := u.ColView(k)
		proj := mat.Dot(uk, y)
		for i := 0; i < n; i++ {
			fit[i] += proj * uk.AtVec(i)
		}
	}
	var ssRes float64
	for i := 0; i < n; i++ {
		d := y.AtVec(i) - fit[i]
		ssRes += d * d
	}
	r2 := 1 - ssRes/ssTot
	if 1-r2 < 1e-10 {
		return math.Inf(1)
	}
	return 1 / (1 - r2)
}
