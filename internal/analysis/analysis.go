// Package analysis loads the delimited dataset and computes descriptive
// statistics, missing-value counts and Pearson correlations.
package analysis

import (
	"fmt"
	"math"
)

// Options controls which derived tables Analyze computes.
type Options struct {
	// TopN is the number of correlated pairs to keep.
	TopN int
	// Targets names the target attributes; empty picks the last two numeric columns.
	Targets []string
	// VIF computes variance inflation factors for the predictors (best-effort).
	VIF bool
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{TopN: 5, VIF: true}
}

// Analysis bundles every table derived from a dataset.
type Analysis struct {
	Table    *Table
	Overview Overview
	Roles    Roles
	Summary  Summary
	Missing  map[string]int
	Corr     *CorrMatrix
	Top      []PairCorr
	// VIF is nil when it was not requested or could not be computed.
	VIF      []VIF
	Warnings []string
}

// Analyze computes the full set of statistics for t.
func Analyze(t *Table, opt Options) (*Analysis, error) {
	roles, err := ResolveRoles(t, opt.Targets)
	if err != nil {
		return nil, err
	}
	topN := opt.TopN
	if topN <= 0 {
		topN = 5
	}
	a := &Analysis{
		Table:    t,
		Overview: NewOverview(t),
		Roles:    roles,
		Summary:  Describe(t),
		Missing:  CountMissing(t),
	}
	a.Corr = Correlate(t)
	a.Top = TopCorrelations(a.Corr, topN)
	if opt.VIF {
		v, err := VarianceInflation(t, roles.Predictors)
		if err != nil {
			a.Warnings = append(a.Warnings, fmt.Sprintf("VIF table omitted: %v", err))
		} else {
			a.VIF = v
		}
	}
	for _, c := range t.Columns {
		if !c.Numeric {
			a.Warnings = append(a.Warnings, fmt.Sprintf("column %q is not numeric and was excluded from statistics", c.Name))
		}
	}
	for i, name := range a.Corr.Columns {
		if math.IsNaN(a.Corr.Values[i][i]) {
			a.Warnings = append(a.Warnings, fmt.Sprintf("column %q has zero variance; its correlations are undefined", name))
		}
	}
	return a, nil
}

// TotalMissing sums missing cells across all columns.
func (a *Analysis) TotalMissing() int {
	n := 0
	for _, v := range a.Missing {
		n += v
	}
	return n
}
