package analysis

import "fmt"

// Roles splits numeric columns into predictors and targets.
type Roles struct {
	Predictors []string
	Targets    []string
}

// ResolveRoles uses the named targets, or the last two numeric columns when none
// are given. Every other numeric column is a predictor.
func ResolveRoles(t *Table, targets []string) (Roles, error) {
	var numeric []string
	for _, c := range t.NumericColumns() {
		numeric = append(numeric, c.Name)
	}
	isTarget := map[string]bool{}
	var r Roles
	if len(targets) == 0 {
		k := 2
		if len(numeric) <= 2 {
			k = len(numeric) - 1
		}
		if k > 0 {
			r.Targets = append(r.Targets, numeric[len(numeric)-k:]...)
		}
	} else {
		for _, name := range targets {
			c, ok := t.Column(name)
			if !ok {
				return Roles{}, fmt.Errorf("target column %q not found", name)
			}
			if !c.Numeric {
				return Roles{}, fmt.Errorf("target column %q is not numeric", name)
			}
			r.Targets = append(r.Targets, name)
		}
	}
	for _, name := range r.Targets {
		isTarget[name] = true
	}
	for _, name := range numeric {
		if !isTarget[name] {
			r.Predictors = append(r.Predictors, name)
		}
	}
	return r, nil
}
