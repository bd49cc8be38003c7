package analysis

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MissingCount is one entry of the exported missing-value list.
type MissingCount struct {
	Column  string `yaml:"column"`
	Missing int    `yaml:"missing"`
}

// Snapshot is the deterministic export of the computed tables.
type Snapshot struct {
	Dataset     string         `yaml:"dataset"`
	Rows        int            `yaml:"rows"`
	Predictors  []string       `yaml:"predictors"`
	Targets     []string       `yaml:"targets"`
	Summary     []ColumnStats  `yaml:"summary"`
	Missing     []MissingCount `yaml:"missing"`
	Correlation *CorrMatrix    `yaml:"correlation"`
	Top         []PairCorr     `yaml:"top_correlations"`
	VIF         []VIF          `yaml:"vif,omitempty"`
}

// Snapshot captures the analysis tables in column order.
func (a *Analysis) Snapshot() Snapshot {
	s := Snapshot{
		Dataset:     a.Overview.Name,
		Rows:        a.Overview.Rows,
		Predictors:  a.Roles.Predictors,
		Targets:     a.Roles.Targets,
		Summary:     a.Summary.Columns,
		Correlation: a.Corr,
		Top:         a.Top,
		VIF:         a.VIF,
	}
	for _, c := range a.Table.Columns {
		s.Missing = append(s.Missing, MissingCount{Column: c.Name, Missing: a.Missing[c.Name]})
	}
	return s
}

// YAML encodes the snapshot. Identical inputs produce identical bytes.
func (s Snapshot) YAML() ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}
