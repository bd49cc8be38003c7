package analysis

import (
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func TestLoadParsesNumericColumns(t *testing.T) {
	p := writeCSV(t, "energy.csv",
		"X1,X2,Y1",
		"0.98,514.5,15.55",
		"0.90,563.5,20.84",
		"0.86,588,21.46",
	)
	tab, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "energy.csv", tab.Name)
	assert.Equal(t, 3, tab.Rows)
	assert.Equal(t, []string{"X1", "X2", "Y1"}, tab.Names())
	for _, c := range tab.Columns {
		assert.True(t, c.Numeric, c.Name)
		assert.Len(t, c.Values, 3)
	}
	c, ok := tab.Column("X2")
	require.True(t, ok)
	assert.Equal(t, []float64{514.5, 563.5, 588}, c.Values)
	assert.False(t, c.Integer)
}

func TestLoadCountsMissingAndText(t *testing.T) {
	p := writeCSV(t, "gaps.csv",
		"a,b,label",
		"1,,x",
		"2,NA,y",
		"3,4,",
	)
	tab, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	a, _ := tab.Column("a")
	b, _ := tab.Column("b")
	label, _ := tab.Column("label")
	assert.True(t, a.Integer)
	assert.Equal(t, 0, a.Missing)
	assert.Equal(t, 2, b.Missing)
	assert.True(t, math.IsNaN(b.Values[0]))
	assert.False(t, label.Numeric)
	assert.Equal(t, 1, label.Missing)

	missing := CountMissing(tab)
	assert.Equal(t, map[string]int{"a": 0, "b": 2, "label": 1}, missing)
	for name, n := range missing {
		assert.LessOrEqual(t, n, tab.Rows, name)
	}
}

func TestLoadRejectsInconsistentRows(t *testing.T) {
	p := writeCSV(t, "bad.csv",
		"a,b,c",
		"1,2,3",
		"4,5",
	)
	_, err := Load(p, LoadOptions{})
	var me *MalformedDataError
	require.True(t, errors.As(err, &me), "got %v", err)
	assert.Equal(t, 3, me.Line)
	assert.Equal(t, 3, me.Want)
	assert.Equal(t, 2, me.Got)
	assert.Contains(t, err.Error(), p)
}

func TestLoadBadQuotingIsMalformed(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want error
	}{
		{"quote then text", `"x"y,3`, csv.ErrQuote},
		{"unterminated", `"unterminated,3`, csv.ErrQuote},
		{"bare quote", `x"y,3`, csv.ErrBareQuote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeCSV(t, "quotes.csv", "a,b", "1,2", tt.row)
			var err error
			require.NotPanics(t, func() { _, err = Load(p, LoadOptions{}) })
			var me *MalformedDataError
			require.True(t, errors.As(err, &me), "got %v", err)
			assert.GreaterOrEqual(t, me.Line, 3)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	_, err := Load(p, LoadOptions{})
	var me *MalformedDataError
	require.True(t, errors.As(err, &me))
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestLoadRenamesOnlyWhenCountMatches(t *testing.T) {
	p := writeCSV(t, "r.csv", "X1,X2", "1,2")
	tab, err := Load(p, LoadOptions{ColumnNames: []string{"Alpha", "Beta"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, tab.Names())
	assert.True(t, tab.Renamed)

	tab, err = Load(p, LoadOptions{ColumnNames: []string{"Alpha"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"X1", "X2"}, tab.Names())
	assert.False(t, tab.Renamed)
}

func TestLoadTSVAndLocaleNumbers(t *testing.T) {
	p := writeCSV(t, "locale.tsv", "a\tb", "0,5\t1.000,25", "1,5\t2.000,75")
	tab, err := Load(p, LoadOptions{DecimalSeparator: ',', ThousandsSeparator: '.'})
	require.NoError(t, err)
	a, _ := tab.Column("a")
	b, _ := tab.Column("b")
	assert.Equal(t, []float64{0.5, 1.5}, a.Values)
	assert.Equal(t, []float64{1000.25, 2000.75}, b.Values)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
