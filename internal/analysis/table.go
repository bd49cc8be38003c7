package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoHeader is reported when the delimited file has no header row.
var ErrNoHeader = errors.New("missing header row")

// MalformedDataError reports a delimited file whose rows do not match the header shape.
type MalformedDataError struct {
	Path string
	Line int
	Want int // fields in header
	Got  int // fields in offending row
	Err  error
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		if e.Line > 0 {
			return fmt.Sprintf("malformed data in %s (line %d): %v", e.Path, e.Line, e.Err)
		}
		return fmt.Sprintf("malformed data in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed data in %s (line %d): expected %d fields, got %d", e.Path, e.Line, e.Want, e.Got)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

// LoadOptions controls how a delimited file is parsed into a Table.
type LoadOptions struct {
	// Delimiter for CSV. If 0, picked from the file extension (',' or '\t').
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// ColumnNames renames columns positionally; ignored unless it matches the column count.
	ColumnNames []string
}

// Column is one named attribute. Missing or non-numeric cells hold NaN.
type Column struct {
	Name    string
	Numeric bool
	Integer bool // every present value is integral
	Values  []float64
	Missing int
}

// NonNull is the number of present cells.
func (c Column) NonNull() int { return len(c.Values) - c.Missing }

// Present returns the non-missing values in row order.
func (c Column) Present() []float64 {
	out := make([]float64, 0, len(c.Values)-c.Missing)
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Table is an in-memory dataset: rows are observations, columns named attributes.
type Table struct {
	Name    string
	Rows    int
	Columns []Column
	// Renamed is true when LoadOptions.ColumnNames was applied.
	Renamed bool
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns column names in file order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// NumericColumns returns numeric columns in file order.
func (t *Table) NumericColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Numeric {
			out = append(out, c)
		}
	}
	return out
}

// Load parses a delimited file into a Table.
func Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedDataError{Path: path, Err: ErrNoHeader}
		}
		return nil, &MalformedDataError{Path: path, Line: 1, Err: err}
	}
	ncol := len(header)
	if ncol == 0 || (ncol == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, &MalformedDataError{Path: path, Err: ErrNoHeader}
	}

	type colAcc struct {
		vals    []float64
		miss    int
		text    int
		integer bool
	}
	acc := make([]*colAcc, ncol)
	for i := range acc {
		acc[i] = &colAcc{integer: true}
	}

	t := &Table{Name: filepath.Base(path)}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &MalformedDataError{Path: path, Line: line, Err: err}
		}
		if len(rec) != ncol {
			line, _ := r.FieldPos(0)
			return nil, &MalformedDataError{Path: path, Line: line, Want: ncol, Got: len(rec)}
		}
		t.Rows++
		for j, raw := range rec {
			c := acc[j]
			v := strings.TrimSpace(raw)
			if isNull(v) {
				c.miss++
				c.vals = append(c.vals, math.NaN())
				continue
			}
			x, ok := parseNumeric(v, opt)
			if !ok {
				c.text++
				c.vals = append(c.vals, math.NaN())
				continue
			}
			if x != math.Trunc(x) {
				c.integer = false
			}
			c.vals = append(c.vals, x)
		}
	}

	names := make([]string, ncol)
	for i, h := range header {
		names[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if len(opt.ColumnNames) == ncol {
		copy(names, opt.ColumnNames)
		t.Renamed = true
	}

	t.Columns = make([]Column, ncol)
	for i, c := range acc {
		numeric := c.text == 0
		t.Columns[i] = Column{
			Name:    names[i],
			Numeric: numeric,
			Integer: numeric && c.integer && c.miss < t.Rows,
			Values:  c.vals,
			Missing: c.miss,
		}
	}
	return t, nil
}

var nullTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {},
}

func isNull(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string, opt LoadOptions) (float64, bool) {
	raw := strings.ReplaceAll(s, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		// auto detect
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
