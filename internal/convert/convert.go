// Package convert turns the source spreadsheet into the delimited text file the
// statistics engine reads.
package convert

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/edareport/internal/utils"
)

// ErrEmptySheet is returned when the selected sheet has no header row.
var ErrEmptySheet = errors.New("sheet has no rows")

// ConversionError reports a missing, unreadable or unwritable file during conversion.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed for %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Reader extracts raw rows (header first) from a tabular source file.
type Reader interface {
	CanRead(filename string) bool
	Read(path, sheet string) ([][]string, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func readerFor(path string) (Reader, bool) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r, true
		}
	}
	return nil, false
}

func init() {
	Register(xlsxReader{})
	Register(delimitedReader{})
}

// Options controls conversion.
type Options struct {
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string
}

// Result describes a finished conversion.
type Result struct {
	Source      string
	Destination string
	Columns     []string
	Rows        int // data rows, header excluded
}

// Convert reads src and writes a comma-delimited UTF-8 file at dst with the same
// header and rows. Missing parent directories are created and dst is overwritten.
func Convert(src, dst string, opt Options) (*Result, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, &ConversionError{Path: src, Err: err}
	}
	if info.IsDir() {
		return nil, &ConversionError{Path: src, Err: errors.New("source is a directory")}
	}
	r, ok := readerFor(src)
	if !ok {
		return nil, &ConversionError{Path: src, Err: fmt.Errorf("unsupported source format %q", src)}
	}
	rows, err := r.Read(src, opt.Sheet)
	if err != nil {
		return nil, &ConversionError{Path: src, Err: err}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &ConversionError{Path: src, Err: ErrEmptySheet}
	}
	header := trimHeader(rows[0])
	width := len(header)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, &ConversionError{Path: dst, Err: err}
	}
	n := 0
	for _, row := range rows[1:] {
		rec := make([]string, width)
		copy(rec, row)
		if len(row) > width {
			// cells beyond the header have no column to land in
			if !blank(row[width:]) {
				return nil, &ConversionError{Path: src, Err: fmt.Errorf("row %d has %d cells, header has %d", n+2, len(row), width)}
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, &ConversionError{Path: dst, Err: err}
		}
		n++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, &ConversionError{Path: dst, Err: err}
	}
	if err := utils.SafeWriteFile(dst, buf.Bytes()); err != nil {
		return nil, &ConversionError{Path: dst, Err: err}
	}
	return &Result{Source: src, Destination: dst, Columns: header, Rows: n}, nil
}

// NeedsConversion reports whether dst is missing or older than src. Force always converts.
func NeedsConversion(src, dst string, force bool) bool {
	if force {
		return true
	}
	di, err := os.Stat(dst)
	if err != nil {
		return true
	}
	si, err := os.Stat(src)
	if err != nil {
		return false
	}
	return si.ModTime().After(di.ModTime())
}

// trimHeader drops trailing empty header cells that spreadsheets sometimes report.
func trimHeader(h []string) []string {
	end := len(h)
	for end > 0 && strings.TrimSpace(h[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i := 0; i < end; i++ {
		out[i] = strings.TrimSpace(h[i])
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
