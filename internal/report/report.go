// Package report lays out the analysis tables and chart images as a paginated
// PDF document.
package report

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingArtifact is wrapped by ReportError when a referenced image is absent.
var ErrMissingArtifact = errors.New("referenced artifact not found")

// ReportError reports a failure to assemble or write the PDF.
type ReportError struct {
	Path string
	Err  error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report failed for %s: %v", e.Path, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

// Document is an ordered list of sections behind a cover page.
type Document struct {
	Title       string
	Subtitle    string
	RunID       string
	GeneratedAt time.Time
	Sections    []Section
}

// Section is one block of report content: TextSection, TableSection or ImageSection.
type Section interface {
	heading() string
}

// TextSection is a heading followed by plain paragraphs.
type TextSection struct {
	Heading    string
	Paragraphs []string
}

// TableSection renders a bordered grid. RightAlign marks numeric columns.
type TableSection struct {
	Heading    string
	Caption    string
	Header     []string
	Rows       [][]string
	RightAlign map[int]bool
}

// ImageSection embeds one PNG scaled to the printable width.
type ImageSection struct {
	Heading string
	Caption string
	Path    string
}

func (s TextSection) heading() string  { return s.Heading }
func (s TableSection) heading() string { return s.Heading }
func (s ImageSection) heading() string { return s.Heading }

// Images returns the paths of every ImageSection in order.
func (d *Document) Images() []string {
	var out []string
	for _, s := range d.Sections {
		if img, ok := s.(ImageSection); ok {
			out = append(out, img.Path)
		}
	}
	return out
}
