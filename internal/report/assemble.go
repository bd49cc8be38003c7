package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/edareport/internal/utils"
	"github.com/go-pdf/fpdf"
)

const (
	pageSize     = "A4"
	marginMM     = 15.0
	bodyFont     = "Helvetica"
	tableFontPt  = 8.0
	minTableFont = 5.0
	cellPadMM    = 2.0
	lineMM       = 5.0
)

// Assemble renders doc as a PDF at path. Every image must exist beforehand.
// The file is written atomically so a failed run never leaves a partial report.
func Assemble(doc *Document, path string) error {
	for _, img := range doc.Images() {
		if !utils.FileExists(img) {
			return &ReportError{Path: img, Err: ErrMissingArtifact}
		}
	}

	w := newWriter(doc)
	pdf := w.pdf
	w.cover(doc)
	for _, s := range doc.Sections {
		switch s := s.(type) {
		case TextSection:
			w.text(s)
		case TableSection:
			w.table(s)
		case ImageSection:
			w.image(s)
		}
		if pdf.Err() {
			return &ReportError{Path: path, Err: pdf.Error()}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return &ReportError{Path: path, Err: err}
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return &ReportError{Path: path, Err: err}
	}
	return nil
}

func newWriter(doc *Document) *writer {
	pdf := fpdf.New("P", "mm", pageSize, "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("edareport", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(bodyFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	return &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	// landscape tracks the orientation of the current page.
	landscape bool
	// headers counts table header rows drawn, including repeats after page breaks.
	headers int
}

func (w *writer) cover(doc *Document) {
	p := w.pdf
	p.AddPage()
	p.SetY(80)
	p.SetFont(bodyFont, "B", 22)
	p.MultiCell(0, 10, w.tr(doc.Title), "", "C", false)
	p.Ln(4)
	p.SetFont(bodyFont, "", 12)
	if doc.Subtitle != "" {
		p.MultiCell(0, 7, w.tr(doc.Subtitle), "", "C", false)
	}
	if doc.RunID != "" {
		p.SetFont(bodyFont, "", 9)
		p.MultiCell(0, 6, w.tr("Run "+doc.RunID), "", "C", false)
	}
}

// page starts a new page in the requested orientation.
func (w *writer) page(landscape bool) {
	orient := "P"
	if landscape {
		orient = "L"
	}
	w.pdf.AddPageFormat(orient, w.pdf.GetPageSizeStr(pageSize))
	w.landscape = landscape
}

func (w *writer) printable() (width, bottom float64) {
	pw, ph := w.pdf.GetPageSize()
	l, _, r, b := w.pdf.GetMargins()
	return pw - l - r, ph - b
}

func (w *writer) heading(s string) {
	if s == "" {
		return
	}
	w.pdf.SetFont(bodyFont, "B", 14)
	w.pdf.CellFormat(0, 9, w.tr(s), "", 1, "L", false, 0, "")
	w.pdf.Ln(1)
}

func (w *writer) text(s TextSection) {
	w.page(false)
	w.heading(s.Heading)
	w.pdf.SetFont(bodyFont, "", 10)
	for _, para := range s.Paragraphs {
		w.pdf.MultiCell(0, lineMM, w.tr(para), "", "L", false)
		w.pdf.Ln(1.5)
	}
}

// table draws a bordered grid, switching to landscape when the natural width
// exceeds a portrait page and shrinking the font if even that is too narrow.
// The header row is repeated after each page break.
func (w *writer) table(s TableSection) {
	p := w.pdf
	size := tableFontPt
	widths := w.columnWidths(s, size)
	portraitWidth := w.portraitWidth()
	landscape := sum(widths) > portraitWidth
	w.page(landscape)
	avail, bottom := w.printable()
	for sum(widths) > avail && size > minTableFont {
		size -= 0.5
		widths = w.columnWidths(s, size)
	}
	if total := sum(widths); total > avail {
		scale := avail / total
		for i := range widths {
			widths[i] *= scale
		}
	}

	w.heading(s.Heading)
	rowH := size*0.5 + 1.5
	drawHeader := func() {
		w.headers++
		p.SetFont(bodyFont, "B", size)
		p.SetFillColor(230, 230, 230)
		for i, h := range s.Header {
			p.CellFormat(widths[i], rowH, w.tr(h), "1", 0, "C", true, 0, "")
		}
		p.Ln(-1)
		p.SetFont(bodyFont, "", size)
	}
	drawHeader()
	for _, row := range s.Rows {
		if p.GetY()+rowH > bottom {
			w.page(landscape)
			drawHeader()
		}
		for i := range s.Header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "L"
			if s.RightAlign[i] {
				align = "R"
			}
			p.CellFormat(widths[i], rowH, w.tr(cell), "1", 0, align, false, 0, "")
		}
		p.Ln(-1)
	}
	if s.Caption != "" {
		p.Ln(2)
		p.SetFont(bodyFont, "I", 9)
		p.MultiCell(0, lineMM, w.tr(s.Caption), "", "L", false)
	}
}

func (w *writer) columnWidths(s TableSection, size float64) []float64 {
	p := w.pdf
	widths := make([]float64, len(s.Header))
	p.SetFont(bodyFont, "B", size)
	for i, h := range s.Header {
		widths[i] = p.GetStringWidth(w.tr(h)) + 2*cellPadMM
	}
	p.SetFont(bodyFont, "", size)
	for _, row := range s.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if cw := p.GetStringWidth(w.tr(row[i])) + 2*cellPadMM; cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	return widths
}

func (w *writer) portraitWidth() float64 {
	size := w.pdf.GetPageSizeStr(pageSize)
	l, _, r, _ := w.pdf.GetMargins()
	return size.Wd - l - r
}

// image places one chart scaled to the portrait printable area, starting a new
// page when the chart opens a group, follows a landscape page or does not fit
// below the previous one. It returns the drawn width and height.
func (w *writer) image(s ImageSection) (width, height float64) {
	p := w.pdf
	opt := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	info := p.RegisterImageOptions(s.Path, opt)
	if p.Err() || info == nil {
		return 0, 0
	}
	if s.Heading != "" || w.landscape || p.PageNo() == 0 {
		w.page(false)
	}
	avail, bottom := w.printable()
	_, top, _, _ := p.GetMargins()
	width = avail
	height = width * info.Height() / info.Width()
	captionH := 0.0
	if s.Caption != "" {
		captionH = lineMM + 2
	}
	headingH := 0.0
	if s.Heading != "" {
		headingH = 10
	}
	if maxH := bottom - top - captionH - headingH; height > maxH {
		height = maxH
		width = height * info.Width() / info.Height()
	}
	if p.GetY()+headingH+height+captionH > bottom {
		w.page(false)
	}
	w.heading(s.Heading)
	l, _, _, _ := p.GetMargins()
	x := l + (avail-width)/2
	p.ImageOptions(s.Path, x, p.GetY(), width, height, false, opt, 0, "")
	p.SetY(p.GetY() + height + 1)
	if s.Caption != "" {
		p.SetFont(bodyFont, "I", 9)
		p.CellFormat(0, lineMM, w.tr(strings.TrimSpace(s.Caption)), "", 1, "C", false, 0, "")
		p.Ln(2)
	}
	return width, height
}

func sum(xs []float64) float64 {
	var t float64
	for _, x := range xs {
		t += x
	}
	return t
}
