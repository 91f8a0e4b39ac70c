package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 5.0
)

// PDFExporter renders tables into a landscape A4 document with wrapped cells
// so long explanations stay readable on a printed call list.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF document.
func (e *PDFExporter) Render(t Table) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	if t.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(t.Title), "", 1, "L", false, 0, "")
	}
	if t.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(t.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pageW, pageH := pdf.GetPageSize()
	widths := columnWidths(t.Columns, pageW-2*pdfMargin)
	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range t.Columns {
			pdf.CellFormat(widths[i], 7, tr(c.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	header()

	for _, row := range t.Rows {
		lines := make([][][]byte, len(row))
		maxLines := 1
		for i, cell := range row {
			lines[i] = pdf.SplitLines([]byte(tr(cell)), widths[i]-2)
			if len(lines[i]) > maxLines {
				maxLines = len(lines[i])
			}
		}
		height := float64(maxLines)*pdfLineHeight + 1
		if pdf.GetY()+height > pageH-15 {
			pdf.AddPage()
			header()
		}
		x, y := pdf.GetXY()
		for i := range row {
			pdf.Rect(x, y, widths[i], height, "D")
			for j, line := range lines[i] {
				pdf.SetXY(x+1, y+0.5+float64(j)*pdfLineHeight)
				pdf.CellFormat(widths[i]-2, pdfLineHeight, string(line), "", 0, "L", false, 0, "")
			}
			x += widths[i]
		}
		pdf.SetXY(pdfMargin, y+height)
	}

	if t.Footnote != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 4, tr(t.Footnote), "", "L", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(cols []Column, total float64) []float64 {
	var sum float64
	for _, c := range cols {
		if c.Width > 0 {
			sum += c.Width
		} else {
			sum++
		}
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		w := c.Width
		if w <= 0 {
			w = 1
		}
		widths[i] = total * w / sum
	}
	return widths
}
