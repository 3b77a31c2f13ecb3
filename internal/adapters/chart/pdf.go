package chart

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/phpdave11/gofpdf"
)

// Page geometry in millimetres.
const (
	pdfMargin     = 15.0
	pdfLabelWidth = 62.0
	pdfValueWidth = 22.0
	pdfMaxRow     = 8.0
	pdfMinRow     = 3.0
)

// PDF draws one A4 page per chart with horizontal bars, largest first
// when the bars are sorted that way.
type PDF struct{}

// NewPDF returns the PDF renderer.
func NewPDF() *PDF { return &PDF{} }

// Format implements Renderer.
func (*PDF) Format() string { return FormatPDF }

// Render implements Renderer.
func (*PDF) Render(ctx context.Context, path string, charts ...Chart) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, c := range charts {
		if err := ctx.Err(); err != nil {
			return err
		}
		drawPage(pdf, tr, c)
	}
	if len(charts) == 0 {
		pdf.AddPage()
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRender, path, err)
	}
	return nil
}

func drawPage(pdf *gofpdf.Fpdf, tr func(string) string, c Chart) {
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(c.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s by %s", orDefault(c.YLabel, "value"), orDefault(c.XLabel, "label"))), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(c.Bars) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, "no data", "", 1, "L", false, 0, "")
		return
	}

	top := pdf.GetY()
	row := math.Max(pdfMinRow, math.Min(pdfMaxRow, (pageH-pdfMargin-top)/float64(len(c.Bars))))
	fontSize := row * 2 // points, roughly two per millimetre of row height
	pdf.SetFont("Helvetica", "", fontSize)

	barX := pdfMargin + pdfLabelWidth
	barMax := pageW - 2*pdfMargin - pdfLabelWidth - pdfValueWidth
	peak := maxValue(c.Bars)
	pdf.SetFillColor(70, 110, 170)

	for i, b := range c.Bars {
		y := top + float64(i)*row
		if y+row > pageH-pdfMargin {
			break
		}
		pdf.SetXY(pdfMargin, y)
		pdf.CellFormat(pdfLabelWidth-2, row, fitText(pdf, tr(b.Label), pdfLabelWidth-2), "", 0, "R", false, 0, "")

		w := 0.0
		if peak > 0 && b.Value > 0 {
			w = barMax * b.Value / peak
		}
		if w > 0 {
			pdf.Rect(barX, y+row*0.15, w, row*0.7, "F")
		}
		pdf.SetXY(barX+w+1, y)
		pdf.CellFormat(pdfValueWidth, row, formatValue(b.Value), "", 0, "L", false, 0, "")
	}
}

// fitText shortens s with a trailing ".." until it fits in width. s is
// already in the single-byte font encoding, so it is cut per byte.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"..") > width {
		s = s[:len(s)-1]
	}
	return s + ".."
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
