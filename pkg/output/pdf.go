package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW  = 210.0
	pageH  = 297.0
	margin = 10.0

	// DefaultSheetMM is the printed side of a sheet
	DefaultSheetMM = 180.0

	titleSize = 14
	noteSize  = 8
)

// RenderPDF lays the two PNG-encoded sheets out on an A4 page each, sized
// sheetMM, with cut lines around the sheet and its centre hole and dashed
// fold lines between cells.
func RenderPDF(front, back []byte, sheetMM float64) ([]byte, error) {
	if sheetMM <= 0 || sheetMM > pageW-2*margin {
		return nil, fmt.Errorf("sheet of %gmm does not fit on A4", sheetMM)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Hexa-tetraflexagon", true)

	pages := []struct {
		name  string
		title string
		note  string
		data  []byte
	}{
		{"front", "Front", "Print this page first.", front},
		{"back", "Back", "Print on the reverse side, flipping along the long edge.", back},
	}

	x := (pageW - sheetMM) / 2
	y := (pageH - sheetMM) / 2
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}

	for _, p := range pages {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", titleSize)
		pdf.SetTextColor(40, 40, 40)
		pdf.SetXY(margin, margin)
		pdf.CellFormat(pageW-2*margin, 8, p.title, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", noteSize)
		pdf.SetXY(margin, margin+8)
		pdf.CellFormat(pageW-2*margin, 5, p.note, "", 0, "L", false, 0, "")

		pdf.RegisterImageOptionsReader(p.name, opts, bytes.NewReader(p.data))
		pdf.ImageOptions(p.name, x, y, sheetMM, sheetMM, false, opts, 0, "")

		drawGuides(pdf, x, y, sheetMM)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawGuides outlines the cut edges and marks the folds between the
// twelve perimeter cells.
func drawGuides(pdf *gofpdf.Fpdf, x, y, size float64) {
	q := size / 4

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, size, size, "D")
	pdf.Rect(x+q, y+q, 2*q, 2*q, "D")

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{2, 1.5}, 0)
	for i := 1; i < 4; i++ {
		o := float64(i) * q
		// top and bottom rows
		pdf.Line(x+o, y, x+o, y+q)
		pdf.Line(x+o, y+3*q, x+o, y+size)
		// left and right columns
		pdf.Line(x, y+o, x+q, y+o)
		pdf.Line(x+3*q, y+o, x+size, y+o)
	}
	pdf.SetDashPattern([]float64{}, 0)
}
