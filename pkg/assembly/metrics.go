package assembly

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"github.com/flexagen/flexagen/internal/models"
	"github.com/flexagen/flexagen/pkg/topology"
)

// CellMetrics summarises the pixels of one painted cell.
type CellMetrics struct {
	Sheet  models.Sheet
	Cell   int
	Source models.Source

	// MeanLuminance and StdLuminance are in [0,1], Rec. 601 weights
	MeanLuminance float64
	StdLuminance  float64

	// MeanAlpha is 1 for a fully opaque cell
	MeanAlpha float64
}

// Metrics describes how completely a net was painted.
type Metrics struct {
	// Cells lists every perimeter cell, front sheet first
	Cells []CellMetrics

	// Painted counts cells that received a quadrant; 24 for a complete net
	Painted int

	// Opaque is true when every painted pixel has full alpha
	Opaque bool
}

// Complete reports whether all cells of both sheets were painted.
func (m Metrics) Complete() bool {
	return m.Painted == models.NumSheets*topology.NumCells
}

// Measure computes per-cell statistics of an assembled net.
func Measure(net *Net) Metrics {
	m := Metrics{Opaque: true}

	for s := 0; s < models.NumSheets; s++ {
		sheet := models.Sheet(s)
		for c := 0; c < topology.NumCells; c++ {
			if !net.Painted(sheet, c) {
				m.Opaque = false
				continue
			}
			m.Painted++

			r, err := net.CellBounds(c)
			if err != nil {
				continue
			}
			lum, alpha, opaque := cellSamples(net.Sheet(sheet), r)
			if !opaque {
				m.Opaque = false
			}

			src, _ := topology.SourceAt(sheet, c)
			cm := CellMetrics{
				Sheet:     sheet,
				Cell:      c,
				Source:    src,
				MeanAlpha: stat.Mean(alpha, nil),
			}
			if len(lum) > 1 {
				cm.MeanLuminance, cm.StdLuminance = stat.MeanStdDev(lum, nil)
			} else {
				cm.MeanLuminance = stat.Mean(lum, nil)
			}
			m.Cells = append(m.Cells, cm)
		}
	}

	return m
}

// cellSamples returns luminance and alpha of every pixel in r, both
// normalised to [0,1], and whether all pixels are fully opaque.
func cellSamples(img *image.RGBA, r image.Rectangle) (lum, alpha []float64, opaque bool) {
	n := r.Dx() * r.Dy()
	lum = make([]float64, 0, n)
	alpha = make([]float64, 0, n)
	opaque = true

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			lum = append(lum, (0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B))/255.0)
			alpha = append(alpha, float64(c.A)/255.0)
			if c.A != 0xff {
				opaque = false
			}
		}
	}

	return lum, alpha, opaque
}
