package assembly

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/flexagen/flexagen/internal/models"
	"github.com/flexagen/flexagen/pkg/topology"
)

func TestMeasureSolid(t *testing.T) {
	net, err := Assemble(createSolidImages(10))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	m := Measure(net)
	if !m.Complete() {
		t.Errorf("Expected complete net, painted %d", m.Painted)
	}
	if !m.Opaque {
		t.Error("Expected opaque net")
	}
	if len(m.Cells) != models.NumSheets*topology.NumCells {
		t.Fatalf("Expected %d cells, got %d", models.NumSheets*topology.NumCells, len(m.Cells))
	}

	for _, cm := range m.Cells {
		c := sourceColors[cm.Source.Image]
		want := (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255.0
		if math.Abs(cm.MeanLuminance-want) > 1e-9 {
			t.Errorf("%s cell %d: expected luminance %f, got %f", cm.Sheet, cm.Cell, want, cm.MeanLuminance)
		}
		if cm.StdLuminance > 1e-9 {
			t.Errorf("%s cell %d: expected zero deviation for a solid image, got %f", cm.Sheet, cm.Cell, cm.StdLuminance)
		}
		if cm.MeanAlpha != 1 {
			t.Errorf("%s cell %d: expected alpha 1, got %f", cm.Sheet, cm.Cell, cm.MeanAlpha)
		}
	}
}

func TestMeasureTranslucent(t *testing.T) {
	images := createSolidImages(4)
	images[0].(*image.RGBA).SetRGBA(0, 0, color.RGBA{A: 0})

	net, err := Assemble(images)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if Measure(net).Opaque {
		t.Error("Expected translucent pixel to clear Opaque")
	}
}

func TestMeasureIncomplete(t *testing.T) {
	net, err := Assemble(createSolidImages(4))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	net.painted[models.Back][3] = false

	m := Measure(net)
	if m.Complete() {
		t.Error("Expected incomplete net")
	}
	if m.Painted != 23 {
		t.Errorf("Expected 23 painted cells, got %d", m.Painted)
	}
}
