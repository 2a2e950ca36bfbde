package models

import (
	"fmt"
	"image"
)

// Sheet identifies one of the two printed sides of the net.
type Sheet int

const (
	Front Sheet = iota
	Back
)

// NumSheets is the number of output canvases.
const NumSheets = 2

func (s Sheet) String() string {
	switch s {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("Sheet(%d)", int(s))
	}
}

// Slot represents one of the four quadrants of a source image,
// counted clockwise starting in the top left:
//
//	 ---- ----
//	| TL | TR |
//	 ---- ----
//	| BL | BR |
//	 ---- ----
type Slot int

const (
	TopLeft Slot = iota
	TopRight
	BottomRight
	BottomLeft
)

// NumSlots is the number of quadrants per source image.
const NumSlots = 4

func (s Slot) String() string {
	switch s {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// Origin returns the (column, row) of the slot inside a 2x2 grid.
func (s Slot) Origin() image.Point {
	switch s {
	case TopRight:
		return image.Pt(1, 0)
	case BottomRight:
		return image.Pt(1, 1)
	case BottomLeft:
		return image.Pt(0, 1)
	default:
		return image.Pt(0, 0)
	}
}

// Angle is a rotation in degrees, clockwise.
type Angle int

const (
	Angle0   Angle = 0
	Angle90  Angle = 90
	Angle180 Angle = 180
	Angle270 Angle = 270
)

// Valid reports whether a is a quarter turn in [0, 360).
func (a Angle) Valid() bool {
	return a == Angle0 || a == Angle90 || a == Angle180 || a == Angle270
}

// Placement is where a source quadrant ends up in the net.
type Placement struct {
	// Sheet is the canvas the quadrant is pasted on
	Sheet Sheet

	// Cell is the perimeter position 0..11 on that sheet
	Cell int

	// Angle is the clockwise rotation applied before pasting
	Angle Angle
}

func (p Placement) String() string {
	return fmt.Sprintf("%s/%d@%d", p.Sheet, p.Cell, int(p.Angle))
}

// Source identifies one quadrant of one input image.
type Source struct {
	// Image is the zero-based index of the input image (file n+1)
	Image int

	// Slot is the quadrant of that image
	Slot Slot
}

func (s Source) String() string {
	return fmt.Sprintf("image %d %s", s.Image+1, s.Slot)
}
