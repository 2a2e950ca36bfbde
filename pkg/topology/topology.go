// Package topology holds the folding layout of the hexa-tetraflexagon net.
//
// The net is printed as two square sheets (front and back). Each sheet is a
// 4x4 grid of cells half the size of an input image, of which only the twelve
// perimeter cells carry picture data; the centre 2x2 block is the hole of the
// folded ring. Cell indices walk that perimeter clockwise from the top-left
// corner:
//
//	 0  1  2  3
//	11        4
//	10        5
//	 9  8  7  6
package topology

import (
	"fmt"
	"image"

	"github.com/flexagen/flexagen/internal/models"
)

const (
	// NumImages is the number of faces of the flexagon
	NumImages = 6

	// NumCells is the number of painted cells per sheet
	NumCells = 12

	// GridSize is the side of the logical grid, in cells
	GridSize = 4
)

// NumPlacements is the number of source quadrants, one per destination slot.
const NumPlacements = NumImages * models.NumSlots

// cellPositions maps a cell index to its (column, row) in the logical grid.
var cellPositions = [NumCells]image.Point{
	{0, 0},
	{1, 0},
	{2, 0},
	{3, 0},
	{3, 1},
	{3, 2},
	{3, 3},
	{2, 3},
	{1, 3},
	{0, 3},
	{0, 2},
	{0, 1},
}

// table is indexed by image*4 + slot. Angles are clockwise.
var table = [NumPlacements]models.Placement{
	// image 1
	{Sheet: models.Back, Cell: 5, Angle: models.Angle270},
	{Sheet: models.Back, Cell: 2, Angle: models.Angle90},
	{Sheet: models.Back, Cell: 11, Angle: models.Angle270},
	{Sheet: models.Back, Cell: 8, Angle: models.Angle90},
	// image 2
	{Sheet: models.Back, Cell: 4, Angle: models.Angle270},
	{Sheet: models.Back, Cell: 3, Angle: models.Angle270},
	{Sheet: models.Back, Cell: 10, Angle: models.Angle270},
	{Sheet: models.Back, Cell: 9, Angle: models.Angle270},
	// image 3
	{Sheet: models.Front, Cell: 0, Angle: models.Angle0},
	{Sheet: models.Front, Cell: 1, Angle: models.Angle0},
	{Sheet: models.Front, Cell: 6, Angle: models.Angle0},
	{Sheet: models.Front, Cell: 7, Angle: models.Angle0},
	// image 4
	{Sheet: models.Front, Cell: 8, Angle: models.Angle90},
	{Sheet: models.Front, Cell: 11, Angle: models.Angle270},
	{Sheet: models.Front, Cell: 2, Angle: models.Angle90},
	{Sheet: models.Front, Cell: 5, Angle: models.Angle270},
	// image 5
	{Sheet: models.Back, Cell: 1, Angle: models.Angle180},
	{Sheet: models.Back, Cell: 0, Angle: models.Angle180},
	{Sheet: models.Back, Cell: 7, Angle: models.Angle180},
	{Sheet: models.Back, Cell: 6, Angle: models.Angle180},
	// image 6
	{Sheet: models.Front, Cell: 3, Angle: models.Angle90},
	{Sheet: models.Front, Cell: 4, Angle: models.Angle90},
	{Sheet: models.Front, Cell: 9, Angle: models.Angle90},
	{Sheet: models.Front, Cell: 10, Angle: models.Angle90},
}

// Lookup returns the placement of quadrant slot of image n (zero-based).
func Lookup(n int, slot models.Slot) (models.Placement, error) {
	if n < 0 || n >= NumImages {
		return models.Placement{}, fmt.Errorf("image index %d out of range [0,%d)", n, NumImages)
	}
	if slot < 0 || int(slot) >= models.NumSlots {
		return models.Placement{}, fmt.Errorf("slot %d out of range [0,%d)", int(slot), models.NumSlots)
	}
	return table[n*models.NumSlots+int(slot)], nil
}

// Placements returns a copy of the full table, indexed by image*4 + slot.
func Placements() [NumPlacements]models.Placement {
	return table
}

// Position returns the (column, row) of a cell in the logical grid.
func Position(cell int) (image.Point, error) {
	if cell < 0 || cell >= NumCells {
		return image.Point{}, fmt.Errorf("cell %d out of range [0,%d)", cell, NumCells)
	}
	return cellPositions[cell], nil
}

// Offset returns the pixel offset of a cell for quadrants of side half.
func Offset(cell, half int) (image.Point, error) {
	p, err := Position(cell)
	if err != nil {
		return image.Point{}, err
	}
	return p.Mul(half), nil
}

// SourceAt returns which source quadrant is pasted into cell of sheet.
func SourceAt(sheet models.Sheet, cell int) (models.Source, bool) {
	for i, p := range table {
		if p.Sheet == sheet && p.Cell == cell {
			return models.Source{Image: i / models.NumSlots, Slot: models.Slot(i % models.NumSlots)}, true
		}
	}
	return models.Source{}, false
}

// Validate checks that a placement table maps every source quadrant to a
// distinct, in-range destination and that every destination is used.
func Validate(placements []models.Placement) error {
	if len(placements) != NumPlacements {
		return fmt.Errorf("table has %d entries, want %d", len(placements), NumPlacements)
	}

	var seen [models.NumSheets][NumCells]int
	for i := range seen {
		for j := range seen[i] {
			seen[i][j] = -1
		}
	}

	for i, p := range placements {
		src := models.Source{Image: i / models.NumSlots, Slot: models.Slot(i % models.NumSlots)}
		if p.Sheet != models.Front && p.Sheet != models.Back {
			return fmt.Errorf("%s: invalid sheet %d", src, int(p.Sheet))
		}
		if p.Cell < 0 || p.Cell >= NumCells {
			return fmt.Errorf("%s: cell %d out of range", src, p.Cell)
		}
		if !p.Angle.Valid() {
			return fmt.Errorf("%s: angle %d is not a quarter turn", src, int(p.Angle))
		}
		if prev := seen[p.Sheet][p.Cell]; prev >= 0 {
			other := models.Source{Image: prev / models.NumSlots, Slot: models.Slot(prev % models.NumSlots)}
			return fmt.Errorf("%s and %s both map to %s cell %d", other, src, p.Sheet, p.Cell)
		}
		seen[p.Sheet][p.Cell] = i
	}

	for s := range seen {
		for c, idx := range seen[s] {
			if idx < 0 {
				return fmt.Errorf("%s cell %d is never filled", models.Sheet(s), c)
			}
		}
	}

	return nil
}

// CanvasSize returns the side of a sheet for input images of the given edge.
func CanvasSize(edge int) int {
	return GridSize * (edge / 2)
}
