// Package quadrant splits square images into their four quadrants and
// rotates quadrants by quarter turns.
package quadrant

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/flexagen/flexagen/internal/models"
)

// ErrInvalidImage is returned for images that cannot be quartered exactly:
// nil, empty, non-square or with an odd edge length.
var ErrInvalidImage = errors.New("invalid image")

// Edge returns the edge length of a square image with an even side.
func Edge(img image.Image) (int, error) {
	if img == nil {
		return 0, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch {
	case w <= 0 || h <= 0:
		return 0, fmt.Errorf("%w: empty image", ErrInvalidImage)
	case w != h:
		return 0, fmt.Errorf("%w: %dx%d is not square", ErrInvalidImage, w, h)
	case w%2 != 0:
		return 0, fmt.Errorf("%w: edge length %d is odd", ErrInvalidImage, w)
	}

	return w, nil
}

// Bounds returns the rectangle of a slot inside an image of edge length
// edge whose top-left corner is origin.
func Bounds(slot models.Slot, origin image.Point, edge int) image.Rectangle {
	half := edge / 2
	tl := origin.Add(slot.Origin().Mul(half))
	return image.Rectangle{Min: tl, Max: tl.Add(image.Pt(half, half))}
}

// Split divides img into four quadrants ordered clockwise from the top
// left, following the slot order of models.Slot. Each quadrant is a new
// image anchored at (0,0); img is not modified.
func Split(img image.Image) ([models.NumSlots]*image.RGBA, error) {
	var quadrants [models.NumSlots]*image.RGBA

	edge, err := Edge(img)
	if err != nil {
		return quadrants, err
	}

	half := edge / 2
	origin := img.Bounds().Min
	for s := range quadrants {
		r := Bounds(models.Slot(s), origin, edge)
		q := image.NewRGBA(image.Rect(0, 0, half, half))
		draw.Draw(q, q.Bounds(), img, r.Min, draw.Src)
		quadrants[s] = q
	}

	return quadrants, nil
}

// Join is the inverse of Split: it lays four equally sized quadrants out
// in a 2x2 grid.
func Join(quadrants [models.NumSlots]image.Image) (*image.RGBA, error) {
	if quadrants[0] == nil {
		return nil, fmt.Errorf("%w: missing %s quadrant", ErrInvalidImage, models.TopLeft)
	}
	size := quadrants[0].Bounds().Size()

	dst := image.NewRGBA(image.Rect(0, 0, 2*size.X, 2*size.Y))
	for s, q := range quadrants {
		if q == nil {
			return nil, fmt.Errorf("%w: missing %s quadrant", ErrInvalidImage, models.Slot(s))
		}
		if q.Bounds().Size() != size {
			return nil, fmt.Errorf("%w: %s quadrant is %v, want %v",
				ErrInvalidImage, models.Slot(s), q.Bounds().Size(), size)
		}
		at := models.Slot(s).Origin()
		dp := image.Pt(at.X*size.X, at.Y*size.Y)
		draw.Copy(dst, dp, q, q.Bounds(), draw.Src, nil)
	}

	return dst, nil
}
