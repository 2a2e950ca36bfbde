package quadrant

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/flexagen/flexagen/internal/models"
)

// mapFunc maps a pixel (x, y) of a w x h image to its position after
// the rotation. w and h are sizes, not maximum indices.
type mapFunc func(x, y, w, h int) (int, int)

// ccwRotations holds the counter-clockwise quarter-turn primitives, indexed
// by the number of turns.
var ccwRotations = [4]struct {
	call mapFunc
	// swaps reports whether width and height trade places
	swaps bool
}{
	{call: rotate0, swaps: false},
	{call: rotate90, swaps: true},
	{call: rotate180, swaps: false},
	{call: rotate270, swaps: true},
}

// 1 2 3    1 2 3
// 4 5 6 -> 4 5 6
func rotate0(x, y, _, _ int) (int, int) {
	return x, y
}

// 90° CCW
//
// 1 2 3    3 6
// 4 5 6 -> 2 5
//          1 4
func rotate90(x, y, w, _ int) (int, int) {
	return y, (w - 1) - x
}

// 180°
//
// 1 2 3    6 5 4
// 4 5 6 -> 3 2 1
func rotate180(x, y, w, h int) (int, int) {
	return (w - 1) - x, (h - 1) - y
}

// 270° CCW, i.e. 90° CW
//
// 1 2 3    4 1
// 4 5 6 -> 5 2
//          6 3
func rotate270(x, y, _, h int) (int, int) {
	return (h - 1) - y, x
}

// ErrInvalidAngle is returned for rotations that are not whole quarter turns.
var ErrInvalidAngle = errors.New("invalid angle")

// CounterClockwiseTurns converts a clockwise angle from the topology table
// into the number of counter-clockwise quarter turns that produce it.
// A 90° clockwise rotation is three counter-clockwise turns. Multiples of
// 360 fold back into range; anything that is not a multiple of 90 fails.
func CounterClockwiseTurns(angle models.Angle) (int, error) {
	if angle%90 != 0 {
		return 0, fmt.Errorf("%w: %d° is not a multiple of 90", ErrInvalidAngle, int(angle))
	}
	turns := (int(angle) / 90) % 4
	if turns < 0 {
		turns += 4
	}
	return (4 - turns) % 4, nil
}

// Rotate returns a copy of img rotated clockwise by angle, which must be a
// multiple of 90 degrees. The result is anchored at (0,0).
func Rotate(img image.Image, angle models.Angle) (*image.RGBA, error) {
	turns, err := CounterClockwiseTurns(angle)
	if err != nil {
		return nil, err
	}
	return rotateCCW(toRGBA(img), turns), nil
}

func rotateCCW(src *image.RGBA, turns int) *image.RGBA {
	rot := ccwRotations[turns%4]

	w, h := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := w, h
	if rot.swaps {
		dw, dh = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx, ny := rot.call(x, y, w, h)
			si := y*src.Stride + x*4
			di := ny*dst.Stride + nx*4
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}

	return dst
}

// toRGBA returns img as an *image.RGBA anchored at (0,0), copying unless
// it already is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
