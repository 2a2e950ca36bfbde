// Package assembly builds the two printable sheets of a hexa-tetraflexagon
// net from six square source images.
//
// Each source image is cut into four quadrants. The topology table decides,
// for every quadrant, the sheet and perimeter cell it is printed on and the
// quarter turn it needs so that the image reappears intact once the net is
// folded. Assemble applies that table; Assembler wraps it into the full
// load, assemble, measure and write pipeline.
package assembly

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/image/draw"

	"github.com/flexagen/flexagen/internal/models"
	"github.com/flexagen/flexagen/pkg/quadrant"
	"github.com/flexagen/flexagen/pkg/topology"
)

// DefaultBackground is the underlay of both sheets. Only the centre hole
// keeps it once assembly is done.
var DefaultBackground color.Color = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Piece is one rotated quadrant as it was pasted.
type Piece struct {
	Source    models.Source
	Placement models.Placement
	Image     *image.RGBA
}

// Net holds the two assembled sheets.
type Net struct {
	// Front and Back are 2L x 2L canvases
	Front *image.RGBA
	Back  *image.RGBA

	// Edge is the common edge length L of the source images
	Edge int

	// Background is the colour the canvases were initialised with
	Background color.Color

	// Pieces holds the pasted quadrants when requested with WithPieces,
	// indexed by image*4 + slot
	Pieces []Piece

	painted [models.NumSheets][topology.NumCells]bool
}

// Sheet returns the canvas for s.
func (n *Net) Sheet(s models.Sheet) *image.RGBA {
	if s == models.Back {
		return n.Back
	}
	return n.Front
}

// Painted reports whether a cell of a sheet received a quadrant.
func (n *Net) Painted(s models.Sheet, cell int) bool {
	if s < 0 || int(s) >= models.NumSheets || cell < 0 || cell >= topology.NumCells {
		return false
	}
	return n.painted[s][cell]
}

// CellBounds returns the pixel rectangle of a cell on either sheet.
func (n *Net) CellBounds(cell int) (image.Rectangle, error) {
	half := n.Edge / 2
	off, err := topology.Offset(cell, half)
	if err != nil {
		return image.Rectangle{}, err
	}
	return image.Rectangle{Min: off, Max: off.Add(image.Pt(half, half))}, nil
}

type options struct {
	background color.Color
	workers    int
	names      []string
	pieces     bool
}

// Option configures Assemble.
type Option func(*options)

// WithBackground sets the colour the canvases are filled with before pasting.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		if c != nil {
			o.background = c
		}
	}
}

// WithWorkers splits and rotates source images on up to n goroutines.
// Values below 1 select runtime.NumCPU. The result does not depend on n.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.workers = n
	}
}

// WithNames sets the file names used in error messages.
func WithNames(names []string) Option {
	return func(o *options) { o.names = names }
}

// WithPieces keeps every rotated quadrant in Net.Pieces.
func WithPieces(keep bool) Option {
	return func(o *options) { o.pieces = keep }
}

// Assemble lays the quadrants of six equally sized square images out on the
// front and back sheets. Either a complete Net or an error is returned.
// Any other number of images is rejected with ErrImageCount.
func Assemble(images []image.Image, opts ...Option) (*Net, error) {
	o := options{background: DefaultBackground, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	edge, err := checkSources(images, o.names)
	if err != nil {
		return nil, err
	}

	placements := topology.Placements()
	if err := topology.Validate(placements[:]); err != nil {
		return nil, fmt.Errorf("topology table: %w", err)
	}

	size := topology.CanvasSize(edge)
	net := &Net{
		Front:      image.NewRGBA(image.Rect(0, 0, size, size)),
		Back:       image.NewRGBA(image.Rect(0, 0, size, size)),
		Edge:       edge,
		Background: o.background,
	}
	bg := image.NewUniform(o.background)
	draw.Draw(net.Front, net.Front.Bounds(), bg, image.Point{}, draw.Src)
	draw.Draw(net.Back, net.Back.Bounds(), bg, image.Point{}, draw.Src)
	if o.pieces {
		net.Pieces = make([]Piece, topology.NumPlacements)
	}

	Logger().Debug("assembling net", "edge", edge, "canvas", size, "workers", o.workers)

	for res := range cutAll(images, o.workers) {
		if res.err != nil {
			return nil, res.err
		}
		Logger().Debug("cut source image", "index", res.index+1, "pieces", len(res.pieces))
		for _, p := range res.pieces {
			if err := net.paste(p); err != nil {
				return nil, err
			}
			if o.pieces {
				net.Pieces[p.Source.Image*models.NumSlots+int(p.Source.Slot)] = p
			}
		}
	}

	for s := 0; s < models.NumSheets; s++ {
		for c := 0; c < topology.NumCells; c++ {
			if !net.painted[s][c] {
				return nil, fmt.Errorf("%s cell %d was never painted", models.Sheet(s), c)
			}
		}
	}

	return net, nil
}

// checkSources validates count, shape and common edge length of the inputs
// before any pixel is touched.
func checkSources(images []image.Image, names []string) (int, error) {
	name := func(i int) string {
		if i < len(names) {
			return names[i]
		}
		return ""
	}

	if len(images) < topology.NumImages {
		return 0, fmt.Errorf("%w: %w: got %d images, need %d",
			ErrMissingImage, ErrImageCount, len(images), topology.NumImages)
	}
	if len(images) > topology.NumImages {
		return 0, fmt.Errorf("%w: got %d images, need %d", ErrImageCount, len(images), topology.NumImages)
	}

	edge := 0
	for i, img := range images {
		if img == nil {
			return 0, &ImageError{Index: i + 1, Path: name(i), Err: fmt.Errorf("%w: not loaded", ErrMissingImage)}
		}
		e, err := quadrant.Edge(img)
		if err != nil {
			return 0, &ImageError{Index: i + 1, Path: name(i), Err: err}
		}
		if i == 0 {
			edge = e
			continue
		}
		if e != edge {
			return 0, &ImageError{
				Index: i + 1,
				Path:  name(i),
				Err:   fmt.Errorf("%w: edge length %d, image 1 has %d", ErrSizeMismatch, e, edge),
			}
		}
	}

	return edge, nil
}

// cutResult carries the rotated quadrants of one source image
type cutResult struct {
	index  int
	pieces []Piece
	err    error
}

// cutAll splits and rotates every image. With one worker it runs inline;
// otherwise images are processed on goroutines and results arrive in any
// order. Pasting stays on the caller's goroutine.
func cutAll(images []image.Image, workers int) <-chan cutResult {
	results := make(chan cutResult, len(images))

	if workers <= 1 {
		for i, img := range images {
			results <- cut(i, img)
		}
		close(results)
		return results
	}

	jobs := make(chan int)
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func() {
			for i := range jobs {
				results <- cut(i, images[i])
			}
			done <- struct{}{}
		}()
	}
	go func() {
		for i := range images {
			jobs <- i
		}
		close(jobs)
		for w := 0; w < workers; w++ {
			<-done
		}
		close(results)
	}()

	return results
}

// cut splits image n and rotates each quadrant as its placement requires
func cut(n int, img image.Image) cutResult {
	quadrants, err := quadrant.Split(img)
	if err != nil {
		return cutResult{index: n, err: &ImageError{Index: n + 1, Err: err}}
	}

	pieces := make([]Piece, 0, models.NumSlots)
	for k, q := range quadrants {
		slot := models.Slot(k)
		placement, err := topology.Lookup(n, slot)
		if err != nil {
			return cutResult{index: n, err: err}
		}
		rotated, err := quadrant.Rotate(q, placement.Angle)
		if err != nil {
			return cutResult{index: n, err: fmt.Errorf("%s: %w", placement, err)}
		}
		pieces = append(pieces, Piece{
			Source:    models.Source{Image: n, Slot: slot},
			Placement: placement,
			Image:     rotated,
		})
	}

	return cutResult{index: n, pieces: pieces}
}

// paste copies a rotated quadrant into its cell, refusing to overwrite a
// cell that was already painted.
func (n *Net) paste(p Piece) error {
	pl := p.Placement
	if n.painted[pl.Sheet][pl.Cell] {
		return fmt.Errorf("%s: %s cell %d painted twice", p.Source, pl.Sheet, pl.Cell)
	}

	r, err := n.CellBounds(pl.Cell)
	if err != nil {
		return err
	}
	if p.Image.Bounds().Size() != r.Size() {
		return fmt.Errorf("%s: quadrant is %v, cell is %v", p.Source, p.Image.Bounds().Size(), r.Size())
	}

	draw.Copy(n.Sheet(pl.Sheet), r.Min, p.Image, p.Image.Bounds(), draw.Src, nil)
	n.painted[pl.Sheet][pl.Cell] = true

	Logger().Debug("pasted quadrant", "source", p.Source.String(), "placement", pl.String(),
		"x", r.Min.X, "y", r.Min.Y)

	return nil
}
