package assembly

import (
	"errors"
	"fmt"

	"github.com/flexagen/flexagen/pkg/quadrant"
)

var (
	// ErrMissingImage means one of the six source images is absent or unreadable
	ErrMissingImage = errors.New("missing image")

	// ErrImageCount means Assemble was not given exactly six images. Too few
	// images also match ErrMissingImage.
	ErrImageCount = errors.New("wrong number of images")

	// ErrSizeMismatch means the source images do not share one edge length
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrInvalidImage means a source image is empty, not square or has an odd edge
	ErrInvalidImage = quadrant.ErrInvalidImage

	// ErrInvalidOutputPath means the output files could not be written
	ErrInvalidOutputPath = errors.New("invalid output path")
)

// ImageError describes a failure tied to one source image.
type ImageError struct {
	// Index is the one-based image number, as used in file names
	Index int

	// Path is the file the image came from, if known
	Path string

	// Err is the underlying error; it wraps one of the sentinel errors
	Err error
}

func (e *ImageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("image %d (%s): %v", e.Index, e.Path, e.Err)
	}
	return fmt.Sprintf("image %d: %v", e.Index, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }
