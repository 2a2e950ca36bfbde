package assembly

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders available for source images
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/flexagen/flexagen/pkg/topology"
)

// DefaultExtensions is the lookup order for source files 1.<ext> .. 6.<ext>.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp"}

// FindSource returns the path of image n (one-based) in dir, trying each
// extension in order.
func FindSource(dir string, n int, exts []string) (string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.ToLower(ext), ".")
		path := filepath.Join(dir, fmt.Sprintf("%d.%s", n, ext))
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", &ImageError{
		Index: n,
		Path:  filepath.Join(dir, fmt.Sprintf("%d.{%s}", n, strings.Join(exts, ","))),
		Err:   fmt.Errorf("%w: no such file", ErrMissingImage),
	}
}

// LoadSources loads the six source images from dir. It returns the images
// in order together with the paths they were read from.
func LoadSources(dir string, exts []string) ([]image.Image, []string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: input directory: %v", ErrMissingImage, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrMissingImage, dir)
	}

	images := make([]image.Image, 0, topology.NumImages)
	paths := make([]string, 0, topology.NumImages)
	for n := 1; n <= topology.NumImages; n++ {
		path, err := FindSource(dir, n, exts)
		if err != nil {
			return nil, nil, err
		}

		img, format, err := loadImage(path)
		if err != nil {
			return nil, nil, &ImageError{Index: n, Path: path, Err: fmt.Errorf("%w: %v", ErrMissingImage, err)}
		}

		b := img.Bounds()
		Logger().Debug("loaded source image", "index", n, "path", path, "format", format,
			"width", b.Dx(), "height", b.Dy())

		images = append(images, img)
		paths = append(paths, path)
	}

	return images, paths, nil
}

// loadImage decodes an image file in any registered format
func loadImage(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	return image.Decode(file)
}
