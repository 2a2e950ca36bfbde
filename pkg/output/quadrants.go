package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flexagen/flexagen/pkg/assembly"
)

func (w *Writer) quadrantPath() string {
	if filepath.IsAbs(w.QuadrantDir) {
		return w.QuadrantDir
	}
	return filepath.Join(w.Dir, w.QuadrantDir)
}

// saveQuadrants writes each rotated quadrant of net as a PNG named after
// its source and destination, e.g. img3_top-left_front_c00.png.
func (w *Writer) saveQuadrants(net *assembly.Net) error {
	if len(net.Pieces) == 0 {
		return fmt.Errorf("net was assembled without pieces")
	}

	dir := w.quadrantPath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, p := range net.Pieces {
		if p.Image == nil {
			continue
		}
		name := fmt.Sprintf("img%d_%s_%s_c%02d.png",
			p.Source.Image+1, p.Source.Slot, p.Placement.Sheet, p.Placement.Cell)
		data, err := encodePNG(p.Image)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return err
		}
	}

	return nil
}
