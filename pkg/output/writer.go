// Package output persists assembled nets: the front and back sheets as PNG,
// optionally a printable PDF and the individual rotated quadrants.
package output

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/flexagen/flexagen/pkg/assembly"
)

// Writer writes the files of a net into Dir. The sheets and the PDF are
// committed together: after Write returns either all of them were written
// or the directory holds what it held before.
type Writer struct {
	// Dir is the output directory, created if missing
	Dir string

	// FrontName and BackName are the PNG file names of the sheets
	FrontName string
	BackName  string

	// PDFName enables the printable PDF when not empty
	PDFName string

	// SheetMM is the printed side of a sheet in the PDF
	SheetMM float64

	// QuadrantDir, when not empty, receives every rotated quadrant. It is
	// relative to Dir unless absolute. Requires a net assembled with pieces.
	QuadrantDir string
}

// NewWriter returns a writer for the default file names in dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:       dir,
		FrontName: "front.png",
		BackName:  "back.png",
		SheetMM:   DefaultSheetMM,
	}
}

// file is one encoded output waiting to be committed
type file struct {
	name string
	data []byte
}

// Write encodes and stores net. It returns the paths of the committed files.
func (w *Writer) Write(net *assembly.Net) ([]string, error) {
	if net == nil || net.Front == nil || net.Back == nil {
		return nil, fmt.Errorf("nothing to write")
	}

	front, err := encodePNG(net.Front)
	if err != nil {
		return nil, fmt.Errorf("failed to encode front sheet: %w", err)
	}
	back, err := encodePNG(net.Back)
	if err != nil {
		return nil, fmt.Errorf("failed to encode back sheet: %w", err)
	}

	files := []file{
		{name: w.FrontName, data: front},
		{name: w.BackName, data: back},
	}

	if w.PDFName != "" {
		doc, err := RenderPDF(front, back, w.SheetMM)
		if err != nil {
			return nil, fmt.Errorf("failed to render PDF: %w", err)
		}
		files = append(files, file{name: w.PDFName, data: doc})
	}

	paths, err := w.commit(files)
	if err != nil {
		return nil, err
	}

	if w.QuadrantDir != "" {
		if err := w.saveQuadrants(net); err != nil {
			assembly.Logger().Warn("failed to save quadrants", "dir", w.quadrantPath(), "err", err)
		}
	}

	return paths, nil
}

// commit writes every file to a temporary name first and renames them into
// place only once all writes succeeded. Files being replaced are kept aside
// until every rename went through and restored if one fails.
func (w *Writer) commit(files []file) ([]string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", assembly.ErrInvalidOutputPath, err)
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range temps {
			os.Remove(t)
		}
	}

	for _, f := range files {
		tmp, err := writeTemp(dir, f.data)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: %s: %v", assembly.ErrInvalidOutputPath, f.name, err)
		}
		temps = append(temps, tmp)
	}

	// placed records a destination already renamed into place and the
	// backup of the file it replaced, if any
	type placed struct {
		dst    string
		backup string
	}
	done := make([]placed, 0, len(files))
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			os.Remove(done[i].dst)
			if done[i].backup != "" {
				os.Rename(done[i].backup, done[i].dst)
			}
		}
	}

	for i, f := range files {
		dst := filepath.Join(dir, f.name)
		backup, err := backupExisting(dir, dst)
		if err != nil {
			rollback()
			temps = temps[i:]
			cleanup()
			return nil, fmt.Errorf("%w: %s: %v", assembly.ErrInvalidOutputPath, dst, err)
		}
		if err := os.Rename(temps[i], dst); err != nil {
			if backup != "" {
				os.Rename(backup, dst)
			}
			rollback()
			temps = temps[i:]
			cleanup()
			return nil, fmt.Errorf("%w: %s: %v", assembly.ErrInvalidOutputPath, dst, err)
		}
		done = append(done, placed{dst: dst, backup: backup})
	}

	paths := make([]string, 0, len(done))
	for _, p := range done {
		if p.backup != "" {
			os.Remove(p.backup)
		}
		paths = append(paths, p.dst)
	}

	return paths, nil
}

// backupExisting moves a regular file at dst aside so a failed commit can
// put it back. It returns the backup path, or "" when there was nothing to
// keep.
func backupExisting(dir, dst string) (string, error) {
	info, err := os.Lstat(dst)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}

	f, err := os.CreateTemp(dir, ".flexagen-bak-*")
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()

	if err := os.Rename(dst, name); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func writeTemp(dir string, data []byte) (name string, err error) {
	f, err := os.CreateTemp(dir, ".flexagen-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", err
	}
	if err := f.Chmod(0644); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
