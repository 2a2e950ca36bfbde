package assembly

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// memoryWriter records the nets it is given
type memoryWriter struct {
	nets []*Net
	err  error
}

func (w *memoryWriter) Write(net *Net) ([]string, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.nets = append(w.nets, net)
	return []string{"front.png", "back.png"}, nil
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, createSolidImages(40))

	writer := &memoryWriter{}
	a := NewAssembler(&Params{InputDir: dir, Writer: writer, Workers: 2})
	res, err := a.Process()
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(writer.nets) != 1 || writer.nets[0] != res.Net {
		t.Fatal("Expected the assembled net to be written once")
	}
	if diff := cmp.Diff([]string{"front.png", "back.png"}, res.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if len(res.Sources) != 6 || filepath.Base(res.Sources[0]) != "1.png" {
		t.Errorf("Unexpected sources %v", res.Sources)
	}
	if !res.Metrics.Complete() || !res.Metrics.Opaque {
		t.Errorf("Expected complete opaque net, got %+v", res.Metrics)
	}
	if res.Net.Front.Bounds() != image.Rect(0, 0, 80, 80) {
		t.Errorf("Unexpected front bounds %v", res.Net.Front.Bounds())
	}
}

func TestProcessFiveImagesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, createSolidImages(40)[:5])

	writer := &memoryWriter{}
	_, err := NewAssembler(&Params{InputDir: dir, Writer: writer}).Process()
	if !errors.Is(err, ErrMissingImage) {
		t.Fatalf("Expected ErrMissingImage, got %v", err)
	}
	if len(writer.nets) != 0 {
		t.Error("Writer was called despite the failure")
	}
}

func TestProcessSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	images := createSolidImages(40)
	images[4] = createSolidImages(20)[4]
	writeSources(t, dir, images)

	writer := &memoryWriter{}
	_, err := NewAssembler(&Params{InputDir: dir, Writer: writer}).Process()
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("Expected ErrSizeMismatch, got %v", err)
	}
	var ie *ImageError
	if !errors.As(err, &ie) || filepath.Base(ie.Path) != "5.png" {
		t.Errorf("Expected error naming 5.png, got %v", err)
	}
	if len(writer.nets) != 0 {
		t.Error("Writer was called despite the failure")
	}
}

func TestProcessWriterError(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, createSolidImages(10))

	writer := &memoryWriter{err: ErrInvalidOutputPath}
	_, err := NewAssembler(&Params{InputDir: dir, Writer: writer}).Process()
	if !errors.Is(err, ErrInvalidOutputPath) {
		t.Errorf("Expected ErrInvalidOutputPath, got %v", err)
	}
}
