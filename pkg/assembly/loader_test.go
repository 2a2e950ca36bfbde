package assembly

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeSources writes images as n.png into dir
func writeSources(t *testing.T, dir string, images []image.Image) {
	t.Helper()
	for i, img := range images {
		path := filepath.Join(dir, filepathName(i+1, "png"))
		if err := os.WriteFile(path, encodePNG(t, img), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
}

func filepathName(n int, ext string) string {
	return fmt.Sprintf("%d.%s", n, ext)
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, createSolidImages(20))

	images, paths, err := LoadSources(dir, nil)
	if err != nil {
		t.Fatalf("LoadSources failed: %v", err)
	}
	if len(images) != 6 || len(paths) != 6 {
		t.Fatalf("Expected 6 images and paths, got %d and %d", len(images), len(paths))
	}
	for i, p := range paths {
		if filepath.Base(p) != filepathName(i+1, "png") {
			t.Errorf("Path %d: expected %s, got %s", i, filepathName(i+1, "png"), p)
		}
		if images[i].Bounds().Dx() != 20 {
			t.Errorf("Image %d: expected width 20, got %d", i+1, images[i].Bounds().Dx())
		}
	}
}

func TestLoadSourcesMixedFormats(t *testing.T) {
	dir := t.TempDir()
	images := createSolidImages(20)
	writeSources(t, dir, images[:5])

	f, err := os.Create(filepath.Join(dir, "6.jpg"))
	if err != nil {
		t.Fatalf("Failed to create JPEG: %v", err)
	}
	if err := jpeg.Encode(f, images[5], &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode JPEG: %v", err)
	}
	f.Close()

	_, paths, err := LoadSources(dir, nil)
	if err != nil {
		t.Fatalf("LoadSources failed: %v", err)
	}
	if filepath.Base(paths[5]) != "6.jpg" {
		t.Errorf("Expected 6.jpg, got %s", paths[5])
	}
}

func TestFindSourceExtensionOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.png", "1.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	path, err := FindSource(dir, 1, []string{".JPG", "png"})
	if err != nil {
		t.Fatalf("FindSource failed: %v", err)
	}
	if filepath.Base(path) != "1.jpg" {
		t.Errorf("Expected 1.jpg first, got %s", path)
	}

	_, err = FindSource(dir, 2, nil)
	if !errors.Is(err, ErrMissingImage) {
		t.Errorf("Expected ErrMissingImage, got %v", err)
	}
}

func TestLoadSourcesMissing(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, createSolidImages(20)[:5])

	_, _, err := LoadSources(dir, nil)
	if !errors.Is(err, ErrMissingImage) {
		t.Fatalf("Expected ErrMissingImage, got %v", err)
	}
	var ie *ImageError
	if !errors.As(err, &ie) || ie.Index != 6 {
		t.Fatalf("Expected error for image 6, got %v", err)
	}
	if !strings.Contains(err.Error(), "6.") {
		t.Errorf("Expected message to name file 6, got %q", err.Error())
	}
}

func TestLoadSourcesUnreadable(t *testing.T) {
	dir := t.TempDir()
	images := createSolidImages(20)
	writeSources(t, dir, images)
	if err := os.WriteFile(filepath.Join(dir, "3.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatalf("Failed to overwrite 3.png: %v", err)
	}

	_, _, err := LoadSources(dir, nil)
	var ie *ImageError
	if !errors.As(err, &ie) || ie.Index != 3 {
		t.Fatalf("Expected error for image 3, got %v", err)
	}
	if !errors.Is(err, ErrMissingImage) {
		t.Errorf("Expected ErrMissingImage, got %v", err)
	}
}

func TestLoadSourcesNoDirectory(t *testing.T) {
	_, _, err := LoadSources(filepath.Join(t.TempDir(), "nope"), nil)
	if !errors.Is(err, ErrMissingImage) {
		t.Errorf("Expected ErrMissingImage, got %v", err)
	}
}
