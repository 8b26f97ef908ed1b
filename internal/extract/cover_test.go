package extract

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
}

func TestWriteCover(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cover.png")
	dst := filepath.Join(dir, "out.jpg")
	writeTestPNG(t, src, 100, 150)

	if err := writeCover(src, dst); err != nil {
		t.Fatalf("writeCover failed: %v", err)
	}

	out, err := imaging.Open(dst)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if got := out.Bounds().Dx(); got != 100 {
		t.Errorf("width = %d, want 100 (no resize below limit)", got)
	}
}

func TestWriteCover_DownscalesWideImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cover.png")
	dst := filepath.Join(dir, "out.png")
	writeTestPNG(t, src, coverMaxWidth*2, 100)

	if err := writeCover(src, dst); err != nil {
		t.Fatalf("writeCover failed: %v", err)
	}

	out, err := imaging.Open(dst)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if got := out.Bounds().Dx(); got != coverMaxWidth {
		t.Errorf("width = %d, want %d", got, coverMaxWidth)
	}
}

func TestWriteCover_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := writeCover(filepath.Join(dir, "nope.png"), filepath.Join(dir, "out.jpg"))
	if err == nil {
		t.Fatal("expected error for missing source, got nil")
	}
}
