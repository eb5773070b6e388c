package check

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestImagesIdentical(t *testing.T) {
	a := solidImage(8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	b := solidImage(8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	if m := Images("ref.png", a, b); m != nil {
		t.Errorf("Images = %+v, want nil", m)
	}
}

func TestImagesPixelBlockDiff(t *testing.T) {
	a := solidImage(16, 16, color.RGBA{A: 255})
	b := solidImage(16, 16, color.RGBA{A: 255})
	// Perturb a 3x3 block.
	for y := 5; y < 8; y++ {
		for x := 2; x < 5; x++ {
			b.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	m := Images("ref.png", a, b)
	if m == nil {
		t.Fatal("Images = nil, want mismatch")
	}
	if !strings.Contains(m.Message, "(2,5)-(5,8)") {
		t.Errorf("Message = %q, want bounding box (2,5)-(5,8)", m.Message)
	}
}

func TestImagesDimensionMismatch(t *testing.T) {
	a := solidImage(8, 8, color.RGBA{A: 255})
	b := solidImage(8, 9, color.RGBA{A: 255})
	m := Images("ref.png", a, b)
	if m == nil {
		t.Fatal("Images = nil, want mismatch")
	}
	if !strings.Contains(m.Message, "dimensions") {
		t.Errorf("Message = %q", m.Message)
	}
}

func TestDecodeImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := png.Encode(f, solidImage(4, 4, color.RGBA{G: 128, A: 255})); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	f.Close()

	img, err := DecodeImage(path)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("Bounds = %v, want 4x4", img.Bounds())
	}

	if _, err := DecodeImage(filepath.Join(dir, "absent.png")); err == nil {
		t.Error("expected error for missing image")
	}
}
