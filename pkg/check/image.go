package check

import (
	"fmt"
	"image"
	"os"

	// Register the decoders for the formats a target program is likely to
	// leave behind.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Images compares two decoded images pixel by pixel. Any nonzero difference
// region, characterized by a non-empty bounding box, is a failure. Dimension
// mismatches are implicitly a difference.
func Images(label string, ref, got image.Image) *Mismatch {
	rb, gb := ref.Bounds(), got.Bounds()
	if rb.Dx() != gb.Dx() || rb.Dy() != gb.Dy() {
		return &Mismatch{
			Kind:   KindImage,
			Stream: label,
			Message: fmt.Sprintf("Image dimensions differ: expected %dx%d, received %dx%d",
				rb.Dx(), rb.Dy(), gb.Dx(), gb.Dy()),
		}
	}

	bbox := diffBounds(ref, got)
	if bbox.Empty() {
		return nil
	}
	return &Mismatch{
		Kind:   KindImage,
		Stream: label,
		Message: fmt.Sprintf("Images differ within bounding box (%d,%d)-(%d,%d)",
			bbox.Min.X, bbox.Min.Y, bbox.Max.X, bbox.Max.Y),
	}
}

// diffBounds returns the bounding box of all differing pixels. The two
// images must have equal dimensions; their origins may differ.
func diffBounds(ref, got image.Image) image.Rectangle {
	rb, gb := ref.Bounds(), got.Bounds()
	var bbox image.Rectangle
	for dy := 0; dy < rb.Dy(); dy++ {
		for dx := 0; dx < rb.Dx(); dx++ {
			r1, g1, b1, a1 := ref.At(rb.Min.X+dx, rb.Min.Y+dy).RGBA()
			r2, g2, b2, a2 := got.At(gb.Min.X+dx, gb.Min.Y+dy).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				px := image.Rect(dx, dy, dx+1, dy+1)
				if bbox.Empty() {
					bbox = px
				} else {
					bbox = bbox.Union(px)
				}
			}
		}
	}
	return bbox
}

// DecodeImage reads and decodes a raster image from disk.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
