package check

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cgast/contest/pkg/recipe"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile %s: %v", path, err)
	}
}

func TestFileTextMatch(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.txt")
	out := filepath.Join(dir, "out.txt")
	writeFile(t, ref, []byte("line one\nline two\n"))
	writeFile(t, out, []byte("line one\nline two\n"))

	f := recipe.FileExpectation{Type: recipe.TypeText, File: "ref.txt", TestFile: "out.txt", Count: -1}
	m, err := File(f, ref, out)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if m != nil {
		t.Errorf("File = %+v, want nil", m)
	}
}

func TestFileTextMismatch(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.txt")
	out := filepath.Join(dir, "out.txt")
	writeFile(t, ref, []byte("alpha\nbeta\n"))
	writeFile(t, out, []byte("alpha\nbexa\n"))

	f := recipe.FileExpectation{Type: recipe.TypeText, File: "ref.txt", TestFile: "out.txt", Count: -1}
	m, err := File(f, ref, out)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if m == nil {
		t.Fatal("File = nil, want mismatch")
	}
	if m.Line != 1 || m.Offset != 2 {
		t.Errorf("mismatch at line %d offset %d, want line 1 offset 2", m.Line, m.Offset)
	}
}

func TestFileMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.txt")
	writeFile(t, ref, []byte("content\n"))

	f := recipe.FileExpectation{Type: recipe.TypeText, File: "ref.txt", TestFile: "out.txt", Count: -1}
	m, err := File(f, ref, filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if m == nil {
		t.Fatal("File = nil, want missing-artifact mismatch")
	}
	if m.Kind != KindMissingArtifact {
		t.Errorf("Kind = %q, want %q", m.Kind, KindMissingArtifact)
	}
}

func TestFileBinary(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.bin")
	out := filepath.Join(dir, "out.bin")
	writeFile(t, ref, []byte{0xde, 0xad, 0xbe, 0xef})
	writeFile(t, out, []byte{0xde, 0xad, 0xff, 0xef})

	f := recipe.FileExpectation{Type: recipe.TypeBinary, File: "ref.bin", TestFile: "out.bin", Count: -1}
	m, err := File(f, ref, out)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if m == nil {
		t.Fatal("File = nil, want mismatch")
	}
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
}

func TestFileImage(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.png")
	out := filepath.Join(dir, "out.png")

	a := solidImage(4, 4, color.RGBA{B: 200, A: 255})
	b := solidImage(4, 4, color.RGBA{B: 200, A: 255})
	b.SetRGBA(1, 1, color.RGBA{R: 1, A: 255})

	for path, img := range map[string]*image.RGBA{ref: a, out: b} {
		fh, err := os.Create(path)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := png.Encode(fh, img); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		fh.Close()
	}

	f := recipe.FileExpectation{Type: recipe.TypeImage, File: "ref.png", TestFile: "out.png", Count: -1}
	m, err := File(f, ref, out)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if m == nil {
		t.Fatal("File = nil, want image mismatch")
	}
	if m.Kind != KindImage {
		t.Errorf("Kind = %q, want %q", m.Kind, KindImage)
	}
}

func TestFileUnreadableReference(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	writeFile(t, out, []byte("content\n"))

	f := recipe.FileExpectation{Type: recipe.TypeText, File: "ref.txt", TestFile: "out.txt", Count: -1}
	if _, err := File(f, filepath.Join(dir, "ref.txt"), out); err == nil {
		t.Error("expected error for unreadable reference file")
	}
}
