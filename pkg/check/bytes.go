package check

import (
	"bytes"
	"fmt"

	"github.com/cgast/contest/pkg/recipe"
)

// Bytes compares a reference byte sequence against produced bytes over the
// declared [Start, Start+Count) window. The reported offset is absolute
// within the file, not window-relative.
func Bytes(label string, f recipe.FileExpectation, ref, got []byte) *Mismatch {
	if f.Empty != nil {
		if *f.Empty && len(got) > 0 {
			return &Mismatch{
				Kind:    KindEmptiness,
				Stream:  label,
				Message: fmt.Sprintf("Expected %s to be empty, received %d byte(s)", label, len(got)),
			}
		}
		if !*f.Empty && len(got) == 0 {
			return &Mismatch{
				Kind:    KindEmptiness,
				Stream:  label,
				Message: fmt.Sprintf("Expected %s to be non-empty, received nothing", label),
			}
		}
		return nil
	}

	refw := byteWindow(ref, f.Start, f.Count)
	gotw := byteWindow(got, f.Start, f.Count)
	if bytes.Equal(refw, gotw) {
		return nil
	}

	off := Divergence(string(refw), string(gotw))
	return &Mismatch{
		Kind:   KindBinary,
		Stream: label,
		Offset: f.Start + off,
		Message: fmt.Sprintf("Binary contents differ at byte %d: expected %s, received %s",
			f.Start+off, byteAt(refw, off), byteAt(gotw, off)),
	}
}

func byteWindow(b []byte, start, count int) []byte {
	if start >= len(b) {
		return nil
	}
	b = b[start:]
	if count >= 0 && count < len(b) {
		b = b[:count]
	}
	return b
}

func byteAt(b []byte, i int) string {
	if i >= len(b) {
		return "end of data"
	}
	return fmt.Sprintf("0x%02x", b[i])
}
