package check

import (
	"fmt"
	"strings"
)

// Kind classifies a comparison failure.
type Kind string

const (
	KindStream          Kind = "stream"
	KindEmptiness       Kind = "emptiness"
	KindBinary          Kind = "binary"
	KindImage           Kind = "image"
	KindMissingArtifact Kind = "missing-artifact"
)

// Mismatch describes the first divergence found by a comparison. A nil
// *Mismatch means the comparison passed. Comparisons stop at the first
// mismatch; they never enumerate every difference in a stream.
type Mismatch struct {
	Kind     Kind
	Stream   string // stream label or file name being compared
	Line     int    // 0-based line index in the actual output (text only)
	Offset   int    // byte offset of the first differing character
	Expected string
	Received string
	Message  string // used by emptiness/image/artifact failures
}

// Diagnostic renders the failure block printed to the report. Text
// mismatches quote both lines and mark the divergence offset with a caret.
func (m *Mismatch) Diagnostic() string {
	switch m.Kind {
	case KindStream, KindBinary:
		if m.Message != "" {
			return "FAILURE:\n         " + m.Message
		}
		received := trimNewline(m.Received)
		return fmt.Sprintf("FAILURE:\n        Expected %q\n        Received %q\n                  %s^ ERROR",
			trimNewline(m.Expected), received, strings.Repeat(" ", renderedOffset(received, m.Offset)))
	default:
		return "FAILURE:\n         " + m.Message
	}
}

// strideWidth is the window size used when localizing a divergence.
const strideWidth = 5

// Divergence returns the byte offset of the first difference between two
// unequal strings. The scan advances in strideWidth-byte windows; the first
// window pair that differs is then compared byte by byte. When no byte
// within the window pair differs (one side ran out), the offset is the
// length of the shorter window, which lands exactly past the common prefix.
func Divergence(e, r string) int {
	if e == r {
		return len(e)
	}
	for i := 0; ; i += strideWidth {
		s1 := window(e, i)
		s2 := window(r, i)
		if s1 == s2 {
			continue
		}
		n := len(s1)
		if len(s2) < n {
			n = len(s2)
		}
		for k := 0; k < n; k++ {
			if s1[k] != s2[k] {
				return i + k
			}
		}
		return i + n
	}
}

func window(s string, i int) string {
	if i >= len(s) {
		return ""
	}
	end := i + strideWidth
	if end > len(s) {
		end = len(s)
	}
	return s[i:end]
}

// renderedOffset maps a byte offset in s to the column it occupies inside
// the %q rendering of s, where escaped characters span several columns.
func renderedOffset(s string, offset int) int {
	if offset > len(s) {
		offset = len(s)
	}
	return len(fmt.Sprintf("%q", s[:offset])) - len(`""`)
}

func trimNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}
