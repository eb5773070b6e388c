package check

import (
	"strings"
	"testing"
)

func TestDivergence(t *testing.T) {
	tests := []struct {
		name string
		e    string
		r    string
		want int
	}{
		{"first character", "apple", "bpple", 0},
		{"inside first window", "abcde", "abXde", 2},
		{"inside later window", "abcdefghij", "abcdefgHij", 7},
		{"on window boundary", "abcdefghij", "abcdeXghij", 5},
		{"strict prefix", "abc", "abcdef", 3},
		{"strict prefix longer expected", "abcdef", "abc", 3},
		{"prefix at window boundary", "abcde", "abcdefgh", 5},
		{"one side empty", "", "x", 0},
		{"long common prefix", strings.Repeat("a", 23) + "b", strings.Repeat("a", 23) + "c", 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Divergence(tt.e, tt.r); got != tt.want {
				t.Errorf("Divergence(%q, %q) = %d, want %d", tt.e, tt.r, got, tt.want)
			}
		})
	}
}

func TestDiagnosticCaretAlignment(t *testing.T) {
	m := &Mismatch{
		Kind:     KindStream,
		Stream:   "stdout",
		Expected: "hello\n",
		Received: "helpo\n",
		Offset:   3,
	}
	diag := m.Diagnostic()

	lines := strings.Split(diag, "\n")
	if len(lines) != 4 {
		t.Fatalf("diagnostic has %d lines, want 4:\n%s", len(lines), diag)
	}
	if !strings.Contains(lines[1], `"hello"`) {
		t.Errorf("expected line = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"helpo"`) {
		t.Errorf("received line = %q", lines[2])
	}
	caret := strings.Index(lines[3], "^")
	if caret < 0 {
		t.Fatalf("no caret in %q", lines[3])
	}
	// The caret sits under the first differing character inside the quotes.
	quote := strings.Index(lines[2], `"`)
	if caret != quote+1+m.Offset {
		t.Errorf("caret at column %d, want %d", caret, quote+1+m.Offset)
	}
}

func TestDiagnosticCaretWithEscapedCharacters(t *testing.T) {
	// A tab renders as two columns inside the quoted line; the caret must
	// still land on the differing character.
	m := &Mismatch{
		Kind:     KindStream,
		Stream:   "stdout",
		Expected: "a\tbcd\n",
		Received: "a\tbXd\n",
		Offset:   3,
	}
	lines := strings.Split(m.Diagnostic(), "\n")
	if len(lines) != 4 {
		t.Fatalf("diagnostic has %d lines, want 4:\n%s", len(lines), m.Diagnostic())
	}
	caret := strings.Index(lines[3], "^")
	marked := strings.Index(lines[2], "X")
	if caret < 0 || marked < 0 {
		t.Fatalf("caret or differing character missing:\n%s", m.Diagnostic())
	}
	if caret != marked {
		t.Errorf("caret at column %d, differing character at column %d\n%s",
			caret, marked, m.Diagnostic())
	}
}

func TestDiagnosticCaretPastLineEnd(t *testing.T) {
	// Divergence past the end of the shorter line clamps to its rendered end.
	m := &Mismatch{
		Kind:     KindStream,
		Stream:   "stdout",
		Expected: "abcdef\n",
		Received: "abc\n",
		Offset:   3,
	}
	lines := strings.Split(m.Diagnostic(), "\n")
	caret := strings.Index(lines[3], "^")
	closing := strings.LastIndex(lines[2], `"`)
	if caret != closing {
		t.Errorf("caret at column %d, want %d (closing quote of the shorter line)\n%s",
			caret, closing, m.Diagnostic())
	}
}

func TestDiagnosticMessageKinds(t *testing.T) {
	m := &Mismatch{Kind: KindMissingArtifact, Message: "Expected output file out.txt was not produced"}
	if !strings.Contains(m.Diagnostic(), "out.txt") {
		t.Errorf("Diagnostic = %q", m.Diagnostic())
	}
}
