package proc

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("WriteFile %s: %v", path, err)
	}
}

func TestResolveCommandUnderRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "tool"))

	args, err := ResolveCommand("tool --flag", nil, root)
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	if len(args) != 2 {
		t.Fatalf("len(args) = %d, want 2", len(args))
	}
	if !filepath.IsAbs(args[0]) {
		t.Errorf("args[0] = %q, want absolute path", args[0])
	}
	if args[1] != "--flag" {
		t.Errorf("args[1] = %q, want --flag", args[1])
	}
}

func TestResolveCommandInterpreterScript(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "script.sh"))

	args, err := ResolveCommand("sh script.sh", nil, root)
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	if args[0] != "sh" {
		t.Errorf("args[0] = %q, want interpreter left as-is", args[0])
	}
	if !filepath.IsAbs(args[1]) {
		t.Errorf("args[1] = %q, want script resolved to absolute path", args[1])
	}
}

func TestResolveCommandBareSystemCommand(t *testing.T) {
	root := t.TempDir()

	args, err := ResolveCommand("true", nil, root)
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	if args[0] != "true" {
		t.Errorf("args[0] = %q, want %q", args[0], "true")
	}
}

func TestResolveCommandAppendsArgv(t *testing.T) {
	root := t.TempDir()

	args, err := ResolveCommand("true", []string{"a", "b c"}, root)
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	want := []string{"true", "a", "b c"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestResolveCommandQuoting(t *testing.T) {
	root := t.TempDir()

	args, err := ResolveCommand(`true "one arg" two`, nil, root)
	if err != nil {
		t.Fatalf("ResolveCommand: %v", err)
	}
	if len(args) != 3 || args[1] != "one arg" {
		t.Errorf("args = %v, want quoted token kept whole", args)
	}
}

func TestResolveCommandEmpty(t *testing.T) {
	if _, err := ResolveCommand("", nil, t.TempDir()); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestResolveCommandBadQuoting(t *testing.T) {
	if _, err := ResolveCommand(`tool "unterminated`, nil, t.TempDir()); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}
