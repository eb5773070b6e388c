package fixtures

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cgast/contest/pkg/recipe"
)

// Prepare wipes and recreates a case working directory. A case never runs
// in a stale directory, so no state leaks between runs.
func Prepare(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear working directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create working directory %s: %w", dir, err)
	}
	return nil
}

// Stage copies one declared resource into the case working directory.
// The source is resolved relative to the suite root and must stay inside
// it; the destination must stay inside the working directory.
func Stage(suiteRoot, dir string, res recipe.Resource) error {
	src, err := confine(suiteRoot, res.Src)
	if err != nil {
		return fmt.Errorf("resource src %q: %w", res.Src, err)
	}

	dstName := res.Dst
	if dstName == "" {
		dstName = filepath.Base(src)
	}
	dst, err := confine(dir, dstName)
	if err != nil {
		return fmt.Errorf("resource dst %q: %w", res.Dst, err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("resource %q: %w", res.Src, err)
	}
	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst, info.Mode())
}

// confine joins path to root and verifies the result does not escape it.
func confine(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(filepath.Join(absRoot, path))
	if err != nil {
		return "", err
	}
	if abs != absRoot && !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes %s", absRoot)
	}
	return abs, nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
