package record

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/cgast/contest/pkg/recipe"
)

// Record runs the given command interactively, captures everything needed
// to replay it as a test case, and appends the case to the recipe at
// recipePath (creating the recipe when absent). Typed stdin lines become
// the case stdin, captured stdout/stderr become expectations, and any file
// the run created is moved aside as a reference artifact with a matching
// ofstream entry.
func Record(ctx context.Context, recipePath, name string, command []string) error {
	if name == "" {
		return errors.New("a test name is required")
	}
	if len(command) == 0 {
		return errors.New("a command is required")
	}

	var m recipe.Matrix
	exists := false
	if _, err := os.Stat(recipePath); err == nil {
		exists = true
		m, err = recipe.Load(recipePath)
		if err != nil {
			return err
		}
		for _, c := range m.Cases {
			if c.Name == name {
				return fmt.Errorf("%s is already a test case, choose a new name", name)
			}
		}
	}

	before, err := listFiles(".")
	if err != nil {
		return fmt.Errorf("snapshot working directory: %w", err)
	}

	log.Debugf("Recording command %v", command)
	result, err := runInteractive(ctx, command)
	if err != nil {
		return err
	}
	log.Debug("Recording complete, writing to recipe")

	after, err := listFiles(".")
	if err != nil {
		return fmt.Errorf("snapshot working directory: %w", err)
	}

	c := recipe.Case{
		Name:       name,
		ReturnCode: &result.exitCode,
	}
	if len(command) > 1 {
		c.Argv = command[1:]
	}
	if len(result.stdinLines) > 0 {
		c.Stdin = recipe.Input{Text: strings.Join(result.stdinLines, "\n") + "\n"}
	}
	if result.stdout != "" {
		c.Stdout = &recipe.Expectation{Text: recipe.SplitLines(result.stdout), Count: -1}
	}
	if result.stderr != "" {
		c.Stderr = &recipe.Expectation{Text: recipe.SplitLines(result.stderr), Count: -1}
	}

	for _, created := range newFiles(before, after, recipePath) {
		dir, base := filepath.Split(created)
		ref := filepath.Join(dir, "contest_"+base)
		if err := os.Rename(created, ref); err != nil {
			return fmt.Errorf("move artifact %s: %w", created, err)
		}
		c.Ofstreams = append(c.Ofstreams, recipe.FileExpectation{
			Type:     recipe.TypeText,
			File:     ref,
			TestFile: created,
			Count:    -1,
		})
	}

	if !exists {
		m.Executable = command[0]
	} else if command[0] != m.Executable {
		c.Executable = command[0]
	}

	m.Cases = append(m.Cases, c)
	return recipe.Save(m, recipePath)
}

type runResult struct {
	stdout     string
	stderr     string
	exitCode   int
	stdinLines []string
}

// runInteractive runs the command with stdout/stderr teed to the terminal
// and stdin teed from the terminal, remembering every line the user types.
func runInteractive(ctx context.Context, command []string) (runResult, error) {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
	cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return runResult{}, fmt.Errorf("open stdin pipe: %w", err)
	}

	var mu sync.Mutex
	var lines []string
	go func() {
		defer stdin.Close()
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
			if _, err := io.WriteString(stdin, line+"\n"); err != nil {
				return
			}
		}
	}()

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return runResult{}, fmt.Errorf("run %s: %w", command[0], err)
		}
		exitCode = exitErr.ExitCode()
	}

	mu.Lock()
	captured := make([]string, len(lines))
	copy(captured, lines)
	mu.Unlock()

	return runResult{
		stdout:     stdout.String(),
		stderr:     stderr.String(),
		exitCode:   exitCode,
		stdinLines: captured,
	}, nil
}

// listFiles returns every regular file under root, as relative paths.
func listFiles(root string) (map[string]bool, error) {
	files := make(map[string]bool)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files[filepath.Clean(path)] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// newFiles returns files present after the run but not before, sorted for
// stable recipe output. The recipe itself is never treated as an artifact.
func newFiles(before, after map[string]bool, recipePath string) []string {
	var created []string
	for path := range after {
		if !before[path] && path != filepath.Clean(recipePath) {
			created = append(created, path)
		}
	}
	sort.Strings(created)
	return created
}
