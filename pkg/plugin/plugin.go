package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cgast/contest/internal/proc"
)

// Check is an externally supplied pass/fail verdict run after the main
// comparisons of a test case. The harness does not inspect why a check
// failed; the verdict is opaque.
type Check interface {
	Name() string
	Run(ctx context.Context, dir string) (bool, error)
}

// Registry resolves extra-test names to checks. Checks registered
// programmatically take precedence; anything else resolves to an
// executable on disk.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry creates an empty check registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register adds an in-process check. Returns an error if a check with the
// same name is already registered.
func (r *Registry) Register(c Check) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.checks[name]; exists {
		return fmt.Errorf("check already registered: %s", name)
	}
	r.checks[name] = c
	return nil
}

// Resolve returns the check for an extra-test entry. A registered check
// wins; otherwise the entry is treated as a path to an executable check,
// resolved against the suite root. Executable checks are resolved fresh on
// every call, never cached across cases.
func (r *Registry) Resolve(name, suiteRoot string) Check {
	r.mu.RLock()
	c, ok := r.checks[name]
	r.mu.RUnlock()
	if ok {
		return c
	}
	return &execCheck{path: resolvePath(name, suiteRoot)}
}

// execCheck runs an executable with no arguments inside the case working
// directory; exit status zero means the check passed.
type execCheck struct {
	path string
}

func (c *execCheck) Name() string { return c.path }

func (c *execCheck) Run(ctx context.Context, dir string) (bool, error) {
	res, err := proc.Run(ctx, proc.Request{
		Args: []string{c.path},
		Dir:  dir,
		Env:  proc.Environment(nil, false),
	})
	if err != nil {
		return false, fmt.Errorf("run check %s: %w", c.path, err)
	}
	return res.ExitCode == 0, nil
}

func resolvePath(name, suiteRoot string) string {
	candidate := filepath.Join(suiteRoot, name)
	if _, err := os.Stat(candidate); err == nil {
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs
		}
	}
	return name
}
