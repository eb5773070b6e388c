package harness

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cgast/contest/pkg/events"
	"github.com/cgast/contest/pkg/plugin"
	"github.com/cgast/contest/pkg/recipe"
)

// Suite runs the filtered cases of a test matrix strictly in configuration
// order, one at a time, and aggregates their results into a Summary.
type Suite struct {
	matrix     recipe.Matrix
	recipePath string
	root       string
	bus        *events.Bus
	plugins    *plugin.Registry
	failFast   bool
	includes   []string
	excludes   []string
}

// Option configures a Suite.
type Option func(*Suite)

// WithFailFast stops the suite after the first case that reports any error.
func WithFailFast(ff bool) Option {
	return func(s *Suite) {
		s.failFast = ff
	}
}

// WithFilters sets the include and exclude regex patterns for case names.
// Exclude takes precedence over include.
func WithFilters(includes, excludes []string) Option {
	return func(s *Suite) {
		s.includes = includes
		s.excludes = excludes
	}
}

// WithPlugins sets the registry used to resolve extra-test checks.
func WithPlugins(r *plugin.Registry) Option {
	return func(s *Suite) {
		s.plugins = r
	}
}

// WithBus sets the event bus run events are published to.
func WithBus(b *events.Bus) Option {
	return func(s *Suite) {
		s.bus = b
	}
}

// New creates a suite for the given matrix. The recipe path anchors the
// suite root: executables, resources and reference files all resolve
// relative to the recipe's directory.
func New(matrix recipe.Matrix, recipePath string, opts ...Option) *Suite {
	s := &Suite{
		matrix:     matrix,
		recipePath: recipePath,
		root:       filepath.Dir(recipePath),
		bus:        events.NewBus(),
		plugins:    plugin.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bus returns the suite's event bus so observers can subscribe before Run.
func (s *Suite) Bus() *events.Bus { return s.bus }

// CaseResult records one executed case.
type CaseResult struct {
	Name   string `json:"name"`
	Errors int    `json:"errors"`
}

// Passed reports whether the case finished without errors.
func (r CaseResult) Passed() bool { return r.Errors == 0 }

// Summary aggregates a complete suite run.
type Summary struct {
	Recipe   string        `json:"recipe"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Cases    []CaseResult  `json:"cases"`
	Passed   int           `json:"passed"`
	Total    int           `json:"total"`
}

// Failed returns the number of executed cases that reported errors, which
// is also the process exit code. Cases skipped by a fail-fast stop are
// counted in Total but never as failures.
func (s Summary) Failed() int {
	failed := 0
	for _, c := range s.Cases {
		if !c.Passed() {
			failed++
		}
	}
	return failed
}

// Run executes the filtered cases sequentially and returns the aggregate
// summary. Individual case failures never abort the suite; only a filter
// compilation error does. With fail-fast enabled the loop stops after the
// first failing case, leaving the remaining cases unexecuted but still
// counted in Total.
func (s *Suite) Run(ctx context.Context) (Summary, error) {
	cases, err := recipe.Filter(s.matrix.Cases, s.includes, s.excludes)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Recipe:  s.recipePath,
		Started: time.Now(),
		Total:   len(cases),
	}
	s.bus.Publish(events.New(events.SuiteStart, "", events.SuiteInfo{
		Recipe: s.recipePath,
		Found:  len(s.matrix.Cases),
		ToRun:  len(cases),
	}))

	for _, spec := range cases {
		errors := s.runCase(ctx, spec)
		summary.Cases = append(summary.Cases, CaseResult{Name: spec.Name, Errors: errors})
		if errors == 0 {
			summary.Passed++
		} else if s.failFast {
			break
		}
	}

	summary.Duration = time.Since(summary.Started)
	s.bus.Publish(events.New(events.SuiteEnd, "", events.Tally{
		Passed:   summary.Passed,
		Total:    summary.Total,
		Duration: summary.Duration,
	}))
	return summary, nil
}

// runCase prepares and runs one case. Preparation failures (unresolvable
// command, unreadable fixture) count as one error for the case rather than
// crashing the suite.
func (s *Suite) runCase(ctx context.Context, spec recipe.Case) int {
	c, err := NewCase(ctx, spec, s.matrix.Executable, s.root, s.bus, s.plugins)
	if err != nil {
		s.bus.Publish(events.New(events.CaseStart, spec.Name, nil))
		s.bus.Publish(events.New(events.CheckFail, spec.Name,
			"FAILURE:\n         Could not prepare test: "+err.Error()))
		s.bus.Publish(events.New(events.CaseFail, spec.Name, events.FailInfo{Errors: 1}))
		return 1
	}
	return c.Run(ctx)
}
