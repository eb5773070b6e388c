package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cgast/contest/internal/fixtures"
	"github.com/cgast/contest/internal/proc"
	"github.com/cgast/contest/pkg/check"
	"github.com/cgast/contest/pkg/events"
	"github.com/cgast/contest/pkg/plugin"
	"github.com/cgast/contest/pkg/recipe"
)

// Case is one test case bound to its own working directory under
// <suiteRoot>/test_output/<name>. It is prepared once, run once, and
// discarded after yielding its error count.
type Case struct {
	spec      recipe.Case
	suiteRoot string
	dir       string
	args      []string
	log       *log.Entry
	bus       *events.Bus
	plugins   *plugin.Registry
}

// NewCase prepares the case: the working directory is wiped and recreated,
// declared resources are copied in, the command line is resolved against
// the suite root, and setup commands run. Setup commands are deliberately
// best-effort; their output is discarded and a failing step does not abort
// the case. Only the main invocation and its checks decide the verdict.
func NewCase(ctx context.Context, spec recipe.Case, defaultExe, suiteRoot string, bus *events.Bus, plugins *plugin.Registry) (*Case, error) {
	c := &Case{
		spec:      spec,
		suiteRoot: suiteRoot,
		dir:       filepath.Join(suiteRoot, "test_output", spec.Name),
		log:       log.WithField("test", spec.Name),
		bus:       bus,
		plugins:   plugins,
	}
	c.log.Debugf("Constructing test case %s", spec.Name)

	if err := fixtures.Prepare(c.dir); err != nil {
		return nil, err
	}
	for _, res := range spec.Resources {
		if err := fixtures.Stage(suiteRoot, c.dir, res); err != nil {
			return nil, fmt.Errorf("stage resource: %w", err)
		}
	}

	args, err := proc.ResolveCommand(spec.Command(defaultExe), spec.Argv, suiteRoot)
	if err != nil {
		return nil, err
	}
	c.args = args

	for _, cmdLine := range spec.Setup {
		c.runSetup(ctx, cmdLine)
	}
	return c, nil
}

// Dir returns the case working directory.
func (c *Case) Dir() string { return c.dir }

func (c *Case) runSetup(ctx context.Context, cmdLine string) {
	args, err := proc.ResolveCommand(cmdLine, nil, c.suiteRoot)
	if err != nil {
		c.log.Debugf("Skipping setup command %q: %v", cmdLine, err)
		return
	}
	// The result is deliberately ignored: setup is non-gating.
	if _, err := proc.Run(ctx, proc.Request{Args: args, Dir: c.dir, Env: c.env()}); err != nil {
		c.log.Debugf("Setup command %q failed: %v", cmdLine, err)
	}
}

func (c *Case) env() []string {
	return proc.Environment(c.spec.Env, c.spec.ScrubEnv)
}

// Run executes the target program and all checks in fixed order: timeout,
// return code, stdout, stderr, ofstreams, extra tests. It returns the
// number of errors encountered; any nonzero count fails the case.
func (c *Case) Run(ctx context.Context) int {
	c.bus.Publish(events.New(events.CaseStart, c.spec.Name, nil))
	c.log.Debugf("Test home: %s", c.dir)
	c.log.Debugf("Running: %v", c.args)

	var timeout time.Duration
	if c.spec.Timeout > 0 {
		timeout = time.Duration(c.spec.Timeout * float64(time.Second))
	}

	res, err := proc.Run(ctx, proc.Request{
		Args:    c.args,
		Stdin:   c.spec.Stdin.Text,
		Dir:     c.dir,
		Env:     c.env(),
		Timeout: timeout,
	})
	if err != nil {
		c.fail(fmt.Sprintf("FAILURE:\n         Could not execute %s: %v", c.args[0], err))
		c.finish(1)
		return 1
	}

	errors := 0
	if res.TimedOut {
		c.bus.Publish(events.New(events.CaseTimeout, c.spec.Name, nil))
		c.fail("FAILURE:\n         The program took too long to run and was terminated")
		errors++
	}

	if c.spec.ReturnCode != nil && !res.TimedOut && *c.spec.ReturnCode != res.ExitCode {
		c.fail(fmt.Sprintf("FAILURE:\n         Expected return code %d, received %d",
			*c.spec.ReturnCode, res.ExitCode))
		errors++
	}

	errors += c.checkStream("stdout", c.spec.Stdout, res.Stdout)
	errors += c.checkStream("stderr", c.spec.Stderr, res.Stderr)
	errors += c.checkOfstreams()
	errors += c.checkPlugins(ctx)

	c.finish(errors)
	return errors
}

func (c *Case) checkStream(label string, exp *recipe.Expectation, content string) int {
	if exp == nil {
		return 0
	}
	c.log.Debugf("Comparing %s streams line by line", label)
	if m := check.Stream(label, *exp, recipe.SplitLines(content)); m != nil {
		c.fail(m.Diagnostic())
		return 1
	}
	return 0
}

func (c *Case) checkOfstreams() int {
	errors := 0
	for _, f := range c.spec.Ofstreams {
		refPath := filepath.Join(c.suiteRoot, f.File)
		testPath := filepath.Join(c.dir, f.TestFile)
		m, err := check.File(f, refPath, testPath)
		if err != nil {
			c.fail(fmt.Sprintf("FAILURE:\n         %v", err))
			errors++
			continue
		}
		if m == nil {
			continue
		}
		c.fail(m.Diagnostic())
		errors++
		if m.Kind == check.KindMissingArtifact {
			// A missing artifact aborts the remaining file checks.
			break
		}
	}
	return errors
}

func (c *Case) checkPlugins(ctx context.Context) int {
	errors := 0
	for _, name := range c.spec.ExtraTests {
		chk := c.plugins.Resolve(name, c.suiteRoot)
		c.log.Debugf("Running extra test: %s", chk.Name())
		ok, err := chk.Run(ctx, c.dir)
		if err != nil {
			c.fail(fmt.Sprintf("FAILURE:\n         Extra test %s: %v", chk.Name(), err))
			errors++
			continue
		}
		if !ok {
			c.fail(fmt.Sprintf("FAILURE:\n         Extra test %s failed", chk.Name()))
			errors++
		}
	}
	return errors
}

func (c *Case) fail(diagnostic string) {
	c.bus.Publish(events.New(events.CheckFail, c.spec.Name, diagnostic))
}

func (c *Case) finish(errors int) {
	if errors == 0 {
		c.bus.Publish(events.New(events.CasePass, c.spec.Name, nil))
	} else {
		c.bus.Publish(events.New(events.CaseFail, c.spec.Name, events.FailInfo{Errors: errors}))
	}
}
