package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// Request describes one subprocess invocation. Args must already be
// resolved command tokens; Env is the complete environment for the child.
type Request struct {
	Args    []string
	Stdin   string
	Dir     string
	Env     []string
	Timeout time.Duration // 0 = unbounded
}

// Result captures everything the harness compares after a run. When
// TimedOut is set the process was forcibly terminated and Stdout/Stderr
// hold whatever partial output was collected before the kill.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Run spawns the subprocess and blocks until it exits or the timeout
// expires. All stdin is predetermined and written up front; there is no
// interactive piping. A non-nil error means the process could not be run
// at all (for example the executable does not exist); comparison-relevant
// outcomes, including timeouts and nonzero exits, come back in the Result.
func Run(ctx context.Context, req Request) (Result, error) {
	if len(req.Args) == 0 {
		return Result{}, errors.New("proc: empty command")
	}

	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, req.Args[0], req.Args[1:]...)
	cmd.Dir = req.Dir
	cmd.Env = req.Env
	cmd.Stdin = strings.NewReader(req.Stdin)
	// Children of the target can inherit the output pipes; without a wait
	// delay a lingering grandchild would stall the harness past the kill.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("proc: run %s: %w", req.Args[0], err)
	}

	res.ExitCode = cmd.ProcessState.ExitCode()
	return res, nil
}

// Environment builds the child environment from the harness's own, merged
// with the per-case overrides. When scrub is set the harness environment is
// discarded and only the overrides remain.
func Environment(overrides map[string]string, scrub bool) []string {
	env := make(map[string]string)
	if !scrub {
		for _, kv := range os.Environ() {
			if i := strings.IndexByte(kv, '='); i >= 0 {
				env[kv[:i]] = kv[i+1:]
			}
		}
	}
	for k, v := range overrides {
		env[k] = v
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
