package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"
)

// ResolveCommand tokenizes a command string and rewrites path-like tokens
// so the case can run from its own working directory. The executable token
// is first looked up relative to the suite root; if it is not there but is
// found on the search path and a second token names a script under the
// suite root, the script token is rewritten instead (interpreter + script
// pattern, e.g. "python script.py"). Tokens that are not filesystem paths
// are left untouched. The case argv is appended after the command tokens.
func ResolveCommand(command string, argv []string, suiteRoot string) ([]string, error) {
	tokens, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty command")
	}

	if abs, ok := underRoot(suiteRoot, tokens[0]); ok {
		tokens[0] = abs
	} else if onPath(tokens[0]) && len(tokens) > 1 {
		if abs, ok := underRoot(suiteRoot, tokens[1]); ok {
			tokens[1] = abs
		}
	}

	return append(tokens, argv...), nil
}

// underRoot reports whether token names an existing file relative to the
// suite root, returning its absolute path when it does.
func underRoot(root, token string) (string, bool) {
	candidate := filepath.Join(root, token)
	if _, err := os.Stat(candidate); err != nil {
		return "", false
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}
	return abs, true
}

func onPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
