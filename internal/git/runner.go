package git

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// Runner executes a git subcommand in a working directory. Injected so
// tests can substitute canned output for a real git binary.
type Runner interface {
	Run(dir string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner shells out to the git binary.
type ExecRunner struct{}

func (ExecRunner) Run(dir string, args ...string) (string, string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("component", "git").Str("dir", dir).Strs("args", args).Msg("exec")

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func commandError(operation string, err error, stdout, stderr string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %v\nStdout: %s\nStderr: %s", operation, err, stdout, stderr)
}
