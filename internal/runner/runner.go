// Package runner executes generated stage scripts. The exit code of the
// engine invocation inside the script is returned unchanged.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// CommandRunner abstracts script execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) (int, error)
}

// ExecRunner implements CommandRunner by shelling out.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, dir string, argv []string, stdout, stderr io.Writer) (int, error) {
	if len(argv) == 0 {
		return -1, fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("exec: %w", err)
	}
	return 0, nil
}

// Runner runs stage scripts with bash.
type Runner struct {
	cmd CommandRunner
}

// New creates a Runner backed by the given command runner.
func New(cmd CommandRunner) *Runner {
	return &Runner{cmd: cmd}
}

// RunScript executes the script at path and returns its exit code.
func (r *Runner) RunScript(ctx context.Context, path string, stdout, stderr io.Writer) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return -1, fmt.Errorf("script not found: %w", err)
	}
	return r.cmd.Run(ctx, "", []string{"bash", path}, stdout, stderr)
}
