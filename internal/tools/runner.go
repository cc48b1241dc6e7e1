package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Command describes one external tool invocation.
type Command struct {
	// Path is the absolute executable path (from a Locator).
	Path string

	// Args are the arguments, excluding the program name.
	Args []string

	// Env holds extra environment variables appended to the parent
	// environment, e.g. PGPASSWORD for the libpq tools.
	Env map[string]string

	// CaptureOutput collects stdout/stderr into the Result instead of
	// streaming them to the console. Used where the caller inspects the
	// tool's error text (extension activation).
	CaptureOutput bool
}

// Result reports the outcome of a completed tool invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external tools. The process blocks until the tool
// exits; there is no parallelism between invocations.
type Runner interface {
	// Run executes the command and waits for it. A non-zero exit status
	// is NOT an error: it is reported through Result.ExitCode so each
	// pipeline stage applies its own failure policy. The returned error
	// is non-nil only when the process could not be started or was
	// cancelled via ctx.
	Run(ctx context.Context, cmd Command) (Result, error)

	// Launch starts the command detached and returns without waiting.
	// Used for the GUI installer, which the user drives interactively.
	Launch(cmd Command) error
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Env = mergedEnv(cmd.Env)

	var stdout, stderr bytes.Buffer
	if cmd.CaptureOutput {
		c.Stdout = &stdout
		c.Stderr = &stderr
	} else {
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
	}

	err := c.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, fmt.Errorf("%s interrupted: %w", cmd.Path, ctxErr)
			}
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", cmd.Path, err)
	}

	return result, nil
}

// Launch implements Runner.
func (r *ExecRunner) Launch(cmd Command) error {
	c := exec.Command(cmd.Path, cmd.Args...)
	c.Env = mergedEnv(cmd.Env)
	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", cmd.Path, err)
	}
	// Detach: the installer outlives this process.
	return c.Process.Release()
}

func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil // inherit parent environment
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
