package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ErrTimeout reports that a command exceeded its time bound.
var ErrTimeout = errors.New("command timed out")

// ErrNotFound reports that the command binary could not be located on PATH.
var ErrNotFound = errors.New("command not found")

// Command describes a single external invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the caller's directory.
	Dir string
	// Env entries are appended to the inherited process environment,
	// they never replace it.
	Env []string
	// Timeout bounds the whole invocation. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// ExecResult captures a completed command's output streams and exit code.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner abstracts subprocess execution so the pipeline logic can be
// tested without spawning processes. A non-zero exit code is reported through
// ExecResult, not through the error: only transport-level problems (timeout,
// failure to launch) return a non-nil error.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (ExecResult, error)
}

// LocalCommandRunner runs commands on the host.
type LocalCommandRunner struct{}

// NewLocalCommandRunner constructs a LocalCommandRunner ready to be wired
// into the pipeline.
func NewLocalCommandRunner() *LocalCommandRunner {
	return &LocalCommandRunner{}
}

// Run executes cmd and waits for it to finish. The subprocess is killed when
// ctx is canceled or the timeout elapses, so an aborted request never leaves
// an orphaned process behind.
func (r *LocalCommandRunner) Run(ctx context.Context, cmd Command) (ExecResult, error) {
	runCtx := ctx

	if cmd.Timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer

	c.Stdout = &stdout
	c.Stderr = &stderr

	runErr := c.Run()

	res := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if st := c.ProcessState; st != nil {
		res.ExitCode = st.ExitCode()
	}

	if runErr == nil {
		return res, nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%s: %w", cmd.Name, ErrTimeout)
	}

	if runCtx.Err() != nil {
		// The caller's request was aborted; the subprocess has been killed.
		return res, fmt.Errorf("%s: %w", cmd.Name, runCtx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		// The process ran to completion; its exit code is the result.
		return res, nil
	}

	if errors.Is(runErr, exec.ErrNotFound) {
		return res, fmt.Errorf("%s: %w", cmd.Name, ErrNotFound)
	}

	return res, fmt.Errorf("starting %s: %w", cmd.Name, runErr)
}
