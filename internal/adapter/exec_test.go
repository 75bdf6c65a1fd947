package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalCommandRunner_CapturesStreamsAndExitCode(t *testing.T) {
	runner := NewLocalCommandRunner()

	res, err := runner.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2; exit 3"},
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, "out\n", res.Stdout)
	require.Equal(t, "err\n", res.Stderr)
	require.Equal(t, 3, res.ExitCode)
}

func TestLocalCommandRunner_ZeroExit(t *testing.T) {
	runner := NewLocalCommandRunner()

	res, err := runner.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "true"},
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
}

func TestLocalCommandRunner_Timeout(t *testing.T) {
	runner := NewLocalCommandRunner()

	_, err := runner.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "sleep 5"},
		Timeout: 50 * time.Millisecond,
	})
	require.ErrorIs(t, err, ErrTimeout)
}

func TestLocalCommandRunner_NotFound(t *testing.T) {
	runner := NewLocalCommandRunner()

	_, err := runner.Run(context.Background(), Command{
		Name:    "definitely-not-a-real-binary-1b7f",
		Timeout: 10 * time.Second,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalCommandRunner_WorkingDirectory(t *testing.T) {
	runner := NewLocalCommandRunner()
	dir := t.TempDir()

	res, err := runner.Run(context.Background(), Command{
		Name:    "pwd",
		Dir:     dir,
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)
	require.Contains(t, res.Stdout, dir)
}

func TestLocalCommandRunner_EnvIsMergedNotReplaced(t *testing.T) {
	t.Setenv("PYRIGHT_MCP_TEST_INHERITED", "kept")

	runner := NewLocalCommandRunner()

	res, err := runner.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "echo $PYRIGHT_MCP_TEST_INHERITED $PYTHONPATH"},
		Env:     []string{"PYTHONPATH=/work/proj"},
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, "kept /work/proj\n", res.Stdout)
}

func TestLocalCommandRunner_CanceledContextKillsProcess(t *testing.T) {
	runner := NewLocalCommandRunner()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx, Command{
			Name:    "sh",
			Args:    []string{"-c", "sleep 30"},
			Timeout: time.Minute,
		})
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("process was not terminated after cancellation")
	}
}
