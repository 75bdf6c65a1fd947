package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mouse-blink/pyright-mcp/internal/adapter"
	m "github.com/mouse-blink/pyright-mcp/internal/model"
)

const (
	uvBin             = "uv"
	venvDirName       = ".venv"
	pyrightConfigName = "pyrightconfig.json"

	uvCheckTimeout      = 10 * time.Second
	pyrightCheckTimeout = 30 * time.Second
	installTimeout      = 120 * time.Second
	runTimeout          = 300 * time.Second
)

// defaultPyrightConfig is written when a project has no pyrightconfig.json
// yet. Unused imports are reported as warnings instead of errors. An existing
// file is never overwritten.
var defaultPyrightConfig = []byte("{\n  \"reportUnusedImport\": \"warning\"\n}")

// Pipeline drives the setup and execution sequence for a pyright run. The
// sequence is fixed: uv availability, project markers, virtual environment,
// pyright presence (with a conditional install), target validation, config
// ensure, execution. The first failing step aborts all later ones and its
// failure is returned verbatim; there are no retries and no cached state, so
// every request re-derives each check.
type Pipeline struct {
	fs     adapter.ProjectFS
	runner adapter.CommandRunner
}

// NewPipeline constructs a Pipeline backed by the provided filesystem and
// command runner adapters.
func NewPipeline(fs adapter.ProjectFS, runner adapter.CommandRunner) *Pipeline {
	return &Pipeline{fs: fs, runner: runner}
}

// Run executes the full pipeline against targetPath inside projectPath. Both
// paths must be canonical and projectPath must already be authorized. The
// returned error, when non-nil, is always a *model.Failure.
func (p *Pipeline) Run(ctx context.Context, projectPath, targetPath m.Path) (m.RunResult, error) {
	if err := p.checkUvInstalled(ctx); err != nil {
		return m.RunResult{}, err
	}

	if err := p.checkProjectSetup(projectPath); err != nil {
		return m.RunResult{}, err
	}

	venv, err := p.checkVenv(projectPath)
	if err != nil {
		return m.RunResult{}, err
	}

	if !venv.Exists {
		return m.RunResult{}, m.NewFailure(m.KindEnvironmentMissing,
			fmt.Sprintf("Virtual environment not found at %s", venv.Path))
	}

	installed, err := p.checkPyrightInstalled(ctx, projectPath)
	if err != nil {
		return m.RunResult{}, err
	}

	if !installed {
		if err := p.installPyright(ctx, projectPath); err != nil {
			return m.RunResult{}, err
		}
	}

	if err := p.validateTarget(projectPath, targetPath); err != nil {
		return m.RunResult{}, err
	}

	if err := p.ensureConfig(projectPath); err != nil {
		return m.RunResult{}, err
	}

	return p.runPyright(ctx, projectPath, targetPath)
}

// checkUvInstalled verifies the uv package manager answers a version query.
func (p *Pipeline) checkUvInstalled(ctx context.Context) error {
	res, err := p.runner.Run(ctx, adapter.Command{
		Name:    uvBin,
		Args:    []string{"--version"},
		Timeout: uvCheckTimeout,
	})

	switch {
	case err == nil:
		if res.ExitCode != 0 {
			return m.NewFailure(m.KindToolUnavailable,
				fmt.Sprintf("uv did not answer a version query (exit code %d)", res.ExitCode))
		}

		return nil
	case errors.Is(err, adapter.ErrNotFound):
		return m.NewFailure(m.KindToolUnavailable,
			"uv is not installed. Please install uv (https://github.com/astral-sh/uv) to use this tool.")
	case errors.Is(err, adapter.ErrTimeout):
		return m.NewStepFailure(m.KindTimeout, "uv availability", "Timeout checking uv installation")
	default:
		return m.NewStepFailure(m.KindLaunchFailed, "uv availability",
			fmt.Sprintf("Error checking uv: %v", err))
	}
}

// checkProjectSetup verifies the project root carries a recognizable
// manifest.
func (p *Pipeline) checkProjectSetup(projectPath m.Path) error {
	pyprojectToml := p.fs.Join(string(projectPath), "pyproject.toml")
	setupPy := p.fs.Join(string(projectPath), "setup.py")

	if !p.fs.FileExists(pyprojectToml) && !p.fs.FileExists(setupPy) {
		return m.NewFailure(m.KindProjectNotSetup,
			fmt.Sprintf("Project needs to be set up. No pyproject.toml or setup.py found in %s. "+
				"Please run 'uv init' or create a proper Python project structure.", projectPath))
	}

	return nil
}

// checkVenv reports whether the project has a .venv directory. A missing
// project root is a distinct failure from a missing environment.
func (p *Pipeline) checkVenv(projectPath m.Path) (m.VenvStatus, error) {
	if !p.fs.Exists(projectPath) {
		return m.VenvStatus{}, m.NewFailure(m.KindProjectPathMissing,
			fmt.Sprintf("Project path does not exist: %s", projectPath))
	}

	venvPath := p.fs.Join(string(projectPath), venvDirName)

	return m.VenvStatus{
		Exists: p.fs.IsDir(venvPath),
		Path:   venvPath,
	}, nil
}

// checkPyrightInstalled probes pyright through the project environment. A
// non-zero exit means "not present" and is recoverable; a timeout or launch
// failure is fatal.
func (p *Pipeline) checkPyrightInstalled(ctx context.Context, projectPath m.Path) (bool, error) {
	res, err := p.runner.Run(ctx, adapter.Command{
		Name:    uvBin,
		Args:    []string{"run", "pyright", "--version"},
		Dir:     string(projectPath),
		Timeout: pyrightCheckTimeout,
	})

	switch {
	case err == nil:
		return res.ExitCode == 0, nil
	case errors.Is(err, adapter.ErrTimeout):
		return false, m.NewStepFailure(m.KindTimeout, "pyright presence",
			"Timeout checking pyright installation")
	default:
		return false, m.NewStepFailure(m.KindLaunchFailed, "pyright presence",
			fmt.Sprintf("Error checking pyright: %v", err))
	}
}

// installPyright adds pyright as a project dependency via uv.
func (p *Pipeline) installPyright(ctx context.Context, projectPath m.Path) error {
	res, err := p.runner.Run(ctx, adapter.Command{
		Name:    uvBin,
		Args:    []string{"add", "pyright"},
		Dir:     string(projectPath),
		Timeout: installTimeout,
	})

	switch {
	case err == nil:
		if res.ExitCode != 0 {
			return m.NewFailure(m.KindInstallFailed,
				fmt.Sprintf("Failed to install pyright: %s", res.Stderr))
		}

		return nil
	case errors.Is(err, adapter.ErrTimeout):
		return m.NewStepFailure(m.KindTimeout, "pyright install", "Timeout installing pyright")
	default:
		return m.NewStepFailure(m.KindLaunchFailed, "pyright install",
			fmt.Sprintf("Error installing pyright: %v", err))
	}
}

// validateTarget checks the caller-supplied target exists and sits inside
// the project root. Authorization checked the project root, not the target,
// so this must run even after a successful authorization.
func (p *Pipeline) validateTarget(projectPath, targetPath m.Path) error {
	if !p.fs.Exists(targetPath) {
		return m.NewFailure(m.KindTargetInvalid,
			fmt.Sprintf("Target directory does not exist: %s", targetPath))
	}

	if !pathContains(projectPath, targetPath) {
		return m.NewFailure(m.KindTargetInvalid,
			fmt.Sprintf("Target directory %s is not within project %s", targetPath, projectPath))
	}

	return nil
}

// ensureConfig creates pyrightconfig.json at the project root when absent.
// An existing file is left untouched, so the step is idempotent.
func (p *Pipeline) ensureConfig(projectPath m.Path) error {
	configPath := p.fs.Join(string(projectPath), pyrightConfigName)

	if p.fs.FileExists(configPath) {
		return nil
	}

	if err := p.fs.WriteFile(configPath, defaultPyrightConfig, 0o644); err != nil {
		return m.NewFailure(m.KindConfigWriteFailed,
			fmt.Sprintf("Error creating pyrightconfig.json: %v", err))
	}

	return nil
}

// runPyright invokes pyright against the target with the project root as
// working directory and as PYTHONPATH. A non-zero pyright exit code is a
// normal analysis result, not a failure.
func (p *Pipeline) runPyright(ctx context.Context, projectPath, targetPath m.Path) (m.RunResult, error) {
	res, err := p.runner.Run(ctx, adapter.Command{
		Name:    uvBin,
		Args:    []string{"run", "pyright", "--warnings", string(targetPath)},
		Dir:     string(projectPath),
		Env:     []string{"PYTHONPATH=" + string(projectPath)},
		Timeout: runTimeout,
	})

	switch {
	case err == nil:
		return m.RunResult{
			Output:    res.Stdout + res.Stderr,
			ExitCode:  res.ExitCode,
			Directory: targetPath,
		}, nil
	case errors.Is(err, adapter.ErrTimeout):
		return m.RunResult{}, m.NewStepFailure(m.KindTimeout, "pyright run", "Timeout running pyright")
	default:
		return m.RunResult{}, m.NewStepFailure(m.KindLaunchFailed, "pyright run",
			fmt.Sprintf("Error running pyright: %v", err))
	}
}
