package model

// FailureKind classifies pipeline and authorization failures. Each kind is
// surfaced to the caller as-is; kinds are never merged.
type FailureKind string

const (
	// KindNotConfigured indicates the allow-list was never initialized.
	KindNotConfigured FailureKind = "not_configured"
	// KindNotAuthorized indicates the requested path is outside every allowed root.
	KindNotAuthorized FailureKind = "not_authorized"
	// KindToolUnavailable indicates uv is missing or unresponsive.
	KindToolUnavailable FailureKind = "tool_unavailable"
	// KindProjectNotSetup indicates no recognizable project manifest was found.
	KindProjectNotSetup FailureKind = "project_not_setup"
	// KindProjectPathMissing indicates the project root does not exist on disk.
	KindProjectPathMissing FailureKind = "project_path_missing"
	// KindEnvironmentMissing indicates the .venv directory is absent.
	KindEnvironmentMissing FailureKind = "environment_missing"
	// KindTargetInvalid indicates the target path is missing or escapes the project root.
	KindTargetInvalid FailureKind = "target_invalid"
	// KindConfigWriteFailed indicates pyrightconfig.json could not be written.
	KindConfigWriteFailed FailureKind = "config_write_failed"
	// KindInstallFailed indicates `uv add pyright` exited non-zero.
	KindInstallFailed FailureKind = "install_failed"
	// KindTimeout indicates a step's subprocess exceeded its bound.
	KindTimeout FailureKind = "timeout"
	// KindLaunchFailed indicates a subprocess could not be spawned at all.
	KindLaunchFailed FailureKind = "launch_failed"
)

// Failure is the error outcome threaded through the whole pipeline. Every
// failing step resolves to exactly this shape; callers branch on Kind via
// errors.As and surface Message verbatim.
type Failure struct {
	Kind    FailureKind
	Step    string // which step tripped, set for Timeout and LaunchFailed
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// NewFailure builds a Failure with the given kind and message.
func NewFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// NewStepFailure builds a Failure that records the step it occurred in.
func NewStepFailure(kind FailureKind, step, message string) *Failure {
	return &Failure{Kind: kind, Step: step, Message: message}
}
