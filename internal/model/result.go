package model

// RunResult is the success outcome of a pyright run. Output holds the
// subprocess stdout followed by stderr. A non-zero ExitCode is a normal
// analysis result (pyright exits non-zero when it finds issues), not a
// pipeline failure.
type RunResult struct {
	Output    string
	ExitCode  int
	Directory Path
}
