// Package controller exposes the pyright pipeline over the Model Context
// Protocol. Tool definitions live here; the handlers are on ToolSet.
package controller

import "github.com/modelcontextprotocol/go-sdk/mcp"

// RunPyright is the tool that runs pyright against a directory inside an
// allowed project.
var RunPyright = &mcp.Tool{
	Name: "run_pyright",
	Description: `Run the pyright type checker and static analysis on a directory within a Python project.

The tool validates the project against the server's allowed directories, then
checks the project setup (uv, pyproject.toml or setup.py, .venv), installs
pyright into the project environment if needed, and runs it with the project
root on PYTHONPATH. The returned text is the raw pyright output including
errors, warnings and summary statistics.`,
}

// RunPyrightParams are the arguments of the run_pyright tool.
type RunPyrightParams struct {
	ProjectDir string `json:"project_dir" jsonschema:"The absolute path to the project root directory containing pyproject.toml or setup.py."`
	TargetDir  string `json:"target_dir" jsonschema:"The directory to analyze, relative to project_dir. Use \".\" for the entire project."`
}

// RunPyrightResult is the structured result of the run_pyright tool. The
// exit code travels only here, never inside the returned text.
type RunPyrightResult struct {
	Output   string `json:"output" jsonschema:"Combined pyright stdout and stderr, or an error description."`
	ExitCode int    `json:"exit_code" jsonschema:"Exit code reported by pyright. Non-zero means pyright found issues."`
}

// ListAllowedDirectories is the tool that reports where pyright may be run.
var ListAllowedDirectories = &mcp.Tool{
	Name: "list_allowed_directories",
	Description: `List the project directories this server is allowed to analyze.

Only projects within these directories can be analyzed; requests outside them
are rejected. The list is configured at server startup and never changes
while the server is running.`,
}

// ListAllowedDirectoriesParams are the (empty) arguments of the
// list_allowed_directories tool.
type ListAllowedDirectoriesParams struct{}

// ListAllowedDirectoriesResult holds the configured allow-list.
type ListAllowedDirectoriesResult struct {
	Directories []string `json:"directories" jsonschema:"Absolute paths of the allowed project roots. Empty when the server is not configured."`
}
