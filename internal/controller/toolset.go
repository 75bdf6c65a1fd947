package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/mouse-blink/pyright-mcp/internal/adapter"
	"github.com/mouse-blink/pyright-mcp/internal/domain"
	m "github.com/mouse-blink/pyright-mcp/internal/model"
)

// notConfiguredMessage is the fixed sentinel returned while the allow-list
// was never initialized.
const notConfiguredMessage = "The pyright mcp is not configured correctly"

// ToolSet wires the authorizer and pipeline into MCP tool handlers. Requests
// share nothing but the immutable allow-list inside the authorizer, so
// handlers may run concurrently.
type ToolSet struct {
	auth     *domain.Authorizer
	pipeline *domain.Pipeline
	fs       adapter.ProjectFS
}

// NewToolSet constructs a ToolSet from an authorizer, a pipeline and the
// filesystem adapter used to canonicalize request paths.
func NewToolSet(auth *domain.Authorizer, pipeline *domain.Pipeline, fs adapter.ProjectFS) *ToolSet {
	return &ToolSet{auth: auth, pipeline: pipeline, fs: fs}
}

// RegisterServer registers all tools on the given MCP server.
func (ts *ToolSet) RegisterServer(server *mcp.Server) {
	mcp.AddTool(server, RunPyright, ts.RunPyright)
	mcp.AddTool(server, ListAllowedDirectories, ts.ListAllowedDirectories)
}

// RunPyright handles the run_pyright tool. Authorization failures and
// pipeline failures are reported as tool output text, not as protocol
// errors, so the calling agent always receives a readable message.
func (ts *ToolSet) RunPyright(ctx context.Context,
	req *mcp.CallToolRequest, args RunPyrightParams,
) (*mcp.CallToolResult, RunPyrightResult, error) {
	projectPath, err := ts.fs.Canonicalize(m.Path(args.ProjectDir))
	if err != nil {
		return textResult(fmt.Sprintf("Error: invalid project directory %s: %v", args.ProjectDir, err), 0)
	}

	targetPath, err := ts.fs.Canonicalize(ts.fs.Join(args.ProjectDir, args.TargetDir))
	if err != nil {
		return textResult(fmt.Sprintf("Error: invalid target directory %s: %v", args.TargetDir, err), 0)
	}

	if err := ts.auth.Authorize(projectPath); err != nil {
		var failure *m.Failure
		if errors.As(err, &failure) && failure.Kind == m.KindNotConfigured {
			return textResult(notConfiguredMessage, 0)
		}

		return textResult(fmt.Sprintf("Error: Project directory %s is not in allowed directories", projectPath), 0)
	}

	ts.logInfo(ctx, req, fmt.Sprintf("Running pyright on %s...", targetPath))

	result, runErr := ts.pipeline.Run(ctx, projectPath, targetPath)
	if runErr != nil {
		ts.logError(ctx, req, fmt.Sprintf("Pyright failed: %v", runErr))

		return textResult(fmt.Sprintf("Error: %v", runErr), 0)
	}

	ts.logInfo(ctx, req, fmt.Sprintf("Pyright completed with exit code %d", result.ExitCode))

	return textResult(result.Output, result.ExitCode)
}

// ListAllowedDirectories handles the list_allowed_directories tool.
func (ts *ToolSet) ListAllowedDirectories(_ context.Context,
	_ *mcp.CallToolRequest, _ ListAllowedDirectoriesParams,
) (*mcp.CallToolResult, ListAllowedDirectoriesResult, error) {
	roots := ts.auth.Roots()

	dirs := make([]string, 0, len(roots))
	for _, root := range roots {
		dirs = append(dirs, string(root))
	}

	return nil, ListAllowedDirectoriesResult{Directories: dirs}, nil
}

// textResult builds the tool outcome pair: the text content the caller
// reads plus the structured side channel carrying the exit code.
func textResult(text string, exitCode int) (*mcp.CallToolResult, RunPyrightResult, error) {
	res := RunPyrightResult{Output: text, ExitCode: exitCode}
	callRes := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}

	return callRes, res, nil
}

// logInfo forwards a progress message to the client session when one is
// attached, falling back to the server log otherwise.
func (ts *ToolSet) logInfo(ctx context.Context, req *mcp.CallToolRequest, msg string) {
	ts.log(ctx, req, "info", msg)
}

// logError forwards a failure message to the client session when one is
// attached, falling back to the server log otherwise.
func (ts *ToolSet) logError(ctx context.Context, req *mcp.CallToolRequest, msg string) {
	ts.log(ctx, req, "error", msg)
}

func (ts *ToolSet) log(ctx context.Context, req *mcp.CallToolRequest, level mcp.LoggingLevel, msg string) {
	if req == nil || req.Session == nil {
		logrus.Info(msg)
		return
	}

	if err := req.Session.Log(ctx, &mcp.LoggingMessageParams{Level: level, Data: msg}); err != nil {
		logrus.WithError(err).Debugf("failed to notify client: %s", msg)
	}
}
