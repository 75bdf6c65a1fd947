package cmd

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/pyright-mcp/internal/controller"
	"github.com/mouse-blink/pyright-mcp/internal/domain"
)

// infoCmd represents the info command.
var infoCmd = newInfoCmd()

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show information about the MCP server",
		Args:  cobra.NoArgs,
		RunE:  infoAction,
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// Info describes the server as seen by a connected client.
type Info struct {
	Tools []*mcp.Tool `json:"tools"`
}

func infoAction(cmd *cobra.Command, _ []string) error {
	info, err := inspectInfo(cmd.Context())
	if err != nil {
		return err
	}

	j, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return err
	}

	cmd.Println(string(j))

	return nil
}

// inspectInfo connects an in-memory client to a freshly wired server and
// lists its tools.
func inspectInfo(ctx context.Context) (*Info, error) {
	ts := controller.NewToolSet(
		domain.NewAuthorizer(nil),
		domain.NewPipeline(fsAdapter, cmdRunner),
		fsAdapter,
	)

	server := newServer()
	ts.RegisterServer(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, err
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, err
	}

	toolsResult, err := clientSession.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, err
	}

	if err = clientSession.Close(); err != nil {
		return nil, err
	}

	if err = serverSession.Wait(); err != nil {
		return nil, err
	}

	return &Info{Tools: toolsResult.Tools}, nil
}
