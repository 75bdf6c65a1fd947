package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/pyright-mcp/internal/adapter"
	"github.com/mouse-blink/pyright-mcp/internal/config"
	"github.com/mouse-blink/pyright-mcp/internal/controller"
	"github.com/mouse-blink/pyright-mcp/internal/domain"
)

const shutdownTimeout = 5 * time.Second

var serveTransportFlag string
var serveHostFlag string
var servePortFlag int

// serveCmd represents the serve command.
var serveCmd = newServeCmd()

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the pyright MCP server",
		Long: `Start the pyright MCP server.

Allowed directories come from --allowed-dir flags or the config file. When
neither supplies any, the server prompts for at least one directory before
it starts accepting requests.`,
		Args: cobra.NoArgs,
		RunE: serveAction,
	}

	cmd.Flags().StringVar(&serveTransportFlag, "transport", "",
		"transport type (stdio, sse, streamable-http)")
	cmd.Flags().StringVar(&serveHostFlag, "host", "", "host for HTTP transports")
	cmd.Flags().IntVar(&servePortFlag, "port", 0, "port for HTTP transports")

	return cmd
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serveAction(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveTransportFlag != "" {
		cfg.Transport = serveTransportFlag
	}

	if serveHostFlag != "" {
		cfg.Host = serveHostFlag
	}

	if servePortFlag != 0 {
		cfg.Port = servePortFlag
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	dirs := cfg.AllowedDirs
	if len(dirs) == 0 {
		dirs, err = adapter.PromptDirs(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	roots, err := resolveRoots(dirs)
	if err != nil {
		return err
	}

	ts := controller.NewToolSet(
		domain.NewAuthorizer(roots),
		domain.NewPipeline(fsAdapter, cmdRunner),
		fsAdapter,
	)

	server := newServer()
	ts.RegisterServer(server)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportStdio:
		return server.Run(ctx, &mcp.StdioTransport{})
	case config.TransportSSE:
		handler := mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return server })

		return serveHTTP(ctx, cfg.Addr(), handler)
	case config.TransportStreamableHTTP:
		mux := http.NewServeMux()
		mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil))

		return serveHTTP(ctx, cfg.Addr(), mux)
	default:
		return fmt.Errorf("unknown transport: %s", cfg.Transport)
	}
}

func newServer() *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "pyright-mcp",
		Title:   "Pyright Language Server MCP",
		Version: Version,
	}
	serverOpts := &mcp.ServerOptions{
		Instructions: `This MCP server runs the pyright type checker on Python projects inside
the directories it was configured to allow. Use list_allowed_directories
to discover them and run_pyright to analyze a directory within one.
`,
	}

	return mcp.NewServer(impl, serverOpts)
}

// serveHTTP runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("listening on %s", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
