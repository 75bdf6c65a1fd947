// Package cmd provides the root command and CLI setup for pyright-mcp.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/pyright-mcp/internal/adapter"
	"github.com/mouse-blink/pyright-mcp/internal/config"
	m "github.com/mouse-blink/pyright-mcp/internal/model"
)

// Version is set at build time via ldflags.
var Version = "dev"

var fsAdapter adapter.ProjectFS
var cmdRunner adapter.CommandRunner

func init() {
	fsAdapter = adapter.NewLocalProjectFS()
	cmdRunner = adapter.NewLocalCommandRunner()
}

var allowedDirFlags []string
var configFileFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pyright-mcp",
		Short: "MCP server for running pyright on allowed Python projects",
		Long: `Pyright-mcp exposes the pyright type checker over the Model Context
Protocol. Only projects inside explicitly allowed directories can be
analyzed; the server checks the project setup (uv, pyproject.toml or
setup.py, .venv), installs pyright into the project environment when
missing and returns the raw analysis output.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringArrayVarP(&allowedDirFlags, "allowed-dir", "d",
		nil, "allowed project directory (can be repeated)")
	cmd.PersistentFlags().StringVarP(&configFileFlag, "config", "c",
		"", "path to a YAML config file")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

// loadConfig assembles the configuration from the optional config file with
// CLI flags layered on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if configFileFlag != "" {
		var err error

		cfg, err = config.LoadFile(configFileFlag)
		if err != nil {
			return cfg, err
		}
	}

	if len(allowedDirFlags) > 0 {
		cfg.AllowedDirs = allowedDirFlags
	}

	return cfg, nil
}

// resolveRoots canonicalizes the configured directories into the allow-list.
func resolveRoots(dirs []string) ([]m.Path, error) {
	roots := make([]m.Path, 0, len(dirs))

	for _, dir := range dirs {
		root, err := fsAdapter.Canonicalize(m.Path(dir))
		if err != nil {
			return nil, fmt.Errorf("resolving allowed directory %s: %w", dir, err)
		}

		roots = append(roots, root)
	}

	return roots, nil
}
