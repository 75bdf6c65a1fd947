// Package config provides configuration management for the pyright MCP
// server. It loads an optional YAML file and merges CLI flags on top; the
// resulting Config is built once before the server starts accepting requests
// and treated as immutable afterwards.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Transport names accepted by the serve command.
const (
	// TransportStdio serves MCP over stdin/stdout.
	TransportStdio = "stdio"
	// TransportSSE serves MCP over HTTP server-sent events.
	TransportSSE = "sse"
	// TransportStreamableHTTP serves MCP over streamable HTTP at /mcp.
	TransportStreamableHTTP = "streamable-http"
)

// Config holds the server configuration.
type Config struct {
	// AllowedDirs are the project roots pyright may be run in. Entries are
	// canonicalized before the allow-list is built.
	AllowedDirs []string `yaml:"allowed_dirs"`

	// Transport selects how the server is exposed.
	Transport string `yaml:"transport"`

	// Host is the bind address for the HTTP transports.
	Host string `yaml:"host"`

	// Port is the listen port for the HTTP transports.
	Port int `yaml:"port"`
}

// Default returns the configuration used when no file and no flags are
// given: stdio transport, localhost HTTP defaults, no allowed directories.
func Default() Config {
	return Config{
		Transport: TransportStdio,
		Host:      "127.0.0.1",
		Port:      8000,
	}
}

// LoadFile reads a YAML configuration file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the transport name and port range.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unknown transport: %s", c.Transport)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}

	return nil
}

// Addr returns the host:port pair for the HTTP transports.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
