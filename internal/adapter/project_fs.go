// Package adapter contains infrastructure adapters for the pyright MCP server.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	m "github.com/mouse-blink/pyright-mcp/internal/model"
)

// ProjectFS abstracts the filesystem operations the domain layer relies on
// when inspecting user projects. It intentionally hides direct `os` access so
// the authorization and pipeline logic can be tested without touching the disk.
type ProjectFS interface {
	// Canonicalize makes path absolute, removes relative segments and
	// resolves symlinks. Paths that do not exist yet are still cleaned
	// and made absolute.
	Canonicalize(path m.Path) (m.Path, error)

	// Exists reports whether path exists, file or directory.
	Exists(path m.Path) bool

	// IsDir reports whether path exists and is a directory.
	IsDir(path m.Path) bool

	// FileExists reports whether path exists and is a regular file.
	FileExists(path m.Path) bool

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Join joins path elements into a single path.
	Join(elem ...string) m.Path
}

// LocalProjectFS is the concrete implementation backed by the host filesystem.
type LocalProjectFS struct{}

// NewLocalProjectFS constructs a LocalProjectFS instance ready to be wired
// into the server.
func NewLocalProjectFS() *LocalProjectFS {
	return &LocalProjectFS{}
}

// Canonicalize resolves path to an absolute, symlink-free form. When the path
// does not exist the longest existing ancestor is resolved and the remainder
// is appended, mirroring a non-strict resolve.
func (a *LocalProjectFS) Canonicalize(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", fmt.Errorf("making %s absolute: %w", path, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return m.Path(resolved), nil
	}

	if !os.IsNotExist(err) {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	dir, base := filepath.Split(filepath.Clean(abs))

	parent, err := a.Canonicalize(m.Path(filepath.Clean(dir)))
	if err != nil {
		return "", err
	}

	return m.Path(filepath.Join(string(parent), base)), nil
}

// Exists reports whether path exists.
func (a *LocalProjectFS) Exists(path m.Path) bool {
	_, err := os.Stat(string(path))
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func (a *LocalProjectFS) IsDir(path m.Path) bool {
	info, err := os.Stat(string(path))
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is a regular file.
func (a *LocalProjectFS) FileExists(path m.Path) bool {
	info, err := os.Stat(string(path))
	return err == nil && info.Mode().IsRegular()
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalProjectFS) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Join joins path elements into a single path.
func (a *LocalProjectFS) Join(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
