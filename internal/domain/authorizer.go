// Package domain implements the authorization and pipeline logic of the
// pyright MCP server.
package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	m "github.com/mouse-blink/pyright-mcp/internal/model"
)

// Authorizer gates analysis requests against the configured allow-list. The
// root set is fixed at construction and never mutated afterwards, so
// Authorize is safe to call from any number of concurrent requests without
// synchronization.
type Authorizer struct {
	roots []m.Path
}

// NewAuthorizer builds an Authorizer over the given roots. Every root must
// already be canonical: absolute, cleaned and with symlinks resolved.
func NewAuthorizer(roots []m.Path) *Authorizer {
	return &Authorizer{roots: slices.Clone(roots)}
}

// Authorize reports whether path may be analyzed. path must be canonical
// before the call. It returns nil when path equals one of the configured
// roots or sits below one, a NotConfigured failure when no roots were ever
// configured, and a NotAuthorized failure otherwise.
func (a *Authorizer) Authorize(path m.Path) error {
	if a == nil || len(a.roots) == 0 {
		return m.NewFailure(m.KindNotConfigured, "no allowed directories configured")
	}

	for _, root := range a.roots {
		if pathContains(root, path) {
			return nil
		}
	}

	return m.NewFailure(m.KindNotAuthorized,
		fmt.Sprintf("Project directory %s is not in allowed directories", path))
}

// Roots returns a copy of the configured allow-list. It is empty when the
// server was never configured.
func (a *Authorizer) Roots() []m.Path {
	if a == nil {
		return nil
	}

	return slices.Clone(a.roots)
}

// pathContains reports whether p equals root or is a descendant of it. The
// comparison is segment-wise: root /home/foo never matches /home/foobar.
func pathContains(root, p m.Path) bool {
	rel, err := filepath.Rel(string(root), string(p))
	if err != nil {
		return false
	}

	if rel == "." {
		return true
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
