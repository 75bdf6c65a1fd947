package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/pyright-mcp/internal/model"
)

func TestLocalProjectFS_CanonicalizeExistingPath(t *testing.T) {
	fs := NewLocalProjectFS()
	base := t.TempDir()

	got, err := fs.Canonicalize(m.Path(filepath.Join(base, "sub", "..")))
	require.NoError(t, err)

	want, err := fs.Canonicalize(m.Path(base))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.True(t, filepath.IsAbs(string(got)))
}

func TestLocalProjectFS_CanonicalizeResolvesSymlinks(t *testing.T) {
	fs := NewLocalProjectFS()
	base := t.TempDir()

	real := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(real, 0o755))

	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(real, link))

	got, err := fs.Canonicalize(m.Path(link))
	require.NoError(t, err)

	want, err := fs.Canonicalize(m.Path(real))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLocalProjectFS_CanonicalizeMissingPath(t *testing.T) {
	fs := NewLocalProjectFS()
	base := t.TempDir()

	got, err := fs.Canonicalize(m.Path(filepath.Join(base, "missing", "deeper")))
	require.NoError(t, err)

	canonBase, err := fs.Canonicalize(m.Path(base))
	require.NoError(t, err)
	require.Equal(t, m.Path(filepath.Join(string(canonBase), "missing", "deeper")), got)
}

func TestLocalProjectFS_CanonicalizeEscapingRelativeSegments(t *testing.T) {
	fs := NewLocalProjectFS()
	base := t.TempDir()

	outside := filepath.Join(base, "outside")
	require.NoError(t, os.Mkdir(outside, 0o755))

	got, err := fs.Canonicalize(m.Path(filepath.Join(base, "proj", "..", "outside")))
	require.NoError(t, err)

	want, err := fs.Canonicalize(m.Path(outside))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLocalProjectFS_Predicates(t *testing.T) {
	fs := NewLocalProjectFS()
	base := t.TempDir()

	dir := filepath.Join(base, "dir")
	require.NoError(t, os.Mkdir(dir, 0o755))

	file := filepath.Join(base, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	require.True(t, fs.Exists(m.Path(dir)))
	require.True(t, fs.Exists(m.Path(file)))
	require.False(t, fs.Exists(m.Path(filepath.Join(base, "nope"))))

	require.True(t, fs.IsDir(m.Path(dir)))
	require.False(t, fs.IsDir(m.Path(file)))

	require.True(t, fs.FileExists(m.Path(file)))
	require.False(t, fs.FileExists(m.Path(dir)))
}

func TestLocalProjectFS_WriteFile(t *testing.T) {
	fs := NewLocalProjectFS()
	base := t.TempDir()

	path := fs.Join(base, "pyrightconfig.json")
	require.NoError(t, fs.WriteFile(path, []byte(`{}`), 0o644))

	content, err := os.ReadFile(string(path))
	require.NoError(t, err)
	require.Equal(t, `{}`, string(content))
}

func TestLocalProjectFS_Join(t *testing.T) {
	fs := NewLocalProjectFS()
	require.Equal(t, m.Path(filepath.Join("a", "b", "c")), fs.Join("a", "b", "c"))
}
