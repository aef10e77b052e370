package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/cargo-outdated/internal/workspace"
)

// writeFixture lays out a two-member workspace whose root is also a package.
func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "Cargo.toml"), `
[package]
name = "root-pkg"
version = "0.1.0"

[workspace]
members = ["crates/*"]

[dependencies]
shared = "1.0.0"
`)
	writeFile(t, filepath.Join(root, "Cargo.lock"), "# lock\n")
	writeFile(t, filepath.Join(root, "crates", "member-a", "Cargo.toml"), `
[package]
name = "member-a"
version = "0.2.0"

[dependencies]
shared = "1.0.0"
`)
	writeFile(t, filepath.Join(root, "crates", "member-b", "Cargo.toml"), `
[package]
name = "member-b"
version = "0.3.0"
`)
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	root := writeFixture(t)

	ws, err := workspace.Load(filepath.Join(root, "Cargo.toml"))
	require.NoError(t, err)

	members := ws.Members()
	require.Len(t, members, 3)

	names := make([]string, 0, len(members))
	for _, m := range members {
		name, ok := m.Manifest.PackageName()
		require.True(t, ok)
		names = append(names, name)
	}
	assert.Equal(t, "root-pkg", names[0], "root package comes first")
	assert.ElementsMatch(t, []string{"root-pkg", "member-a", "member-b"}, names)
}

func TestLoad_SinglePackage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), "[package]\nname = \"solo\"\nversion = \"1.0.0\"\n")

	ws, err := workspace.Load(filepath.Join(root, "Cargo.toml"))
	require.NoError(t, err)
	require.Len(t, ws.Members(), 1)
	assert.Equal(t, filepath.Join(root, "Cargo.toml"), ws.RootManifest())
}

func TestLoad_MissingManifest(t *testing.T) {
	_, err := workspace.Load(filepath.Join(t.TempDir(), "Cargo.toml"))
	require.Error(t, err)
}

func TestFindRootManifest(t *testing.T) {
	root := writeFixture(t)
	nested := filepath.Join(root, "crates", "member-a")

	// member-a has its own manifest, so discovery stops there.
	found, err := workspace.FindRootManifest(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "Cargo.toml"), found)

	// A directory without a manifest walks up to the workspace root.
	plain := filepath.Join(root, "crates")
	found, err = workspace.FindRootManifest(plain)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Cargo.toml"), found)
}

func TestFindRootManifest_NotFound(t *testing.T) {
	_, err := workspace.FindRootManifest(t.TempDir())
	require.Error(t, err)
}
