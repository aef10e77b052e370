package manifest_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/cargo-outdated/internal/core/domain"
	"github.com/pombredanne/cargo-outdated/internal/manifest"
)

const sampleManifest = `
[package]
name = "demo"
version = "0.1.0"
authors = ["someone"]

[dependencies]
plain = "1.0.0"
tabled = { version = "0.5", features = ["x"], optional = true }

[dev-dependencies]
checker = "2"

[build-dependencies]
gen = "0.3"

[lib]
name = "demo"

[[bin]]
name = "demo"
path = "src/main.rs"

[target.'cfg(windows)'.dependencies]
winonly = "0.2"

[profile.release]
lto = true

[features]
default = []
`

func TestParse(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest), "Cargo.toml")
	require.NoError(t, err)

	name, ok := doc.PackageName()
	require.True(t, ok)
	assert.Equal(t, "demo", name)

	assert.Equal(t, "1.0.0", doc.Dependencies["plain"])
	tabled, ok := doc.Dependencies["tabled"].(map[string]any)
	require.True(t, ok, "table spec should parse as a table")
	assert.Equal(t, "0.5", tabled["version"])

	assert.Contains(t, doc.DevDependencies, "checker")
	assert.Contains(t, doc.BuildDependencies, "gen")
	assert.True(t, doc.HasLib())
	require.Len(t, doc.Bin, 1)
	assert.Equal(t, "demo", doc.Bin[0]["name"])

	// Unmodeled sections ride along in Extra.
	assert.Contains(t, doc.Extra, "profile")
	assert.Contains(t, doc.Extra, "features")
	assert.NotContains(t, doc.Extra, "package")
}

func TestParse_MissingPackage(t *testing.T) {
	_, err := manifest.Parse([]byte("[dependencies]\nfoo = \"1\"\n"), "Cargo.toml")
	if !errors.Is(err, domain.ErrMalformedManifest) {
		t.Fatalf("expected ErrMalformedManifest, got %v", err)
	}
}

func TestParse_VirtualWorkspace(t *testing.T) {
	doc, err := manifest.Parse([]byte("[workspace]\nmembers = [\"a\"]\n"), "Cargo.toml")
	require.NoError(t, err)
	_, ok := doc.PackageName()
	assert.False(t, ok)
	assert.NotNil(t, doc.Workspace)
}

func TestParse_InvalidSpec(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"integer spec", "[package]\nname = \"x\"\n\n[dependencies]\nfoo = 42\n"},
		{"array spec", "[package]\nname = \"x\"\n\n[dev-dependencies]\nfoo = [\"1\"]\n"},
		{"target integer spec", "[package]\nname = \"x\"\n\n[target.'cfg(unix)'.dependencies]\nfoo = true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.data), "Cargo.toml")
			if !errors.Is(err, domain.ErrInvalidPackageSpec) {
				t.Fatalf("expected ErrInvalidPackageSpec, got %v", err)
			}
		})
	}
}

func TestParse_Garbage(t *testing.T) {
	_, err := manifest.Parse([]byte("= not toml ="), "Cargo.toml")
	require.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest), "Cargo.toml")
	require.NoError(t, err)

	data, err := doc.Marshal()
	require.NoError(t, err)

	again, err := manifest.Parse(data, "Cargo.toml")
	require.NoError(t, err)

	assert.Equal(t, doc.Package, again.Package)
	assert.Equal(t, doc.Dependencies, again.Dependencies)
	assert.Equal(t, doc.DevDependencies, again.DevDependencies)
	assert.Equal(t, doc.BuildDependencies, again.BuildDependencies)
	assert.Equal(t, doc.Lib, again.Lib)
	assert.Equal(t, doc.Bin, again.Bin)
	assert.Equal(t, doc.Target, again.Target)
	assert.Equal(t, doc.Extra, again.Extra)
}

// A grouping mixing bare strings and tables must serialize with the strings
// before the sub-tables, otherwise the strings would re-parse as keys of the
// preceding sub-table.
func TestMarshal_MixedGroupingReparses(t *testing.T) {
	input := `
[package]
name = "demo"
version = "0.1.0"

[dependencies]
zz-plain = "1.0.0"
aa-table = { version = "0.5" }
`
	doc, err := manifest.Parse([]byte(input), "Cargo.toml")
	require.NoError(t, err)

	data, err := doc.Marshal()
	require.NoError(t, err)

	again, err := manifest.Parse(data, "Cargo.toml")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", again.Dependencies["zz-plain"])
	table, ok := again.Dependencies["aa-table"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0.5", table["version"])
}

func TestClone_Independent(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest), "Cargo.toml")
	require.NoError(t, err)

	clone := doc.Clone()
	clone.Dependencies["plain"] = "*"
	clone.Dependencies["tabled"].(map[string]any)["version"] = "*"
	clone.Lib["path"] = "other.rs"

	assert.Equal(t, "1.0.0", doc.Dependencies["plain"])
	assert.Equal(t, "0.5", doc.Dependencies["tabled"].(map[string]any)["version"])
	assert.NotContains(t, doc.Lib, "path")
}
