// Package manifest implements a typed view over Cargo.toml documents and the
// version-policy rewrites applied to them.
package manifest

import (
	"maps"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/internal/core/domain"
)

// Top-level manifest keys lifted into Document fields. Everything else is
// kept verbatim in Extra so a parse/serialize cycle loses nothing.
const (
	keyPackage   = "package"
	keyDeps      = "dependencies"
	keyDevDeps   = "dev-dependencies"
	keyBuildDeps = "build-dependencies"
	keyLib       = "lib"
	keyBin       = "bin"
	keyWorkspace = "workspace"
	keyTarget    = "target"
)

// groupingKeys are the dependency grouping table names, in manifest order.
var groupingKeys = []string{keyDeps, keyDevDeps, keyBuildDeps}

// Document is a typed view over one parsed manifest. The known sections are
// lifted into fields; unrecognized top-level keys ride along in Extra and
// reappear on serialization. Values inside each section are the raw TOML
// shapes (string, map[string]any, []any) so attributes the rewriter does not
// know about pass through untouched.
type Document struct {
	Package           map[string]any
	Dependencies      map[string]any
	DevDependencies   map[string]any
	BuildDependencies map[string]any
	Lib               map[string]any
	Bin               []map[string]any
	Workspace         map[string]any
	Target            map[string]any
	Extra             map[string]any
}

// Parse parses manifest data into a Document. path is only used for error
// metadata. A manifest with neither a [package] nor a [workspace] section is
// malformed, as is any dependency specification that is neither a bare
// version string nor a table.
func Parse(data []byte, path string) (*Document, error) {
	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path)
	}

	doc := &Document{Extra: make(map[string]any)}
	for key, val := range root {
		var err error
		switch key {
		case keyPackage:
			doc.Package, err = asTable(val, key, path)
		case keyDeps:
			doc.Dependencies, err = asTable(val, key, path)
		case keyDevDeps:
			doc.DevDependencies, err = asTable(val, key, path)
		case keyBuildDeps:
			doc.BuildDependencies, err = asTable(val, key, path)
		case keyLib:
			doc.Lib, err = asTable(val, key, path)
		case keyBin:
			doc.Bin, err = asTableArray(val, key, path)
		case keyWorkspace:
			doc.Workspace, err = asTable(val, key, path)
		case keyTarget:
			doc.Target, err = asTable(val, key, path)
		default:
			doc.Extra[key] = val
		}
		if err != nil {
			return nil, err
		}
	}

	if doc.Package == nil && doc.Workspace == nil {
		return nil, zerr.With(zerr.With(domain.ErrMalformedManifest,
			"path", path),
			"reason", "missing [package] section")
	}

	if err := doc.validateSpecs(path); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadFile reads and parses the manifest at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}
	return Parse(data, path)
}

// Marshal serializes the document back to TOML.
//
// TOML requires plain key/value entries of a table to appear before its
// sub-tables, otherwise they would be re-parsed as belonging to the
// sub-table. go-toml's encoder emits non-table values first within each
// table, so a grouping mixing bare-string and table dependency specs
// round-trips unambiguously.
func (d *Document) Marshal() ([]byte, error) {
	root := make(map[string]any, len(d.Extra)+8)
	maps.Copy(root, d.Extra)
	if d.Package != nil {
		root[keyPackage] = d.Package
	}
	if d.Dependencies != nil {
		root[keyDeps] = d.Dependencies
	}
	if d.DevDependencies != nil {
		root[keyDevDeps] = d.DevDependencies
	}
	if d.BuildDependencies != nil {
		root[keyBuildDeps] = d.BuildDependencies
	}
	if d.Lib != nil {
		root[keyLib] = d.Lib
	}
	if d.Bin != nil {
		root[keyBin] = d.Bin
	}
	if d.Workspace != nil {
		root[keyWorkspace] = d.Workspace
	}
	if d.Target != nil {
		root[keyTarget] = d.Target
	}

	data, err := toml.Marshal(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to serialize manifest")
	}
	return data, nil
}

// SaveFile serializes the document and writes it to path.
func (d *Document) SaveFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // manifest is not sensitive
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", path)
	}
	return nil
}

// PackageName returns the declared package name, if the manifest has one.
func (d *Document) PackageName() (string, bool) {
	if d.Package == nil {
		return "", false
	}
	name, ok := d.Package["name"].(string)
	return name, ok && name != ""
}

// HasLib reports whether the manifest declares a [lib] target.
func (d *Document) HasLib() bool {
	return d.Lib != nil
}

// Clone returns a deep copy. The rewriter mutates the copy so the document
// loaded from the user's project is never touched.
func (d *Document) Clone() *Document {
	out := &Document{
		Package:           cloneTable(d.Package),
		Dependencies:      cloneTable(d.Dependencies),
		DevDependencies:   cloneTable(d.DevDependencies),
		BuildDependencies: cloneTable(d.BuildDependencies),
		Lib:               cloneTable(d.Lib),
		Workspace:         cloneTable(d.Workspace),
		Target:            cloneTable(d.Target),
		Extra:             cloneTable(d.Extra),
	}
	if d.Bin != nil {
		out.Bin = make([]map[string]any, len(d.Bin))
		for i, b := range d.Bin {
			out.Bin[i] = cloneTable(b)
		}
	}
	return out
}

// validateSpecs rejects dependency specifications that are neither a bare
// version string nor a table, across all groupings and per-target overrides.
func (d *Document) validateSpecs(path string) error {
	for _, grouping := range []map[string]any{d.Dependencies, d.DevDependencies, d.BuildDependencies} {
		if err := validateGrouping(grouping, path); err != nil {
			return err
		}
	}
	for _, target := range d.Target {
		table, ok := target.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range groupingKeys {
			grouping, ok := table[key].(map[string]any)
			if !ok {
				continue
			}
			if err := validateGrouping(grouping, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateGrouping(grouping map[string]any, path string) error {
	for name, spec := range grouping {
		switch spec.(type) {
		case string, map[string]any:
		default:
			return zerr.With(zerr.With(domain.ErrInvalidPackageSpec,
				"dependency", name),
				"path", path)
		}
	}
	return nil
}

func asTable(val any, key, path string) (map[string]any, error) {
	table, ok := val.(map[string]any)
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrMalformedManifest,
			"path", path),
			"reason", "["+key+"] is not a table")
	}
	return table, nil
}

func asTableArray(val any, key, path string) ([]map[string]any, error) {
	raw, ok := val.([]any)
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrMalformedManifest,
			"path", path),
			"reason", "[["+key+"]] is not an array of tables")
	}
	tables := make([]map[string]any, len(raw))
	for i, entry := range raw {
		table, ok := entry.(map[string]any)
		if !ok {
			return nil, zerr.With(zerr.With(domain.ErrMalformedManifest,
				"path", path),
				"reason", "[["+key+"]] entry is not a table")
		}
		tables[i] = table
	}
	return tables, nil
}

func cloneTable(t map[string]any) map[string]any {
	if t == nil {
		return nil
	}
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneTable(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}
