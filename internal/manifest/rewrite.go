package manifest

// Policy selects how a materialized project's manifests are rewritten before
// re-resolution.
type Policy int

const (
	// PolicyCompatible leaves version constraints alone, so resolution stays
	// within the declared compatible ranges.
	PolicyCompatible Policy = iota

	// PolicyLatest additionally relaxes every explicit version constraint to
	// the wildcard, so resolution picks the newest published versions.
	PolicyLatest
)

// String returns the policy name used in logs and scratch paths.
func (p Policy) String() string {
	if p == PolicyLatest {
		return "latest"
	}
	return "compatible"
}

const (
	// ProbeBinName is the synthetic binary target injected into every
	// rewritten manifest. Only the manifests are materialized, not the
	// source tree, so the resolver must be told the project is buildable
	// from a placeholder entry point.
	ProbeBinName = "cargo-outdated-probe"

	// ProbeBinFile is the placeholder entry point the synthetic binary
	// target points at.
	ProbeBinFile = "probe.rs"

	// ProbeLibFile is the placeholder path substituted for a declared
	// library target.
	ProbeLibFile = "probe_lib.rs"

	wildcard = "*"
)

// Rewrite returns a mutated deep copy of doc under the given policy. The
// input document is never modified. Applying the same policy twice yields
// the same document as applying it once.
func Rewrite(doc *Document, policy Policy) *Document {
	out := doc.Clone()

	out.Bin = []map[string]any{{
		"name": ProbeBinName,
		"path": ProbeBinFile,
	}}
	if out.Lib != nil {
		out.Lib["path"] = ProbeLibFile
	}

	if policy == PolicyLatest {
		relaxGrouping(out.Dependencies)
		relaxGrouping(out.DevDependencies)
		relaxGrouping(out.BuildDependencies)
		for _, target := range out.Target {
			table, ok := target.(map[string]any)
			if !ok {
				continue
			}
			for _, key := range groupingKeys {
				if grouping, ok := table[key].(map[string]any); ok {
					relaxGrouping(grouping)
				}
			}
		}
	}

	return out
}

// relaxGrouping replaces every explicit version constraint in a dependency
// grouping with the wildcard. Bare-string specs are replaced wholesale; for
// table specs only the version entry changes, leaving source, features and
// the optional flag untouched. Specs of any other shape were already
// rejected at parse time.
func relaxGrouping(grouping map[string]any) {
	for name, spec := range grouping {
		switch val := spec.(type) {
		case string:
			grouping[name] = wildcard
		case map[string]any:
			if _, ok := val["version"]; ok {
				val["version"] = wildcard
			}
		}
	}
}
