package domain

// BranchStatus describes what happened to a package under one of the two
// relaxed resolution policies, relative to the currently locked version.
type BranchStatus int

const (
	// BranchUnchanged means the branch resolved the same version as current.
	BranchUnchanged BranchStatus = iota
	// BranchDrifted means the branch resolved a different version.
	BranchDrifted
	// BranchRemoved means the package disappeared from the branch's
	// resolution entirely.
	BranchRemoved
)

// Branch holds one policy branch's outcome for a compared package.
type Branch struct {
	Status BranchStatus

	// Version is the branch's resolved version. Empty when Status is
	// BranchRemoved.
	Version string
}

// Changed reports whether this branch differs from the current resolution.
func (b Branch) Changed() bool {
	return b.Status != BranchUnchanged
}

// DriftRecord is emitted for every traversed package where at least one
// branch drifted or removed the package. Name is the alignment key, not a
// full identity: packages are matched across graphs by name alone.
type DriftRecord struct {
	// Name is the package name the three graphs were aligned on.
	Name string

	// Current is the version resolved in the unmodified project.
	Current string

	// Compatible is the outcome under the semver-compatible policy.
	Compatible Branch

	// Latest is the outcome under the unconstrained policy.
	Latest Branch
}

// HasDrift reports whether either branch changed. Records for which this is
// false are suppressed before emission; the method exists for consumers
// that aggregate records.
func (r DriftRecord) HasDrift() bool {
	return r.Compatible.Changed() || r.Latest.Changed()
}
