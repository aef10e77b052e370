// Package differ walks the current, semver-compatible and latest resolutions
// of the same project and emits a drift record for every package whose
// version differs or which disappeared under one of the relaxed policies.
package differ

import (
	"github.com/pombredanne/cargo-outdated/internal/core/domain"
)

// Options configures a comparison run.
type Options struct {
	// MaxDepth limits how deep in the dependency chain to compare.
	// 0 means unlimited; 1 compares only the root's direct dependencies.
	MaxDepth int

	// Packages, when non-empty, restricts emission to records for the named
	// packages. Traversal is unaffected.
	Packages []string
}

// Differ aligns and compares three resolved graphs.
type Differ struct {
	maxDepth int
	packages map[string]struct{}
}

// New creates a Differ with the given options.
func New(opts Options) *Differ {
	d := &Differ{maxDepth: opts.MaxDepth}
	if len(opts.Packages) > 0 {
		d.packages = make(map[string]struct{}, len(opts.Packages))
		for _, name := range opts.Packages {
			d.packages[name] = struct{}{}
		}
	}
	return d
}

// Compare walks the current graph depth-first from currRoot, aligning the
// compatible and latest graphs edge by edge, and calls emit for every node
// where at least one branch drifted or was removed. Records arrive in
// pre-order. compatRoot and latestRoot are nil when the root package itself
// is absent from that branch's resolution.
//
// Alignment is by package name: for each current dependency edge, the first
// same-named edge of the aligned node in the other graph is taken. Duplicate
// names among one node's direct dependencies (renames, multiple major
// versions) therefore collapse to the first match in traversal order.
func (d *Differ) Compare(
	curr *domain.ResolvedGraph, currRoot domain.PackageID,
	compat *domain.ResolvedGraph, compatRoot *domain.PackageID,
	latest *domain.ResolvedGraph, latestRoot *domain.PackageID,
	emit func(domain.DriftRecord),
) {
	onPath := make(map[domain.PackageID]struct{})
	d.walk(0, curr, currRoot, compat, compatRoot, latest, latestRoot, onPath, emit)
}

func (d *Differ) walk(
	depth int,
	curr *domain.ResolvedGraph, node domain.PackageID,
	compat *domain.ResolvedGraph, compatNode *domain.PackageID,
	latest *domain.ResolvedGraph, latestNode *domain.PackageID,
	onPath map[domain.PackageID]struct{},
	emit func(domain.DriftRecord),
) {
	record := domain.DriftRecord{
		Name:       node.Name,
		Current:    node.Version,
		Compatible: branchOutcome(node, compatNode),
		Latest:     branchOutcome(node, latestNode),
	}
	if record.HasDrift() && d.selected(node.Name) {
		emit(record)
	}

	if d.maxDepth > 0 && depth+1 > d.maxDepth {
		return
	}

	// The resolver's contract promises an acyclic graph at package-version
	// granularity. The on-path guard makes recursion bounded even if that
	// promise is broken, without deduplicating packages reached via
	// different paths.
	if _, visiting := onPath[node]; visiting {
		return
	}
	onPath[node] = struct{}{}
	defer delete(onPath, node)

	for _, dep := range curr.DependenciesOf(node) {
		nextCompat := alignByName(dep.Name, compat, compatNode)
		nextLatest := alignByName(dep.Name, latest, latestNode)
		d.walk(depth+1, curr, dep, compat, nextCompat, latest, nextLatest, onPath, emit)
	}
}

// branchOutcome classifies one branch's node against the current one.
func branchOutcome(current domain.PackageID, node *domain.PackageID) domain.Branch {
	if node == nil {
		return domain.Branch{Status: domain.BranchRemoved}
	}
	if node.Version != current.Version {
		return domain.Branch{Status: domain.BranchDrifted, Version: node.Version}
	}
	return domain.Branch{Status: domain.BranchUnchanged, Version: node.Version}
}

// alignByName finds the direct dependency of parent named name in graph.
// A nil parent (the package was already removed higher up the chain) aligns
// to nil.
func alignByName(name string, graph *domain.ResolvedGraph, parent *domain.PackageID) *domain.PackageID {
	if graph == nil || parent == nil {
		return nil
	}
	for _, dep := range graph.DependenciesOf(*parent) {
		if dep.Name == name {
			return &dep
		}
	}
	return nil
}

func (d *Differ) selected(name string) bool {
	if d.packages == nil {
		return true
	}
	_, ok := d.packages[name]
	return ok
}
