package domain

import (
	"slices"
	"strings"
)

// PackageID identifies one resolved package: its name, the exact version the
// resolver settled on, and the source it was resolved from (registry URL,
// git URL, or empty for path dependencies). Two packages with the same name
// but different versions or sources are distinct nodes in a resolved graph.
type PackageID struct {
	// Name is the package name as declared in its manifest.
	Name string

	// Version is the exact resolved version string (e.g. "1.2.0").
	Version string

	// Source identifies where the package was resolved from.
	Source string
}

// ResolvedGraph is the output of one dependency resolution: the set of
// resolved packages and their "depends on" edges, rooted at the top-level
// project. It is read-only once built; the differ only ever walks it.
type ResolvedGraph struct {
	root    PackageID
	hasRoot bool
	members []PackageID
	deps    map[PackageID][]PackageID
	nodes   map[PackageID]struct{}
}

// NewResolvedGraph creates an empty ResolvedGraph.
func NewResolvedGraph() *ResolvedGraph {
	return &ResolvedGraph{
		deps:  make(map[PackageID][]PackageID),
		nodes: make(map[PackageID]struct{}),
	}
}

// AddPackage registers a resolved package node. Adding the same identity
// twice is a no-op.
func (g *ResolvedGraph) AddPackage(id PackageID) {
	g.nodes[id] = struct{}{}
}

// AddDependency records a "from depends on to" edge. Both endpoints are
// registered as nodes.
func (g *ResolvedGraph) AddDependency(from, to PackageID) {
	g.AddPackage(from)
	g.AddPackage(to)
	g.deps[from] = append(g.deps[from], to)
}

// SetRoot marks the distinguished root node of the graph.
func (g *ResolvedGraph) SetRoot(id PackageID) {
	g.AddPackage(id)
	g.root = id
	g.hasRoot = true
}

// Root returns the distinguished root node, if the resolution has one.
// Virtual workspaces resolve without a single root; callers then traverse
// from Members instead.
func (g *ResolvedGraph) Root() (PackageID, bool) {
	return g.root, g.hasRoot
}

// AddMember registers a workspace member package.
func (g *ResolvedGraph) AddMember(id PackageID) {
	g.AddPackage(id)
	g.members = append(g.members, id)
}

// Members returns the workspace member packages in registration order.
func (g *ResolvedGraph) Members() []PackageID {
	return g.members
}

// Contains reports whether the graph has a node with the given identity.
func (g *ResolvedGraph) Contains(id PackageID) bool {
	_, ok := g.nodes[id]
	return ok
}

// DependenciesOf returns the direct dependencies of the given node, sorted
// by name then version for deterministic traversal. The resolver's edge
// order carries no meaning.
func (g *ResolvedGraph) DependenciesOf(id PackageID) []PackageID {
	edges := g.deps[id]
	if len(edges) == 0 {
		return nil
	}
	sorted := make([]PackageID, len(edges))
	copy(sorted, edges)
	slices.SortFunc(sorted, func(a, b PackageID) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})
	return sorted
}

// FindByName returns the node with the given package name, preferring
// workspace members and falling back to any node, in name order. Used to
// honor an explicit root selection.
func (g *ResolvedGraph) FindByName(name string) (PackageID, bool) {
	for _, m := range g.members {
		if m.Name == name {
			return m, true
		}
	}
	all := make([]PackageID, 0, len(g.nodes))
	for id := range g.nodes {
		all = append(all, id)
	}
	slices.SortFunc(all, func(a, b PackageID) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Version, b.Version)
	})
	for _, id := range all {
		if id.Name == name {
			return id, true
		}
	}
	return PackageID{}, false
}
