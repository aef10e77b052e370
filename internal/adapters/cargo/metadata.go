package cargo

import (
	"encoding/json"

	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/internal/core/domain"
)

// Subset of the `cargo metadata --format-version 1` output we consume:
// the package list (identity per opaque ID) and the resolve graph (edges
// between IDs plus the distinguished root, null for virtual workspaces).
type metadataOutput struct {
	Packages         []metadataPackage `json:"packages"`
	WorkspaceMembers []string          `json:"workspace_members"`
	Resolve          *metadataResolve  `json:"resolve"`
}

type metadataPackage struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Version string  `json:"version"`
	Source  *string `json:"source"`
}

type metadataResolve struct {
	Nodes []metadataNode `json:"nodes"`
	Root  *string        `json:"root"`
}

type metadataNode struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies"`
}

// parseMetadata converts cargo metadata JSON into a domain graph. Node IDs
// in the resolve section are opaque strings resolved against the package
// list; an edge pointing at an unlisted ID means the output is inconsistent
// and is reported as an error rather than silently dropped.
func parseMetadata(data []byte) (*domain.ResolvedGraph, error) {
	var meta metadataOutput
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, zerr.Wrap(err, "failed to parse cargo metadata output")
	}
	if meta.Resolve == nil {
		return nil, zerr.New("cargo metadata output has no resolve graph")
	}

	byID := make(map[string]domain.PackageID, len(meta.Packages))
	for _, pkg := range meta.Packages {
		id := domain.PackageID{Name: pkg.Name, Version: pkg.Version}
		if pkg.Source != nil {
			id.Source = *pkg.Source
		}
		byID[pkg.ID] = id
	}

	lookup := func(rawID string) (domain.PackageID, error) {
		id, ok := byID[rawID]
		if !ok {
			return domain.PackageID{}, zerr.With(zerr.New("resolve graph references unknown package"), "id", rawID)
		}
		return id, nil
	}

	graph := domain.NewResolvedGraph()
	for _, node := range meta.Resolve.Nodes {
		from, err := lookup(node.ID)
		if err != nil {
			return nil, err
		}
		graph.AddPackage(from)
		for _, depID := range node.Dependencies {
			to, err := lookup(depID)
			if err != nil {
				return nil, err
			}
			graph.AddDependency(from, to)
		}
	}

	for _, rawID := range meta.WorkspaceMembers {
		member, err := lookup(rawID)
		if err != nil {
			return nil, err
		}
		graph.AddMember(member)
	}

	if meta.Resolve.Root != nil {
		root, err := lookup(*meta.Resolve.Root)
		if err != nil {
			return nil, err
		}
		graph.SetRoot(root)
	}

	return graph, nil
}
