// Package app implements the outdated-check use case: resolve the workspace
// three ways and stream the aligned differences.
package app

import (
	"context"

	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/internal/core/domain"
	"github.com/pombredanne/cargo-outdated/internal/core/ports"
	"github.com/pombredanne/cargo-outdated/internal/engine/differ"
	"github.com/pombredanne/cargo-outdated/internal/manifest"
	"github.com/pombredanne/cargo-outdated/internal/workspace"
)

// App wires the workspace, the resolver and the differ together.
type App struct {
	resolver ports.Resolver
	logger   ports.Logger
}

// New creates a new App instance.
func New(resolver ports.Resolver, logger ports.Logger) *App {
	return &App{
		resolver: resolver,
		logger:   logger,
	}
}

// Options carries one run's settings, mapped straight from the CLI flags.
type Options struct {
	// Workdir is where manifest discovery starts when ManifestPath is empty.
	Workdir string

	// ManifestPath is an explicit root manifest location, skipping discovery.
	ManifestPath string

	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool

	// Packages restricts the report to the named packages.
	Packages []string

	// Root names the package to treat as the traversal root.
	Root string

	// Depth limits traversal depth; 0 means unlimited.
	Depth int
}

// Run executes one comparison: the current workspace is resolved as-is, two
// isolated copies are materialized, rewritten and re-resolved under the
// compatible and latest policies, and the three graphs are walked root by
// root. Drift records are streamed to emit in pre-order. Any failure,
// including a failed lockfile update on either policy branch, aborts the
// whole run.
func (a *App) Run(ctx context.Context, opts Options, emit func(domain.DriftRecord)) error {
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		var err error
		manifestPath, err = workspace.FindRootManifest(opts.Workdir)
		if err != nil {
			return err
		}
	}

	ws, err := workspace.Load(manifestPath)
	if err != nil {
		return err
	}

	ropts := ports.ResolveOptions{
		Features:          opts.Features,
		AllFeatures:       opts.AllFeatures,
		NoDefaultFeatures: opts.NoDefaultFeatures,
	}

	a.logger.Debug("resolving current workspace", "manifest_path", ws.RootManifest())
	curr, err := a.resolver.Resolve(ctx, ws.RootManifest(), ropts)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve current workspace")
	}

	compat, err := a.resolveUnderPolicy(ctx, ws, manifest.PolicyCompatible, ropts)
	if err != nil {
		return err
	}
	latest, err := a.resolveUnderPolicy(ctx, ws, manifest.PolicyLatest, ropts)
	if err != nil {
		return err
	}

	roots, err := traversalRoots(curr, opts.Root)
	if err != nil {
		return err
	}

	d := differ.New(differ.Options{
		MaxDepth: opts.Depth,
		Packages: opts.Packages,
	})
	for _, root := range roots {
		d.Compare(
			curr, root,
			compat, rootFor(compat, root.Name),
			latest, rootFor(latest, root.Name),
			emit,
		)
	}
	return nil
}

// resolveUnderPolicy materializes an isolated copy of the workspace,
// rewrites its manifests under the given policy, re-derives its lock
// snapshot and resolves it. The scratch tree is removed before returning on
// every path; the graph lives on in memory.
func (a *App) resolveUnderPolicy(
	ctx context.Context,
	ws *workspace.Workspace,
	policy manifest.Policy,
	ropts ports.ResolveOptions,
) (*domain.ResolvedGraph, error) {
	tmp, err := workspace.NewTempProject(ws)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tmp.Close(); err != nil {
			a.logger.Error(err)
		}
	}()

	a.logger.Debug("materialized scratch project",
		"policy", policy.String(), "dir", tmp.Dir())

	if err := tmp.WriteManifests(policy); err != nil {
		return nil, err
	}
	if err := a.resolver.UpdateLockfile(ctx, tmp.RootManifest()); err != nil {
		return nil, zerr.With(err, "policy", policy.String())
	}

	graph, err := a.resolver.Resolve(ctx, tmp.RootManifest(), ropts)
	if err != nil {
		return nil, zerr.With(err, "policy", policy.String())
	}
	return graph, nil
}

// traversalRoots picks the roots to walk from: the explicitly requested
// package, the resolution's distinguished root, or every workspace member of
// a virtual workspace, in that order of preference.
func traversalRoots(curr *domain.ResolvedGraph, rootName string) ([]domain.PackageID, error) {
	if rootName != "" {
		root, ok := curr.FindByName(rootName)
		if !ok {
			return nil, zerr.With(domain.ErrNoRootPackage, "root", rootName)
		}
		return []domain.PackageID{root}, nil
	}
	if root, ok := curr.Root(); ok {
		return []domain.PackageID{root}, nil
	}
	members := curr.Members()
	if len(members) == 0 {
		return nil, domain.ErrNoRootPackage
	}
	return members, nil
}

// rootFor aligns a traversal root into another graph by package name,
// returning nil when the package is absent from that resolution.
func rootFor(graph *domain.ResolvedGraph, name string) *domain.PackageID {
	if id, ok := graph.FindByName(name); ok {
		return &id
	}
	return nil
}
