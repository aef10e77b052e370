package ports

import (
	"context"

	"github.com/pombredanne/cargo-outdated/internal/core/domain"
)

// ResolveOptions carries the feature-selection flags forwarded to the
// external resolver. Features, AllFeatures and NoDefaultFeatures are
// mutually exclusive; the CLI enforces that before anything reaches here.
type ResolveOptions struct {
	// Features is an explicit list of features to enable.
	Features []string

	// AllFeatures enables every feature of every package.
	AllFeatures bool

	// NoDefaultFeatures disables the implicit "default" feature.
	NoDefaultFeatures bool
}

// Resolver is the external dependency-resolution capability. The production
// implementation shells out to the cargo binary; tests substitute mocks.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve produces the resolved dependency graph for the project whose
	// root manifest is at manifestPath. It does not modify the project.
	Resolve(ctx context.Context, manifestPath string, opts ResolveOptions) (*domain.ResolvedGraph, error)

	// UpdateLockfile re-derives the project's lock state from its (possibly
	// rewritten) manifests. This is a slow out-of-process operation; a
	// non-zero exit surfaces as domain.ErrUpdateFailed with the tool's
	// diagnostic output attached.
	UpdateLockfile(ctx context.Context, manifestPath string) error
}
