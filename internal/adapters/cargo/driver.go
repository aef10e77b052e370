// Package cargo implements ports.Resolver by shelling out to the cargo
// binary: `cargo update` re-derives a lock snapshot, `cargo metadata`
// exposes the resolved dependency graph.
package cargo

import (
	"context"
	"os/exec"
	"strings"

	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/internal/core/domain"
	"github.com/pombredanne/cargo-outdated/internal/core/ports"
)

// Driver runs the cargo binary. The zero value is not usable; use NewDriver.
type Driver struct {
	logger ports.Logger
	bin    string
}

// NewDriver creates a Driver that invokes "cargo" from PATH.
func NewDriver(logger ports.Logger) *Driver {
	return &Driver{logger: logger, bin: "cargo"}
}

// UpdateLockfile runs `cargo update` against the project's root manifest.
// This hits the network and can be slow; there is no timeout beyond whatever
// the context carries.
func (d *Driver) UpdateLockfile(ctx context.Context, manifestPath string) error {
	d.logger.Debug("running cargo update", "manifest_path", manifestPath)

	cmd := exec.CommandContext(ctx, d.bin, "update", "--manifest-path", manifestPath) //nolint:gosec // fixed binary, path from our own scratch tree
	out, err := cmd.CombinedOutput()
	if err != nil {
		return zerr.With(zerr.With(domain.ErrUpdateFailed,
			"manifest_path", manifestPath),
			"output", strings.TrimSpace(string(out)))
	}
	return nil
}

// Resolve runs `cargo metadata` and converts its JSON output into a resolved
// graph. The project itself is not modified; resolution reuses the lock
// snapshot next to the manifest when one exists.
func (d *Driver) Resolve(ctx context.Context, manifestPath string, opts ports.ResolveOptions) (*domain.ResolvedGraph, error) {
	args := metadataArgs(manifestPath, opts)
	d.logger.Debug("running cargo metadata", "manifest_path", manifestPath)

	cmd := exec.CommandContext(ctx, d.bin, args...) //nolint:gosec // fixed binary, args built above
	output, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return nil, zerr.With(zerr.With(zerr.Wrap(err, "cargo metadata failed"),
			"manifest_path", manifestPath),
			"stderr", stderr)
	}

	graph, err := parseMetadata(output)
	if err != nil {
		return nil, zerr.With(err, "manifest_path", manifestPath)
	}
	return graph, nil
}

// metadataArgs builds the cargo metadata invocation for the given feature
// selection. The flags mirror cargo's own: --features takes a single
// comma-separated value, --all-features and --no-default-features are
// toggles.
func metadataArgs(manifestPath string, opts ports.ResolveOptions) []string {
	args := []string{"metadata", "--format-version", "1", "--manifest-path", manifestPath}
	if opts.AllFeatures {
		args = append(args, "--all-features")
	}
	if opts.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if len(opts.Features) > 0 {
		args = append(args, "--features", strings.Join(opts.Features, ","))
	}
	return args
}
