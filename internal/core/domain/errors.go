package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedManifest is returned when a manifest cannot be parsed or is
	// missing required structure (no [package] and no [workspace]).
	ErrMalformedManifest = zerr.New("malformed manifest")

	// ErrInvalidPackageSpec is returned when a dependency specification is
	// neither a bare version string nor a table.
	ErrInvalidPackageSpec = zerr.New("dependency spec is neither a string nor a table")

	// ErrUpdateFailed is returned when the external resolver's lockfile
	// update command fails or exits non-zero.
	ErrUpdateFailed = zerr.New("lockfile update failed")

	// ErrNoRootPackage is returned when a traversal root cannot be
	// determined, either because the workspace is virtual and empty or an
	// explicitly requested root package does not exist.
	ErrNoRootPackage = zerr.New("no root package")
)
