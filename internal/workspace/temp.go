package workspace

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/internal/manifest"
)

// probeBinSource is the placeholder entry point written next to each
// rewritten manifest so the resolver sees a buildable package.
const probeBinSource = "fn main() {}\n"

// TempProject is an isolated scratch copy of a workspace: every member's
// manifest (and lock snapshot, when present) mirrored under a fresh
// uniquely-named temporary directory. The copy is mutated in place by the
// policy rewriter and discarded with Close; the original workspace is never
// written to.
type TempProject struct {
	ws  *Workspace
	dir string
}

// NewTempProject materializes ws into a new scratch directory. On any copy
// failure the partially-built directory is removed before returning.
func NewTempProject(ws *Workspace) (*TempProject, error) {
	dir, err := os.MkdirTemp("", "cargo-outdated-")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create scratch directory")
	}

	tp := &TempProject{ws: ws, dir: dir}
	if err := tp.mirror(); err != nil {
		_ = tp.Close()
		return nil, err
	}
	return tp, nil
}

// mirror copies every member's manifest and optional lock snapshot into the
// scratch tree, preserving each member's path relative to the workspace root.
func (t *TempProject) mirror() error {
	for _, member := range t.ws.Members() {
		dest, err := t.memberDir(member)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create scratch member directory"), "path", dest)
		}
		if err := copyFile(member.ManifestPath(), filepath.Join(dest, ManifestName)); err != nil {
			return err
		}

		lock := filepath.Join(member.Dir, LockfileName)
		if _, err := os.Stat(lock); err == nil {
			if err := copyFile(lock, filepath.Join(dest, LockfileName)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteManifests rewrites every member manifest in the scratch tree under the
// given policy and writes the placeholder source files the rewritten targets
// point at.
func (t *TempProject) WriteManifests(policy manifest.Policy) error {
	for _, member := range t.ws.Members() {
		dest, err := t.memberDir(member)
		if err != nil {
			return err
		}

		rewritten := manifest.Rewrite(member.Manifest, policy)
		if err := rewritten.SaveFile(filepath.Join(dest, ManifestName)); err != nil {
			return err
		}

		probe := filepath.Join(dest, manifest.ProbeBinFile)
		if err := os.WriteFile(probe, []byte(probeBinSource), 0o644); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write probe source"), "path", probe)
		}
		if rewritten.HasLib() {
			lib := filepath.Join(dest, manifest.ProbeLibFile)
			if err := os.WriteFile(lib, nil, 0o644); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to write probe source"), "path", lib)
			}
		}
	}
	return nil
}

// Dir returns the scratch root directory.
func (t *TempProject) Dir() string {
	return t.dir
}

// RootManifest returns the scratch copy's root manifest path, derived from
// the scratch root rather than the original project.
func (t *TempProject) RootManifest() string {
	return filepath.Join(t.dir, ManifestName)
}

// Close removes the scratch tree. Safe to call more than once.
func (t *TempProject) Close() error {
	if t.dir == "" {
		return nil
	}
	dir := t.dir
	t.dir = ""
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove scratch directory"), "path", dir)
	}
	return nil
}

// memberDir maps a member's directory to its mirror under the scratch root.
func (t *TempProject) memberDir(member Member) (string, error) {
	rel, err := filepath.Rel(t.ws.Root(), member.Dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "member is outside the workspace root"), "member_dir", member.Dir)
	}
	return filepath.Join(t.dir, rel), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // paths derive from the user's workspace
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file for copying"), "path", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) //nolint:gosec // destination is our own scratch tree
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file copy"), "path", dst)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	return nil
}
