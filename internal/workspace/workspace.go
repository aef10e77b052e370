// Package workspace discovers a project's workspace members and materializes
// isolated scratch copies of them for re-resolution.
package workspace

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/internal/manifest"
)

// ManifestName is the file name of a package manifest.
const ManifestName = "Cargo.toml"

// LockfileName is the file name of the lock snapshot next to a root manifest.
const LockfileName = "Cargo.lock"

// Member is one workspace member: the directory it lives in and its parsed
// manifest.
type Member struct {
	// Dir is the absolute directory containing the member's manifest.
	Dir string

	// Manifest is the member's parsed manifest document.
	Manifest *manifest.Document
}

// ManifestPath returns the path of the member's manifest file.
func (m Member) ManifestPath() string {
	return filepath.Join(m.Dir, ManifestName)
}

// Workspace is the set of packages sharing one dependency resolution. A
// single-package project is a workspace with one member. The workspace is
// read-only: nothing here ever writes into its directories.
type Workspace struct {
	rootDir string
	members []Member
}

// Load reads the root manifest at rootManifest and collects the workspace
// members: the root package itself (when the manifest declares one) plus
// every directory matched by the [workspace] members list.
func Load(rootManifest string) (*Workspace, error) {
	rootManifest, err := filepath.Abs(rootManifest)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve manifest path"), "path", rootManifest)
	}

	doc, err := manifest.LoadFile(rootManifest)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{rootDir: filepath.Dir(rootManifest)}
	if doc.Package != nil {
		ws.members = append(ws.members, Member{Dir: ws.rootDir, Manifest: doc})
	}

	for _, dir := range memberDirs(doc, ws.rootDir) {
		if dir == ws.rootDir {
			continue
		}
		memberManifest := filepath.Join(dir, ManifestName)
		memberDoc, err := manifest.LoadFile(memberManifest)
		if err != nil {
			return nil, err
		}
		ws.members = append(ws.members, Member{Dir: dir, Manifest: memberDoc})
	}

	return ws, nil
}

// FindRootManifest walks from dir upward until it finds a manifest file.
func FindRootManifest(dir string) (string, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}

	for current := start; ; {
		candidate := filepath.Join(current, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(zerr.New("could not find "+ManifestName+" in this directory or any parent"), "start", start)
		}
		current = parent
	}
}

// Root returns the absolute workspace root directory.
func (w *Workspace) Root() string {
	return w.rootDir
}

// RootManifest returns the path of the workspace's root manifest.
func (w *Workspace) RootManifest() string {
	return filepath.Join(w.rootDir, ManifestName)
}

// Members returns the workspace members. The root package, when present, is
// first.
func (w *Workspace) Members() []Member {
	return w.members
}

// memberDirs expands the [workspace] members list relative to rootDir.
// Entries may contain glob patterns; entries that match nothing are skipped,
// matching the resolver's own lenient handling.
func memberDirs(doc *manifest.Document, rootDir string) []string {
	if doc.Workspace == nil {
		return nil
	}
	raw, ok := doc.Workspace["members"].([]any)
	if !ok {
		return nil
	}

	var dirs []string
	for _, entry := range raw {
		pattern, ok := entry.(string)
		if !ok {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(rootDir, pattern))
		if err != nil {
			continue
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.IsDir() {
				dirs = append(dirs, match)
			}
		}
	}
	return dirs
}
