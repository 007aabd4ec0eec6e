package builder

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/fs"
	"github.com/thought-machine/hackbuild/src/process"
)

// markerFilename is the empty file LibraryBuilder creates at every
// level of a first-party library's package hierarchy, the way the
// Python original's plugin marks a directory as an importable package.
const markerFilename = "__init__.py"

// LibraryBuilder builds a first-party source library: it mirrors the
// target's declared files into the source tree and lays down package
// markers.
type LibraryBuilder struct {
	Base
}

// NewLibraryBuilder constructs a first-party LibraryBuilder for target.
func NewLibraryBuilder(target *core.BuildTarget) core.Builder {
	return &LibraryBuilder{Base{target: target}}
}

// Role reports RoleLibrary.
func (b *LibraryBuilder) Role() core.Role { return core.RoleLibrary }

// DoCreateSourceTreeWork mirrors the target's declared source and data
// files from its working copy directory into its source directory,
// then creates package-marker files down to and throughout the
// target's declared package subdirectories.
func (b *LibraryBuilder) DoCreateSourceTreeWork(bs *core.BuildSession) error {
	target := b.Target()
	attrs := target.Library
	if attrs == nil {
		return nil
	}

	for _, f := range append(append([]string{}, attrs.Files...), attrs.Data...) {
		src := filepath.Join(target.Layout.WorkingCopyDir, f)
		dest := filepath.Join(target.Layout.SourceDir, f)
		if err := fs.MirrorFile(src, dest); err != nil {
			return err
		}
	}
	return b.writePackageMarkers(bs)
}

// writePackageMarkers creates markerFilename at every directory level
// from the source root down to the target's own directory, and within
// every package subdirectory the target declares, wherever one doesn't
// already exist.
func (b *LibraryBuilder) writePackageMarkers(bs *core.BuildSession) error {
	target := b.Target()
	srcRoot := filepath.Join(bs.RepoRoot, core.SrcRoot)
	rel := target.ID.RepoRelPath()

	dir := srcRoot
	if err := ensureMarker(dir); err != nil {
		return err
	}
	if rel != "." {
		for _, part := range strings.Split(rel, "/") {
			dir = filepath.Join(dir, part)
			if err := ensureMarker(dir); err != nil {
				return err
			}
		}
	}

	if target.Library != nil {
		for _, pkg := range target.Library.Packages {
			pkgDir := filepath.Join(target.Layout.SourceDir, filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/")))
			if err := os.MkdirAll(pkgDir, 0755); err != nil && !os.IsExist(err) {
				return &core.FilesystemError{Op: "mkdir", Path: pkgDir, Err: err}
			}
			if err := ensureMarker(pkgDir); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureMarker(dir string) error {
	marker := filepath.Join(dir, markerFilename)
	if _, err := os.Stat(marker); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &core.FilesystemError{Op: "stat", Path: marker, Err: err}
	}
	if err := os.WriteFile(marker, nil, 0644); err != nil {
		return &core.FilesystemError{Op: "write marker", Path: marker, Err: err}
	}
	return nil
}

// ThirdPartyLibraryBuilder builds a vendored library: it mirrors the
// whole vendored subdirectory, and runs the vendor's own setup
// procedure inside a dependent binary's build environment when asked.
type ThirdPartyLibraryBuilder struct {
	Base
}

// NewThirdPartyLibraryBuilder constructs a ThirdPartyLibraryBuilder for target.
func NewThirdPartyLibraryBuilder(target *core.BuildTarget) core.Builder {
	return &ThirdPartyLibraryBuilder{Base{target: target}}
}

// Role reports RoleThirdPartyLibrary.
func (b *ThirdPartyLibraryBuilder) Role() core.Role { return core.RoleThirdPartyLibrary }

// DoCreateSourceTreeWork mirrors the entire vendored subdirectory into
// the target's source directory.
func (b *ThirdPartyLibraryBuilder) DoCreateSourceTreeWork(bs *core.BuildSession) error {
	target := b.Target()
	if target.ThirdPartyLibrary == nil {
		return nil
	}
	vendorDir := filepath.Join(bs.RepoRoot, target.ThirdPartyLibrary.VendorDir)
	return fs.Mirror(vendorDir, target.Layout.SourceDir)
}

// DoLibraryInstall runs the vendored library's own setup.py install
// inside binary's virtual environment, implementing core.LibraryInstallHook.
func (b *ThirdPartyLibraryBuilder) DoLibraryInstall(bs *core.BuildSession, binary core.Builder) error {
	venvPython := filepath.Join(binary.Target().Layout.BuildDir, "python_virtualenv", "bin", "python")
	_, _, err := process.Run(context.Background(), []string{venvPython, "setup.py", "install"}, b.Target().Layout.SourceDir)
	return err
}
