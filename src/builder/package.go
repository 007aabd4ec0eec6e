package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/thought-machine/hackbuild/src/core"
)

// PackageBuilder builds a distributable OS package. Format-specific
// metadata generation and the final packager invocation are dispatched
// by target.Package.Format to buildDebianPackage or buildMacOSPackage.
type PackageBuilder struct {
	Base
}

// NewPackageBuilder constructs a PackageBuilder for target.
func NewPackageBuilder(target *core.BuildTarget) core.Builder {
	return &PackageBuilder{Base{target: target}}
}

// Role reports RolePackage.
func (b *PackageBuilder) Role() core.Role { return core.RolePackage }

// FullPackageHierarchyDir is the root of the filesystem hierarchy this
// package assembles before invoking the packager tool, e.g.
// build/PATH/-NAME/root, under which usr/bin, usr/lib, etc. are built up.
func (b *PackageBuilder) FullPackageHierarchyDir() string {
	return filepath.Join(b.Target().Layout.BuildDir, "root")
}

// installPaths returns the format-specific bin and lib destination
// paths within the package hierarchy that binary/launcher dependencies
// install themselves under.
func (b *PackageBuilder) installPaths() (binPath, libPath string) {
	attrs := b.Target().Package
	if attrs == nil {
		return "/usr/bin", "/usr/lib"
	}
	switch attrs.Format {
	case "macos":
		return "/bin", "/Library"
	default: // "debian" and anything else defaults to Debian's FHS paths
		return "/usr/bin", "/usr/lib"
	}
}

// DoPreBuildPackageBinaryInstall calls DoPackageInstall on every direct
// dependency that implements core.PackageInstallHook (Binary and
// StartScript builders), passing the format-specific destination paths.
func (b *PackageBuilder) DoPreBuildPackageBinaryInstall(bs *core.BuildSession, builders core.BuilderMap) error {
	binPath, libPath := b.installPaths()
	if err := os.MkdirAll(b.FullPackageHierarchyDir(), 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: b.FullPackageHierarchyDir(), Err: err}
	}
	for _, depID := range b.Target().Deps {
		dep, ok := builders[depID]
		if !ok {
			continue
		}
		if hook, ok := dep.(core.PackageInstallHook); ok {
			if err := hook.DoPackageInstall(bs, b, binPath, libPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// DoBuildPackageWork materializes format-specific metadata and invokes
// the packager, producing an artifact under the shared package root.
func (b *PackageBuilder) DoBuildPackageWork(bs *core.BuildSession) error {
	target := b.Target()
	if target.Package == nil {
		return fmt.Errorf("package target %s has no package attributes", target.ID)
	}
	switch target.Package.Format {
	case "macos":
		return b.buildMacOSPackage(bs)
	default:
		return b.buildDebianPackage(bs)
	}
}
