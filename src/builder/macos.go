package builder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/process"
)

// buildMacOSPackage invokes the external packagemaker tool over the
// already-assembled package hierarchy to produce a .pkg artifact, the
// macOS flavor of PackageBuilder alongside the Debian one.
func (b *PackageBuilder) buildMacOSPackage(bs *core.BuildSession) error {
	target := b.Target()
	attrs := target.Package

	ver, err := semver.NewVersion(attrs.Version)
	if err != nil {
		return fmt.Errorf("package %s: invalid version %q: %w", target.ID, attrs.Version, err)
	}

	baseFilename := target.ID.Name
	if attrs.MacOS != nil && attrs.MacOS.BaseFilename != "" {
		baseFilename = attrs.MacOS.BaseFilename
	}
	identifier := bs.Config.MacOS.Identifier
	if identifier == "" {
		identifier = "com.hackbuild"
	}

	outputPath := filepath.Join(bs.RepoRoot, core.PackageRoot, fmt.Sprintf("%s-%s.pkg", baseFilename, ver.String()))
	argv := []string{
		"packagemaker",
		"--root", b.FullPackageHierarchyDir(),
		"--id", identifier + "." + target.ID.Name,
		"--version", ver.String(),
		"--out", outputPath,
	}
	if _, _, err := process.Run(context.Background(), argv, ""); err != nil {
		return err
	}
	logArtifactSize(target.ID.String(), outputPath)
	return nil
}
