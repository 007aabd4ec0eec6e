package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pault.ag/go/debian/dependency"
	debversion "pault.ag/go/debian/version"

	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/process"
)

// buildDebianPackage materializes DEBIAN/control under the package
// hierarchy and invokes dpkg-deb to produce a .deb artifact (spec
// §4.6's Debian flavor of PackageBuilder).
func (b *PackageBuilder) buildDebianPackage(bs *core.BuildSession) error {
	target := b.Target()
	attrs := target.Package

	ver, err := debversion.Parse(attrs.Version)
	if err != nil {
		return fmt.Errorf("package %s: invalid debian version %q: %w", target.ID, attrs.Version, err)
	}

	arch, err := debianArchitecture(bs)
	if err != nil {
		return err
	}

	depends := append([]string{}, bs.Config.Debian.ExtraDepends...)
	if attrs.Debian != nil {
		depends = append(depends, attrs.Debian.ExtraDepends...)
	}
	depField, err := renderDebianDepends(depends)
	if err != nil {
		return err
	}

	hierarchy := b.FullPackageHierarchyDir()
	debianDir := filepath.Join(hierarchy, "DEBIAN")
	if err := os.MkdirAll(debianDir, 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: debianDir, Err: err}
	}

	control := fmt.Sprintf(
		"Package: %s\nVersion: %s\nArchitecture: %s\nMaintainer: hackbuild\nDescription: %s\n",
		target.ID.Name, ver.String(), arch, target.ID.Name,
	)
	if depField != "" {
		control += "Depends: " + depField + "\n"
	}

	controlPath := filepath.Join(debianDir, "control")
	if err := os.WriteFile(controlPath, []byte(control), 0644); err != nil {
		return &core.FilesystemError{Op: "write control file", Path: controlPath, Err: err}
	}

	outputPath := filepath.Join(bs.RepoRoot, core.PackageRoot, fmt.Sprintf("%s_%s_%s.deb", target.ID.Name, ver.String(), arch))
	if _, _, err := process.Run(context.Background(), []string{"dpkg-deb", "-b", hierarchy, outputPath}, ""); err != nil {
		return err
	}
	logArtifactSize(target.ID.String(), outputPath)
	return nil
}

// debianArchitecture returns the configured override, if any, otherwise
// queries dpkg-architecture for the host's native architecture.
func debianArchitecture(bs *core.BuildSession) (string, error) {
	if bs.Config.Debian.Architecture != "" {
		return bs.Config.Debian.Architecture, nil
	}
	stdout, _, err := process.Run(context.Background(), []string{"dpkg-architecture", "-qDEB_HOST_ARCH"}, "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// renderDebianDepends parses each dependency specification (dpkg
// control-file syntax, e.g. "libc6 (>= 2.7-1)") with
// pault.ag/go/debian/dependency to validate it, then re-renders the
// validated set as a single control-file Depends: field value.
func renderDebianDepends(specs []string) (string, error) {
	if len(specs) == 0 {
		return "", nil
	}
	rendered := make([]string, 0, len(specs))
	for _, spec := range specs {
		dep, err := dependency.Parse(spec)
		if err != nil {
			return "", fmt.Errorf("invalid dependency specification %q: %w", spec, err)
		}
		rendered = append(rendered, dep.String())
	}
	return strings.Join(rendered, ", "), nil
}
