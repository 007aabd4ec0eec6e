package builder

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/process"
)

const virtualenvDirName = "python_virtualenv"

// BinaryBuilder builds a console-script binary target: it aggregates
// its transitive dependencies' packages into a generated setup
// descriptor, builds an isolated virtualenv, installs into it, and,
// when asked by a PackageBuilder, copies that environment into the
// package hierarchy behind a small wrapper script.
type BinaryBuilder struct {
	Base
}

// NewBinaryBuilder constructs a BinaryBuilder for target.
func NewBinaryBuilder(target *core.BuildTarget) core.Builder {
	return &BinaryBuilder{Base{target: target}}
}

// Role reports RoleBinary.
func (b *BinaryBuilder) Role() core.Role { return core.RoleBinary }

func (b *BinaryBuilder) virtualenvDir() string {
	return filepath.Join(b.Target().Layout.BuildDir, virtualenvDirName)
}

func (b *BinaryBuilder) virtualenvPython() string {
	return filepath.Join(b.virtualenvDir(), "bin", "python")
}

// DoPreCreateSourceTreeWork computes the transitive set of package
// names and entry points contributed by dependency library builders,
// and writes the generated setup descriptor naming this target.
func (b *BinaryBuilder) DoPreCreateSourceTreeWork(bs *core.BuildSession, builders core.BuilderMap) error {
	target := b.Target()
	packages, entryPoints := transitivePackagesAndEntryPoints(target, builders, make(map[core.TargetID]bool))

	var ownEntryPoint string
	if target.Binary != nil {
		ownEntryPoint = target.Binary.EntryPoint
	}
	if ownEntryPoint != "" {
		name := target.ID.Name
		entryPoints[name] = ownEntryPoint
	}

	if err := os.MkdirAll(target.Layout.SourceDir, 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: target.Layout.SourceDir, Err: err}
	}
	return writeSetupDescriptor(target, packages, entryPoints)
}

// transitivePackagesAndEntryPoints walks target's dependency graph
// through builders (every participating builder this build session
// constructed, keyed by TargetID) and collects the Packages and
// EntryPoints declared by every reachable first-party library.
func transitivePackagesAndEntryPoints(target *core.BuildTarget, builders core.BuilderMap, seen map[core.TargetID]bool) ([]string, map[string]string) {
	packageSet := map[string]bool{}
	entryPoints := map[string]string{}
	var walk func(t *core.BuildTarget)
	walk = func(t *core.BuildTarget) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		if t.Role == core.RoleLibrary && t.Library != nil {
			for _, pkg := range t.Library.Packages {
				packageSet[pkg] = true
			}
			for name, entry := range t.Library.EntryPoints {
				entryPoints[name] = entry
			}
		}
		for _, depID := range t.Deps {
			if depBuilder, ok := builders[depID]; ok {
				walk(depBuilder.Target())
			}
		}
	}
	for _, depID := range target.Deps {
		if depBuilder, ok := builders[depID]; ok {
			walk(depBuilder.Target())
		}
	}

	packages := make([]string, 0, len(packageSet))
	for pkg := range packageSet {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	return packages, entryPoints
}

// writeSetupDescriptor writes the generated setup-NAME.py a BinaryBuilder
// produces for a human (and, in the original, distutils) to read: it's
// never parsed back in by this tool, only installed by invoking it with
// the virtualenv's interpreter.
func writeSetupDescriptor(target *core.BuildTarget, packages []string, entryPoints map[string]string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# generated by hackbuild for %s; do not edit\n", target.ID)
	fmt.Fprintf(&sb, "from setuptools import setup\n\n")
	fmt.Fprintf(&sb, "setup(\n")
	fmt.Fprintf(&sb, "    name=%q,\n", target.ID.Name)
	fmt.Fprintf(&sb, "    packages=%s,\n", pyStringList(packages))
	if len(entryPoints) > 0 {
		names := make([]string, 0, len(entryPoints))
		for name := range entryPoints {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&sb, "    entry_points={\"console_scripts\": [\n")
		for _, name := range names {
			fmt.Fprintf(&sb, "        \"%s = %s\",\n", name, entryPoints[name])
		}
		fmt.Fprintf(&sb, "    ]},\n")
	}
	fmt.Fprintf(&sb, ")\n")

	path := filepath.Join(target.Layout.SourceDir, fmt.Sprintf("setup-%s.py", target.ID.Name))
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return &core.FilesystemError{Op: "write setup descriptor", Path: path, Err: err}
	}
	return nil
}

func pyStringList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// DoCreateBuildEnvironmentWork constructs an isolated Python runtime
// under build_dir/python_virtualenv via the external virtualenv tool.
func (b *BinaryBuilder) DoCreateBuildEnvironmentWork(bs *core.BuildSession) error {
	_, _, err := process.Run(context.Background(), []string{"virtualenv", b.virtualenvDir()}, "")
	return err
}

// DoPreBuildBinaryLibraryInstall invokes every transitively reachable
// library's install hook (currently only third-party libraries
// implement one) against this binary's virtualenv.
func (b *BinaryBuilder) DoPreBuildBinaryLibraryInstall(bs *core.BuildSession, builders core.BuilderMap) error {
	seen := make(map[core.TargetID]bool)
	var walk func(t *core.BuildTarget) error
	walk = func(t *core.BuildTarget) error {
		if seen[t.ID] {
			return nil
		}
		seen[t.ID] = true
		if depBuilder, ok := builders[t.ID]; ok {
			if hook, ok := depBuilder.(core.LibraryInstallHook); ok {
				if err := hook.DoLibraryInstall(bs, b); err != nil {
					return err
				}
			}
		}
		for _, depID := range t.Deps {
			if depBuilder, ok := builders[depID]; ok {
				if err := walk(depBuilder.Target()); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(b.Target())
}

// DoBuildBinaryWork runs the generated setup descriptor's install
// action inside the virtualenv.
func (b *BinaryBuilder) DoBuildBinaryWork(bs *core.BuildSession) error {
	target := b.Target()
	installMethod := "install"
	if target.Binary != nil && target.Binary.InstallMethod != "" {
		installMethod = target.Binary.InstallMethod
	}
	setupPath := filepath.Join(target.Layout.SourceDir, fmt.Sprintf("setup-%s.py", target.ID.Name))
	_, _, err := process.Run(context.Background(), []string{b.virtualenvPython(), setupPath, installMethod}, target.Layout.SourceDir)
	return err
}

// DoBuildPackageWork makes the virtualenv relocatable via the external
// virtualenv tool, so it can later be copied verbatim into a package.
func (b *BinaryBuilder) DoBuildPackageWork(bs *core.BuildSession) error {
	_, _, err := process.Run(context.Background(), []string{"virtualenv", "--relocatable", b.virtualenvDir()}, "")
	return err
}

// DoPackageInstall implements core.PackageInstallHook: it copies this
// binary's virtualenv into the package hierarchy under
// LIB_PATH/PACKAGE_NAME/TARGET_NAME-virtualenv and writes a shell
// wrapper at BIN_PATH/TARGET_NAME that re-execs the virtualenv's
// interpreter against the entry point.
func (b *BinaryBuilder) DoPackageInstall(bs *core.BuildSession, pkg core.Builder, binPath, libPath string) error {
	pb, ok := pkg.(*PackageBuilder)
	if !ok {
		return fmt.Errorf("DoPackageInstall: %s is not a package builder", pkg.Target().ID)
	}
	target := b.Target()
	hierarchy := pb.FullPackageHierarchyDir()

	venvDest := filepath.Join(hierarchy, libPath, pb.Target().ID.Name, target.ID.Name+"-virtualenv")
	if err := copyTree(b.virtualenvDir(), venvDest); err != nil {
		return err
	}

	wrapperPath := filepath.Join(hierarchy, binPath, target.ID.Name)
	if err := os.MkdirAll(filepath.Dir(wrapperPath), 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: filepath.Dir(wrapperPath), Err: err}
	}

	entryPoint := ""
	if target.Binary != nil {
		entryPoint = target.Binary.EntryPoint
	}
	relVenv, err := filepath.Rel(filepath.Dir(wrapperPath), venvDest)
	if err != nil {
		return &core.FilesystemError{Op: "relativize", Path: wrapperPath, Err: err}
	}
	module, function := splitEntryPoint(entryPoint)
	script := fmt.Sprintf("#!/bin/sh\nexec \"$(dirname \"$0\")\"/%s -c %s \"$@\"\n",
		shellescape.Quote(filepath.Join(relVenv, "bin", "python")),
		shellescape.Quote(fmt.Sprintf("import %s; %s()", module, function)))

	if err := os.WriteFile(wrapperPath, []byte(script), 0755); err != nil {
		return &core.FilesystemError{Op: "write wrapper", Path: wrapperPath, Err: err}
	}
	return nil
}

func splitEntryPoint(entryPoint string) (module, function string) {
	parts := strings.SplitN(entryPoint, ":", 2)
	if len(parts) != 2 {
		return entryPoint, "main"
	}
	return parts[0], parts[1]
}

// copyTree recursively copies src onto dst, following symlinks so the
// copy a package ships is self-contained rather than depending on the
// repository-relative source tree it was mirrored from.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0755)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return copyTree(path, dest)
			}
		}
		return copyFile(path, dest)
	})
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return &core.FilesystemError{Op: "stat", Path: src, Err: err}
	}
	in, err := os.Open(src)
	if err != nil {
		return &core.FilesystemError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
	if err != nil {
		return &core.FilesystemError{Op: "create", Path: dst, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return &core.FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	return nil
}
