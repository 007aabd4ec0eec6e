package builder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/hackbuild/src/core"
)

func TestPackageBuilderInstallPaths(t *testing.T) {
	repoRoot := t.TempDir()

	debID, _ := core.NewTargetID("/pkg", "deb")
	debTarget := &core.BuildTarget{
		ID: debID, Layout: core.NewStagingLayout(repoRoot, debID),
		Package: &core.PackageAttrs{Format: "debian"},
	}
	deb := NewPackageBuilder(debTarget).(*PackageBuilder)
	bin, lib := deb.installPaths()
	assert.Equal(t, "/usr/bin", bin)
	assert.Equal(t, "/usr/lib", lib)

	macID, _ := core.NewTargetID("/pkg", "mac")
	macTarget := &core.BuildTarget{
		ID: macID, Layout: core.NewStagingLayout(repoRoot, macID),
		Package: &core.PackageAttrs{Format: "macos"},
	}
	mac := NewPackageBuilder(macTarget).(*PackageBuilder)
	bin, lib = mac.installPaths()
	assert.Equal(t, "/bin", bin)
	assert.Equal(t, "/Library", lib)
}

type fakeInstallHookBuilder struct {
	Base
	called   bool
	gotBin   string
	gotLib   string
}

func (f *fakeInstallHookBuilder) DoPackageInstall(bs *core.BuildSession, pkg core.Builder, binPath, libPath string) error {
	f.called = true
	f.gotBin = binPath
	f.gotLib = libPath
	return nil
}

func TestPackageBuilderDoPreBuildPackageBinaryInstallDispatchesHooks(t *testing.T) {
	repoRoot := t.TempDir()

	depID, _ := core.NewTargetID("/bin", "app")
	depTarget := &core.BuildTarget{ID: depID, Role: core.RoleBinary}
	hook := &fakeInstallHookBuilder{Base: Base{target: depTarget}}

	pkgID, _ := core.NewTargetID("/pkg", "mypkg")
	pkgTarget := &core.BuildTarget{
		ID:     pkgID,
		Layout: core.NewStagingLayout(repoRoot, pkgID),
		Deps:   []core.TargetID{depID},
		Package: &core.PackageAttrs{Format: "debian"},
	}
	pb := NewPackageBuilder(pkgTarget).(*PackageBuilder)

	builders := core.BuilderMap{depID: hook}
	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	require.NoError(t, pb.DoPreBuildPackageBinaryInstall(bs, builders))

	assert.True(t, hook.called)
	assert.Equal(t, "/usr/bin", hook.gotBin)
	assert.Equal(t, "/usr/lib", hook.gotLib)
	assert.DirExists(t, pb.FullPackageHierarchyDir())
}

func TestPackageBuilderDoBuildPackageWorkRejectsNilAttrs(t *testing.T) {
	repoRoot := t.TempDir()
	id, _ := core.NewTargetID("/pkg", "mypkg")
	target := &core.BuildTarget{ID: id, Layout: core.NewStagingLayout(repoRoot, id)}
	pb := NewPackageBuilder(target).(*PackageBuilder)

	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	err := pb.DoBuildPackageWork(bs)
	require.Error(t, err)
}

func TestFullPackageHierarchyDirUnderBuildRoot(t *testing.T) {
	repoRoot := t.TempDir()
	id, _ := core.NewTargetID("/pkg", "mypkg")
	target := &core.BuildTarget{ID: id, Layout: core.NewStagingLayout(repoRoot, id)}
	pb := NewPackageBuilder(target).(*PackageBuilder)

	expected := filepath.Join(repoRoot, core.BuildRoot, "pkg", "-mypkg", "root")
	assert.Equal(t, expected, pb.FullPackageHierarchyDir())
}
