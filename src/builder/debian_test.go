package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/hackbuild/src/core"
)

func TestRenderDebianDependsJoinsValidSpecs(t *testing.T) {
	rendered, err := renderDebianDepends([]string{"libc6 (>= 2.7-1)", "libssl1.1"})
	require.NoError(t, err)
	assert.Contains(t, rendered, "libc6")
	assert.Contains(t, rendered, "libssl1.1")
}

func TestRenderDebianDependsEmpty(t *testing.T) {
	rendered, err := renderDebianDepends(nil)
	require.NoError(t, err)
	assert.Equal(t, "", rendered)
}

func TestRenderDebianDependsRejectsInvalidSpec(t *testing.T) {
	_, err := renderDebianDepends([]string{"!!!not a dependency!!!"})
	require.Error(t, err)
}

func TestDebianArchitectureUsesConfigOverride(t *testing.T) {
	bs := core.NewBuildSession(t.TempDir(), core.DefaultConfiguration())
	bs.Config.Debian.Architecture = "arm64"

	arch, err := debianArchitecture(bs)
	require.NoError(t, err)
	assert.Equal(t, "arm64", arch)
}

func TestBuildDebianPackageRejectsInvalidVersion(t *testing.T) {
	repoRoot := t.TempDir()
	id, _ := core.NewTargetID("/pkg", "mypkg")
	target := &core.BuildTarget{
		ID:      id,
		Layout:  core.NewStagingLayout(repoRoot, id),
		Package: &core.PackageAttrs{Version: "not a valid debian version!!", Format: "debian"},
	}
	pb := NewPackageBuilder(target).(*PackageBuilder)

	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	err := pb.buildDebianPackage(bs)
	require.Error(t, err)
}
