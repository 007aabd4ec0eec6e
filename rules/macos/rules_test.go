package macos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/hackbuild/src/core"
)

func TestMacPkgEnqueuesPackageTarget(t *testing.T) {
	repoRoot := t.TempDir()
	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	n := core.NewNormalizer(repoRoot)
	p := New()

	rules := p.Rules("/pkg", n)
	fn, ok := rules["mac_pkg"]
	require.True(t, ok)

	args := core.Kwargs{
		"name":    core.StringValue("myapp"),
		"version": core.StringValue("1.2.3"),
	}
	require.NoError(t, fn(bs, "/pkg", args))

	drained := bs.Discovery.Drain()
	require.Len(t, drained, 1)
	target := drained[0]
	assert.Equal(t, "macos", target.Package.Format)
	require.NotNil(t, target.Package.MacOS)
	assert.Equal(t, "myapp", target.Package.MacOS.BaseFilename)
}

func TestMacPkgBaseFilenameOverride(t *testing.T) {
	repoRoot := t.TempDir()
	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	n := core.NewNormalizer(repoRoot)
	p := New()

	rules := p.Rules("/pkg", n)
	fn, _ := rules["mac_pkg"]
	require.NoError(t, fn(bs, "/pkg", core.Kwargs{
		"name":          core.StringValue("myapp"),
		"base_filename": core.StringValue("MyApp"),
	}))

	drained := bs.Discovery.Drain()
	assert.Equal(t, "MyApp", drained[0].Package.MacOS.BaseFilename)
}
