package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/hackbuild/src/core"
)

func TestLibraryBuilderMirrorsFilesAndMarkers(t *testing.T) {
	repoRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, "lev1", "lev2"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, "lev1", "lev2", "a.py"), []byte("a"), 0644))

	id, err := core.NewTargetID("/lev1/lev2", "lib")
	require.NoError(t, err)
	target := &core.BuildTarget{
		ID:     id,
		Role:   core.RoleLibrary,
		Layout: core.NewStagingLayout(repoRoot, id),
		Library: &core.LibraryAttrs{
			Files:    []string{"a.py"},
			Packages: []string{"mypkg.sub"},
		},
	}

	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	b := NewLibraryBuilder(target)
	require.NoError(t, b.DoCreateSourceTreeWork(bs))

	mirrored, err := os.ReadFile(filepath.Join(target.Layout.SourceDir, "a.py"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(mirrored))

	assert.FileExists(t, filepath.Join(repoRoot, "src", "__init__.py"))
	assert.FileExists(t, filepath.Join(repoRoot, "src", "lev1", "__init__.py"))
	assert.FileExists(t, filepath.Join(repoRoot, "src", "lev1", "lev2", "__init__.py"))
	assert.FileExists(t, filepath.Join(target.Layout.SourceDir, "mypkg", "sub", "__init__.py"))
}

func TestThirdPartyLibraryBuilderMirrorsWholeVendorDir(t *testing.T) {
	repoRoot := t.TempDir()
	vendorDir := filepath.Join(repoRoot, "third_party", "requests")
	require.NoError(t, os.MkdirAll(vendorDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "setup.py"), []byte("x"), 0644))

	id, _ := core.NewTargetID("/third_party/requests", "requests")
	target := &core.BuildTarget{
		ID:                id,
		Role:              core.RoleThirdPartyLibrary,
		Layout:            core.NewStagingLayout(repoRoot, id),
		ThirdPartyLibrary: &core.ThirdPartyLibraryAttrs{VendorDir: "third_party/requests"},
	}

	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	b := NewThirdPartyLibraryBuilder(target)
	require.NoError(t, b.DoCreateSourceTreeWork(bs))

	assert.FileExists(t, filepath.Join(target.Layout.SourceDir, "setup.py"))
}
