package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/hackbuild/src/core"
)

func TestStartScriptBuilderDoPackageInstallWritesConf(t *testing.T) {
	repoRoot := t.TempDir()

	binID, _ := core.NewTargetID("/bin", "app")
	scriptID, _ := core.NewTargetID("/bin", "app_script")
	scriptTarget := &core.BuildTarget{
		ID:   scriptID,
		Role: core.RoleStartScript,
		StartScript: &core.StartScriptAttrs{
			ServiceName: "myservice",
			Binary:      binID,
			Args:        []string{"--config", "/etc/myservice.conf"},
		},
	}
	sb := NewStartScriptBuilder(scriptTarget).(*StartScriptBuilder)

	pkgID, _ := core.NewTargetID("/pkg", "mypkg")
	pkgTarget := &core.BuildTarget{
		ID:      pkgID,
		Layout:  core.NewStagingLayout(repoRoot, pkgID),
		Package: &core.PackageAttrs{Format: "debian"},
	}
	pb := NewPackageBuilder(pkgTarget).(*PackageBuilder)

	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	require.NoError(t, sb.DoPackageInstall(bs, pb, "/usr/bin", "/usr/lib"))

	confPath := filepath.Join(pb.FullPackageHierarchyDir(), "etc", "init", "myservice.conf")
	contents, err := os.ReadFile(confPath)
	require.NoError(t, err)
	s := string(contents)
	assert.Contains(t, s, "description \"myservice\"")
	assert.Contains(t, s, "exec "+filepath.Join("/usr", "bin", "app"))
	assert.Contains(t, s, "--config")
}

func TestStartScriptBuilderUsesCustomScriptDir(t *testing.T) {
	repoRoot := t.TempDir()

	binID, _ := core.NewTargetID("/bin", "app")
	scriptID, _ := core.NewTargetID("/bin", "app_script")
	scriptTarget := &core.BuildTarget{
		ID:   scriptID,
		Role: core.RoleStartScript,
		StartScript: &core.StartScriptAttrs{
			ServiceName: "myservice",
			Binary:      binID,
			ScriptDir:   "/etc/custom-init",
		},
	}
	sb := NewStartScriptBuilder(scriptTarget).(*StartScriptBuilder)

	pkgID, _ := core.NewTargetID("/pkg", "mypkg")
	pkgTarget := &core.BuildTarget{
		ID:      pkgID,
		Layout:  core.NewStagingLayout(repoRoot, pkgID),
		Package: &core.PackageAttrs{Format: "debian"},
	}
	pb := NewPackageBuilder(pkgTarget).(*PackageBuilder)

	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	require.NoError(t, sb.DoPackageInstall(bs, pb, "/usr/bin", "/usr/lib"))

	assert.FileExists(t, filepath.Join(pb.FullPackageHierarchyDir(), "etc", "custom-init", "myservice.conf"))
}
