package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alessio/shellescape"

	"github.com/thought-machine/hackbuild/src/core"
)

const defaultUpstartDir = "/etc/init"

// StartScriptBuilder generates an upstart-style service-manager script
// for a binary dependency. There's no upstream plugin this mirrors; it
// rounds out the package-format set with a service-launch flavor
// alongside the Debian and macOS builders.
type StartScriptBuilder struct {
	Base
}

// NewStartScriptBuilder constructs a StartScriptBuilder for target.
func NewStartScriptBuilder(target *core.BuildTarget) core.Builder {
	return &StartScriptBuilder{Base{target: target}}
}

// Role reports RoleStartScript.
func (b *StartScriptBuilder) Role() core.Role { return core.RoleStartScript }

// DoPackageInstall implements core.PackageInstallHook: it writes the
// service-manager script into the package hierarchy, with an exec line
// built from the already-installed binary's in-package path and this
// target's declared, shell-quoted launch arguments.
func (b *StartScriptBuilder) DoPackageInstall(bs *core.BuildSession, pkg core.Builder, binPath, libPath string) error {
	pb, ok := pkg.(*PackageBuilder)
	if !ok {
		return fmt.Errorf("DoPackageInstall: %s is not a package builder", pkg.Target().ID)
	}
	attrs := b.Target().StartScript
	if attrs == nil {
		return fmt.Errorf("start script target %s has no attributes", b.Target().ID)
	}

	hierarchy := pb.FullPackageHierarchyDir()
	binaryPath := filepath.Join(binPath, attrs.Binary.Name)

	scriptDir := attrs.ScriptDir
	if scriptDir == "" {
		scriptDir = defaultUpstartDir
	}
	destDir := filepath.Join(hierarchy, scriptDir)
	if err := os.MkdirAll(destDir, 0755); err != nil && !os.IsExist(err) {
		return &core.FilesystemError{Op: "mkdir", Path: destDir, Err: err}
	}

	execLine := shellescape.QuoteCommand(append([]string{binaryPath}, attrs.Args...))
	conf := fmt.Sprintf(
		"description %q\n\nstart on runlevel [2345]\nstop on runlevel [016]\n\nexec %s\n",
		attrs.ServiceName, execLine,
	)

	confPath := filepath.Join(destDir, attrs.ServiceName+".conf")
	if err := os.WriteFile(confPath, []byte(conf), 0644); err != nil {
		return &core.FilesystemError{Op: "write upstart script", Path: confPath, Err: err}
	}
	return nil
}
