// Package builder holds the concrete per-role behaviors invoked by the
// scheduler at each build phase, for the shipped plugin set (first-
// and third-party Python libraries, Python binaries, Debian and macOS
// packages, and upstart service scripts).
package builder

import (
	"os"

	"github.com/dustin/go-humanize"

	"github.com/thought-machine/hackbuild/src/cli/logging"
	"github.com/thought-machine/hackbuild/src/core"
)

var log = logging.Log

// logArtifactSize logs a package target's produced artifact size in
// human-readable form. A stat failure is logged rather than returned;
// the package itself already built successfully by this point.
func logArtifactSize(targetID, path string) {
	info, err := os.Stat(path)
	if err != nil {
		log.Warning("%s: built %s but could not stat it: %s", targetID, path, err)
		return
	}
	log.Notice("%s: built %s (%s)", targetID, path, humanize.Bytes(uint64(info.Size())))
}

// Base implements core.Builder with every phase hook a no-op, so a
// concrete builder need only override the phases its role actually
// does work in.
type Base struct {
	target *core.BuildTarget
}

// Target returns the bound BuildTarget.
func (b *Base) Target() *core.BuildTarget { return b.target }

// DoCreateSourceTreeWork is a no-op default.
func (b *Base) DoCreateSourceTreeWork(*core.BuildSession) error { return nil }

// DoCreateBuildEnvironmentWork is a no-op default.
func (b *Base) DoCreateBuildEnvironmentWork(*core.BuildSession) error { return nil }

// DoBuildBinaryWork is a no-op default.
func (b *Base) DoBuildBinaryWork(*core.BuildSession) error { return nil }

// DoBuildPackageWork is a no-op default.
func (b *Base) DoBuildPackageWork(*core.BuildSession) error { return nil }
