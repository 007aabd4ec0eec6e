package build

import (
	"os"
	"path/filepath"
	"time"

	"github.com/thought-machine/hackbuild/src/cli/logging"
	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/metrics"
)

var log = logging.Log

// Scheduler drives a set of root dependency trees through the four
// build phases as global barriers, deduplicating by TargetID within
// each phase, and dispatches each role's pre-phase hook before its own
// phase hook runs.
type Scheduler struct {
	Session *core.BuildSession
	// Metrics is optional; nil disables per-phase instrumentation.
	Metrics *metrics.Collector
}

// NewScheduler constructs a Scheduler bound to session.
func NewScheduler(bs *core.BuildSession) *Scheduler {
	return &Scheduler{Session: bs}
}

// Build runs the full four-phase sweep over every root tree in trees.
// A failure in any hook aborts the build immediately, leaving whatever
// was already produced under src/build/pkg in place.
func (s *Scheduler) Build(trees []*core.DependencyTree) error {
	if err := s.createDirectories(); err != nil {
		return err
	}

	sequences := make([][]core.TargetID, len(trees))
	allTargets := make(map[core.TargetID]*core.BuildTarget)
	for i, tree := range trees {
		sequences[i] = Linearize(tree)
		for id, target := range tree.Flatten() {
			allTargets[id] = target
		}
	}

	builders := make(core.BuilderMap, len(allTargets))
	for id, target := range allTargets {
		builders[id] = target.NewBuilder(target)
	}

	for _, phase := range Phases {
		done := make(map[core.TargetID]bool, len(allTargets))
		for _, seq := range sequences {
			for _, id := range seq {
				if done[id] {
					continue
				}
				done[id] = true
				start := time.Now()
				if err := runPhase(s.Session, phase, builders[id], builders); err != nil {
					return err
				}
				if s.Metrics != nil {
					s.Metrics.RecordPhase(phase.String(), time.Since(start))
				}
			}
		}
		log.Debug("phase %s complete: %d targets", phase, len(done))
	}
	return nil
}

// Clean removes the src, build, and pkg roots recursively. A
// nonexistent root is not an error, matching os.RemoveAll's own
// semantics.
func (s *Scheduler) Clean() error {
	for _, root := range []string{core.SrcRoot, core.BuildRoot, core.PackageRoot} {
		dir := filepath.Join(s.Session.RepoRoot, root)
		if err := os.RemoveAll(dir); err != nil {
			return &core.FilesystemError{Op: "clean", Path: dir, Err: err}
		}
	}
	return nil
}

func (s *Scheduler) createDirectories() error {
	for _, root := range []string{core.SrcRoot, core.BuildRoot, core.PackageRoot} {
		dir := filepath.Join(s.Session.RepoRoot, root)
		if err := os.MkdirAll(dir, 0755); err != nil && !os.IsExist(err) {
			return &core.FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}

// runPhase invokes the phase-appropriate pre-hook (if this builder's
// role has one and implements it) followed by the phase's own hook.
func runPhase(bs *core.BuildSession, phase Phase, b core.Builder, builders core.BuilderMap) error {
	switch phase {
	case CreateSourceTree:
		if b.Role() == core.RoleBinary {
			if hook, ok := b.(core.PreCreateSourceTreeHook); ok {
				if err := hook.DoPreCreateSourceTreeWork(bs, builders); err != nil {
					return err
				}
			}
		}
		return b.DoCreateSourceTreeWork(bs)
	case CreateBuildEnvironment:
		return b.DoCreateBuildEnvironmentWork(bs)
	case BuildBinary:
		if b.Role() == core.RoleBinary {
			if hook, ok := b.(core.PreBuildBinaryLibraryInstallHook); ok {
				if err := hook.DoPreBuildBinaryLibraryInstall(bs, builders); err != nil {
					return err
				}
			}
		}
		return b.DoBuildBinaryWork(bs)
	case BuildPackage:
		if b.Role() == core.RolePackage {
			if hook, ok := b.(core.PreBuildPackageBinaryInstallHook); ok {
				if err := hook.DoPreBuildPackageBinaryInstall(bs, builders); err != nil {
					return err
				}
			}
		}
		return b.DoBuildPackageWork(bs)
	default:
		return nil
	}
}
