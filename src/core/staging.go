package core

import "path/filepath"

// The three staging roots are constants relative to the repository root.
const (
	SrcRoot     = "src"
	BuildRoot   = "build"
	PackageRoot = "pkg"
)

// A StagingLayout holds the canonical filesystem locations derived from a
// target's TargetID and the repository root. Every builder works
// exclusively within these paths; nothing else in the tree is touched
// for that target.
type StagingLayout struct {
	// WorkingCopyDir is REPO/PATH: the target's own directory in the
	// repository as checked out (not a staged copy).
	WorkingCopyDir string
	// SourceDir is REPO/src/PATH: the mirrored, symlinked source tree.
	SourceDir string
	// BuildDir is REPO/build/PATH/-NAME: private scratch space for this
	// target alone. The leading "-" on the leaf component guarantees it
	// can never collide with a subdirectory sharing a sibling target's
	// name.
	BuildDir string
	// PackageDir is REPO/pkg/: shared across all package targets; each
	// PackageBuilder writes its finished artifact file directly into it.
	PackageDir string
}

// NewStagingLayout derives the StagingLayout for a normalized TargetID
// rooted at repoRoot.
func NewStagingLayout(repoRoot string, id TargetID) StagingLayout {
	rel := id.RepoRelPath()
	return StagingLayout{
		WorkingCopyDir: filepath.Join(repoRoot, rel),
		SourceDir:      filepath.Join(repoRoot, SrcRoot, rel),
		BuildDir:       filepath.Join(repoRoot, BuildRoot, rel, "-"+id.Name),
		PackageDir:     filepath.Join(repoRoot, PackageRoot) + string(filepath.Separator),
	}
}
