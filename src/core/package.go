package core

// DescriptorFilename is the conventional name of a per-directory build
// descriptor file.
const DescriptorFilename = "HACK_BUILD"

// A Package is the result of evaluating one directory's descriptor: the
// directory itself (as the TargetID path that names it, e.g. "/lev1", or
// "/" for the repo root) and the set of targets it declared, keyed by
// their normalized TargetID.
//
// Packages are produced by the Descriptor Evaluator and cached in the
// BuildSession: re-evaluating the same directory returns the identical
// Package without re-interpreting its descriptor.
type Package struct {
	Dir     string
	Targets map[TargetID]*BuildTarget
}

// NewPackage constructs an (initially empty) Package for directory dir.
func NewPackage(dir string) *Package {
	return &Package{Dir: dir, Targets: make(map[TargetID]*BuildTarget)}
}

// Add registers target in this package, keyed by its TargetID.
func (p *Package) Add(target *BuildTarget) {
	p.Targets[target.ID] = target
}

// Target returns the declared target with the given normalized id, or
// nil if this package declares no such target.
func (p *Package) Target(id TargetID) *BuildTarget {
	return p.Targets[id]
}
