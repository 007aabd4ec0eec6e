// Package resolve locates declared build targets: given a normalized
// TargetID, it evaluates the target's descriptor (via the Descriptor
// Evaluator, cached per directory), finds the declared target, and can
// compute a target's full transitive dependency tree.
package resolve

import (
	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/descriptor"
)

// Resolver is the Target Resolver. It implements core.Resolver so
// core.BuildDependencyTree can drive it without core importing this
// package.
type Resolver struct {
	Evaluator *descriptor.Evaluator
}

// NewResolver constructs a Resolver that evaluates descriptors through eval.
func NewResolver(eval *descriptor.Evaluator) *Resolver {
	return &Resolver{Evaluator: eval}
}

// Resolve evaluates the descriptor at id.Path (caching across calls via
// the underlying Evaluator/BuildSession) and returns the target whose
// TargetID equals id. Fails with TargetNotFound if no such target was
// declared.
func (r *Resolver) Resolve(id TargetID) (*core.BuildTarget, error) {
	pkg, err := r.Evaluator.Evaluate(id.Path)
	if err != nil {
		return nil, err
	}
	target := pkg.Target(id)
	if target == nil {
		return nil, &core.TargetNotFoundError{ID: id}
	}
	return target, nil
}

// TargetID is a re-export of core.TargetID for callers that only import
// package resolve.
type TargetID = core.TargetID

// TransitiveDeps computes the full dependency tree rooted at the target
// named by id, resolving id itself first.
func (r *Resolver) TransitiveDeps(id TargetID) (*core.DependencyTree, error) {
	root, err := r.Resolve(id)
	if err != nil {
		return nil, err
	}
	return core.BuildDependencyTree(r, root)
}
