package core

// A Resolver locates the BuildTarget a normalized TargetID names. The
// Target Resolver (package resolve) implements this; it's declared here,
// rather than there, so core can build dependency trees without
// importing a package that itself imports core.
type Resolver interface {
	Resolve(id TargetID) (*BuildTarget, error)
}

// A DependencyTree is a root BuildTarget together with its own
// dependencies, each in turn a DependencyTree. Shared subtrees are
// represented structurally (the same *BuildTarget pointer may appear
// under more than one parent); the Build Scheduler is responsible for
// deduplicating by TargetID when it linearizes this into a build
// sequence.
type DependencyTree struct {
	Target *BuildTarget
	Deps   map[TargetID]*DependencyTree
}

// BuildDependencyTree resolves the full transitive dependency tree
// rooted at root, using r to resolve each dependency id in turn.
// Cycles are detected by tracking the ids on the current DFS path and
// reported as a DependencyCycleError rather than recursing forever.
func BuildDependencyTree(r Resolver, root *BuildTarget) (*DependencyTree, error) {
	return buildTree(r, root, nil)
}

func buildTree(r Resolver, target *BuildTarget, path []TargetID) (*DependencyTree, error) {
	for _, id := range path {
		if id.Equal(target.ID) {
			return nil, &DependencyCycleError{Path: append(append([]TargetID{}, path...), target.ID)}
		}
	}
	path = append(path, target.ID)

	tree := &DependencyTree{Target: target, Deps: make(map[TargetID]*DependencyTree)}
	for _, depID := range target.Deps {
		depTarget, err := r.Resolve(depID)
		if err != nil {
			return nil, err
		}
		depTree, err := buildTree(r, depTarget, path)
		if err != nil {
			return nil, err
		}
		tree.Deps[depID] = depTree
	}
	return tree, nil
}

// Flatten walks the tree and returns every distinct target reachable
// from it (the root included), deduplicated by TargetID. Order is
// unspecified; callers that need a deterministic build order should use
// package build's linearization instead.
func (t *DependencyTree) Flatten() map[TargetID]*BuildTarget {
	out := make(map[TargetID]*BuildTarget)
	t.flattenInto(out)
	return out
}

func (t *DependencyTree) flattenInto(out map[TargetID]*BuildTarget) {
	if _, ok := out[t.Target.ID]; ok {
		return
	}
	out[t.Target.ID] = t.Target
	for _, dep := range t.Deps {
		dep.flattenInto(out)
	}
}
