package build

import (
	"sort"

	"github.com/thought-machine/hackbuild/src/core"
)

// Linearize produces a deterministic, leaves-first build order for a
// single root's dependency tree: every dependency appears before its
// dependent.
//
// Popping from a deque built through breadth-first expansion of a
// dependency tree would depend on the iteration order of nested maps
// and be nondeterministic across runs. Instead this computes each
// target's depth (its longest distance from the root, so a target
// reachable by more than one path gets the depth of its deepest
// occurrence) and sorts by (depth descending, TargetID ascending). Two
// runs over the same tree always produce the same sequence.
func Linearize(tree *core.DependencyTree) []core.TargetID {
	depth := make(map[core.TargetID]int)
	var walk func(t *core.DependencyTree, d int)
	walk = func(t *core.DependencyTree, d int) {
		if existing, ok := depth[t.Target.ID]; !ok || d > existing {
			depth[t.Target.ID] = d
		}
		for _, dep := range t.Deps {
			walk(dep, d+1)
		}
	}
	walk(tree, 0)

	ids := make([]core.TargetID, 0, len(depth))
	for id := range depth {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		di, dj := depth[ids[i]], depth[ids[j]]
		if di != dj {
			return di > dj
		}
		return ids[i].String() < ids[j].String()
	})
	return ids
}
