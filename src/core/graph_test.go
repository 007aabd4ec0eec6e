package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver resolves targets from an in-memory map, for testing
// dependency-tree construction without a real descriptor evaluator.
type fakeResolver struct {
	targets map[TargetID]*BuildTarget
}

func (r *fakeResolver) Resolve(id TargetID) (*BuildTarget, error) {
	t, ok := r.targets[id]
	if !ok {
		return nil, &TargetNotFoundError{ID: id}
	}
	return t, nil
}

func mustID(t *testing.T, path, name string) TargetID {
	t.Helper()
	id, err := NewTargetID(path, name)
	require.NoError(t, err)
	return id
}

func TestBuildDependencyTreeDiamond(t *testing.T) {
	idA := mustID(t, "/", "a")
	idB := mustID(t, "/", "b")
	idC := mustID(t, "/", "c")
	idD := mustID(t, "/", "d")

	d := &BuildTarget{ID: idD}
	b := &BuildTarget{ID: idB, Deps: []TargetID{idD}}
	c := &BuildTarget{ID: idC, Deps: []TargetID{idD}}
	a := &BuildTarget{ID: idA, Deps: []TargetID{idB, idC}}

	r := &fakeResolver{targets: map[TargetID]*BuildTarget{idA: a, idB: b, idC: c, idD: d}}

	tree, err := BuildDependencyTree(r, a)
	require.NoError(t, err)

	flat := tree.Flatten()
	assert.Len(t, flat, 4)
	assert.Same(t, d, tree.Deps[idB].Deps[idD].Target)
	assert.Same(t, d, tree.Deps[idC].Deps[idD].Target)
}

func TestBuildDependencyTreeDetectsCycle(t *testing.T) {
	idA := mustID(t, "/", "a")
	idB := mustID(t, "/", "b")

	a := &BuildTarget{ID: idA, Deps: []TargetID{idB}}
	b := &BuildTarget{ID: idB, Deps: []TargetID{idA}}

	r := &fakeResolver{targets: map[TargetID]*BuildTarget{idA: a, idB: b}}

	_, err := BuildDependencyTree(r, a)
	assert.Error(t, err)
	var cycle *DependencyCycleError
	assert.ErrorAs(t, err, &cycle)
}
