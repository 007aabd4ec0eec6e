package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/hackbuild/src/core"
)

func id(t *testing.T, path, name string) core.TargetID {
	t.Helper()
	tid, err := core.NewTargetID(path, name)
	require.NoError(t, err)
	return tid
}

func TestLinearizeLeavesFirst(t *testing.T) {
	l := &core.BuildTarget{ID: id(t, "/", "l")}
	b := &core.BuildTarget{ID: id(t, "/", "b"), Deps: []core.TargetID{l.ID}}
	p := &core.BuildTarget{ID: id(t, "/", "p"), Deps: []core.TargetID{b.ID}}

	tree := &core.DependencyTree{
		Target: p,
		Deps: map[core.TargetID]*core.DependencyTree{
			b.ID: {
				Target: b,
				Deps: map[core.TargetID]*core.DependencyTree{
					l.ID: {Target: l, Deps: map[core.TargetID]*core.DependencyTree{}},
				},
			},
		},
	}

	order := Linearize(tree)
	require.Len(t, order, 3)
	assert.Equal(t, []core.TargetID{l.ID, b.ID, p.ID}, order)
}

func TestLinearizeIsDeterministicAcrossRuns(t *testing.T) {
	a := &core.BuildTarget{ID: id(t, "/", "a")}
	d := &core.BuildTarget{ID: id(t, "/", "d")}
	bTarget := &core.BuildTarget{ID: id(t, "/", "b"), Deps: []core.TargetID{d.ID}}
	cTarget := &core.BuildTarget{ID: id(t, "/", "c"), Deps: []core.TargetID{d.ID}}
	a.Deps = []core.TargetID{bTarget.ID, cTarget.ID}

	dTree := &core.DependencyTree{Target: d, Deps: map[core.TargetID]*core.DependencyTree{}}
	tree := &core.DependencyTree{
		Target: a,
		Deps: map[core.TargetID]*core.DependencyTree{
			bTarget.ID: {Target: bTarget, Deps: map[core.TargetID]*core.DependencyTree{d.ID: dTree}},
			cTarget.ID: {Target: cTarget, Deps: map[core.TargetID]*core.DependencyTree{d.ID: dTree}},
		},
	}

	first := Linearize(tree)
	second := Linearize(tree)
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
	assert.Equal(t, a.ID, first[len(first)-1], "root must be linearized last")
	assert.Equal(t, d.ID, first[0], "shared leaf must be linearized first")
}
