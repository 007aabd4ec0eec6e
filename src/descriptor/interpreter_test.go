package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/plugin"
)

type testPlugin struct {
	rules map[string]plugin.RuleFunc
}

func (p *testPlugin) Name() string { return "test" }
func (p *testPlugin) Rules(dir string, n *core.Normalizer) map[string]plugin.RuleFunc {
	return p.rules
}

func writeDescriptor(t *testing.T, repoRoot, dir, src string) {
	t.Helper()
	full := filepath.Join(repoRoot, dir)
	require.NoError(t, os.MkdirAll(full, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(full, core.DescriptorFilename), []byte(src), 0644))
}

func TestEvaluatorDeclaresTargets(t *testing.T) {
	repoRoot := t.TempDir()
	writeDescriptor(t, repoRoot, "lev1", `python_lib(name="lib", srcs=["a.py"])`)

	var declared []string
	testPlug := &testPlugin{rules: map[string]plugin.RuleFunc{
		"python_lib": func(bs *core.BuildSession, dir string, args core.Kwargs) error {
			id, err := core.NewTargetID(dir, args.String("name", ""))
			if err != nil {
				return err
			}
			id, err = bs.Normalizer.Normalize(id)
			if err != nil {
				return err
			}
			declared = append(declared, id.String())
			bs.Discovery.Enqueue(&core.BuildTarget{ID: id, Role: core.RoleLibrary, Library: &core.LibraryAttrs{Files: args.StringList("srcs")}})
			return nil
		},
	}}

	registry := plugin.NewRegistry()
	require.NoError(t, registry.Initialize(nil, testPlug))

	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	eval := NewEvaluator(bs, registry)

	pkg, err := eval.Evaluate("/lev1")
	require.NoError(t, err)
	assert.Len(t, pkg.Targets, 1)
	assert.Equal(t, []string{"/lev1:lib"}, declared)
}

func TestEvaluatorCachesPerDirectory(t *testing.T) {
	repoRoot := t.TempDir()
	writeDescriptor(t, repoRoot, "lev1", `python_lib(name="lib", srcs=["a.py"])`)

	calls := 0
	testPlug := &testPlugin{rules: map[string]plugin.RuleFunc{
		"python_lib": func(bs *core.BuildSession, dir string, args core.Kwargs) error {
			calls++
			id, _ := core.NewTargetID(dir, args.String("name", ""))
			id, _ = bs.Normalizer.Normalize(id)
			bs.Discovery.Enqueue(&core.BuildTarget{ID: id, Role: core.RoleLibrary})
			return nil
		},
	}}

	registry := plugin.NewRegistry()
	require.NoError(t, registry.Initialize(nil, testPlug))
	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	eval := NewEvaluator(bs, registry)

	first, err := eval.Evaluate("/lev1")
	require.NoError(t, err)
	second, err := eval.Evaluate("/lev1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestEvaluatorUnknownRuleFails(t *testing.T) {
	repoRoot := t.TempDir()
	writeDescriptor(t, repoRoot, "lev1", `mystery_rule(name="x")`)

	registry := plugin.NewRegistry()
	require.NoError(t, registry.Initialize(nil))
	bs := core.NewBuildSession(repoRoot, core.DefaultConfiguration())
	eval := NewEvaluator(bs, registry)

	_, err := eval.Evaluate("/lev1")
	assert.Error(t, err)
}
