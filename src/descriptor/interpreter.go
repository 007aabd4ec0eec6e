package descriptor

import (
	"os"
	"path/filepath"

	"github.com/thought-machine/hackbuild/src/cli/logging"
	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/plugin"
)

var log = logging.Log

// Evaluator loads a repository directory's HACK_BUILD file, interprets
// it against the Plugin Registry's merged rule set, and returns the
// Package of targets it declared, caching the result in the
// BuildSession so a directory is only ever evaluated once.
type Evaluator struct {
	Session  *core.BuildSession
	Registry *plugin.Registry
}

// NewEvaluator constructs an Evaluator bound to a session and registry.
func NewEvaluator(bs *core.BuildSession, registry *plugin.Registry) *Evaluator {
	return &Evaluator{Session: bs, Registry: registry}
}

// Evaluate returns the Package declared by the descriptor at repository
// directory dir, evaluating it if it hasn't been already this session.
func (e *Evaluator) Evaluate(dir string) (*core.Package, error) {
	if cached, ok := e.Session.CachedPackage(dir); ok {
		return cached, nil
	}

	rules, err := e.Registry.GetRules(dir, e.Session.Normalizer)
	if err != nil {
		return nil, err
	}

	descriptorPath := filepath.Join(e.Session.RepoRoot, dir, core.DescriptorFilename)
	src, err := os.ReadFile(descriptorPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &core.DescriptorEvaluationError{Path: descriptorPath, Err: err}
		}
		return nil, &core.FilesystemError{Op: "read descriptor", Path: descriptorPath, Err: err}
	}

	if err := e.evalSource(dir, string(src), rules); err != nil {
		return nil, &core.DescriptorEvaluationError{Path: descriptorPath, Err: err}
	}

	pkg := core.NewPackage(dir)
	for _, target := range e.Session.Discovery.Drain() {
		pkg.Add(target)
	}
	e.Session.StorePackage(pkg)
	log.Debug("evaluated descriptor %s: %d targets", descriptorPath, len(pkg.Targets))
	return pkg, nil
}

func (e *Evaluator) evalSource(dir, src string, rules map[string]plugin.RuleFunc) error {
	calls, err := Parse(src)
	if err != nil {
		return err
	}
	for _, call := range calls {
		fn, ok := rules[call.Name]
		if !ok {
			return &ParseError{Pos: call.Pos, Msg: "no rule named " + call.Name + " is registered"}
		}
		if err := fn(e.Session, dir, call.Args); err != nil {
			return err
		}
	}
	return nil
}
