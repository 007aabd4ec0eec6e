package plugin

import (
	"github.com/hashicorp/go-multierror"
	"github.com/thought-machine/go-flags"

	"github.com/thought-machine/hackbuild/src/cli/logging"
	"github.com/thought-machine/hackbuild/src/core"
)

var log = logging.Log

// Registry holds the set of active plugins for the lifetime of one
// process invocation and merges their rule functions into a single
// name→function map on demand.
//
// This is an explicit value rather than a process-wide global; the
// Descriptor Evaluator holds the one Registry relevant to it,
// constructed once at startup and never mutated except through
// Initialize.
type Registry struct {
	plugins []Plugin
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Initialize records plugins and, for each that implements
// ArgRegistrar, calls its argument-registration hook against parser.
func (r *Registry) Initialize(parser *flags.Parser, plugins ...Plugin) error {
	r.plugins = append(r.plugins, plugins...)
	for _, p := range plugins {
		if registrar, ok := p.(ArgRegistrar); ok {
			if err := registrar.RegisterArgs(parser); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetRules calls every plugin's rule-generator for directory dir,
// unions the results, and fails with DuplicatePluginRule (aggregating
// every duplicate name found, not just the first) if two plugins
// exposed the same rule name.
func (r *Registry) GetRules(dir string, n *core.Normalizer) (map[string]RuleFunc, error) {
	merged := make(map[string]RuleFunc)
	owner := make(map[string]string) // rule name -> plugin name that first defined it
	var dupErr *multierror.Error

	for _, p := range r.plugins {
		for name, fn := range p.Rules(dir, n) {
			if prevOwner, exists := owner[name]; exists {
				dupErr = multierror.Append(dupErr, &core.DuplicatePluginRuleError{
					Name: name,
					Err:  pluginConflictError{first: prevOwner, second: p.Name()},
				})
				continue
			}
			merged[name] = fn
			owner[name] = p.Name()
		}
	}
	if dupErr.ErrorOrNil() != nil {
		return nil, dupErr
	}
	return merged, nil
}

// ShareArgs delivers the parsed argument object to every plugin
// implementing ArgReceiver.
func (r *Registry) ShareArgs(args interface{}) error {
	for _, p := range r.plugins {
		if receiver, ok := p.(ArgReceiver); ok {
			if err := receiver.ReceiveArgs(args); err != nil {
				return err
			}
		}
	}
	return nil
}

type pluginConflictError struct {
	first, second string
}

func (e pluginConflictError) Error() string {
	return "defined by both " + e.first + " and " + e.second
}
