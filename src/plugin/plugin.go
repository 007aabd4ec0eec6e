// Package plugin is the mechanism by which a set of plugins contribute
// rule functions to the Descriptor Evaluator and, optionally, extra
// command-line arguments.
package plugin

import (
	"github.com/thought-machine/go-flags"

	"github.com/thought-machine/hackbuild/src/core"
)

// A RuleFunc is a descriptor rule function: given the invoking
// BuildSession, the repository-relative directory the descriptor lives
// in, and its keyword arguments, it constructs the appropriate
// BuildTarget and enqueues it on the session's discovery queue.
type RuleFunc func(bs *core.BuildSession, dir string, args core.Kwargs) error

// A Plugin is an opaque unit contributing rule functions and,
// optionally, CLI argument extensions.
type Plugin interface {
	// Name identifies this plugin for logging and duplicate-rule
	// error messages.
	Name() string
	// Rules returns this plugin's rule-name to RuleFunc map, evaluated
	// fresh for the descriptor directory dir and its Normalizer so
	// rule closures can normalize dependency ids relative to dir.
	Rules(dir string, n *core.Normalizer) map[string]RuleFunc
}

// ArgRegistrar is optionally implemented by a Plugin that contributes
// its own command-line flags (e.g. python's --python_install_method),
// registered against the shared go-flags parser before arguments are
// parsed.
type ArgRegistrar interface {
	RegisterArgs(parser *flags.Parser) error
}

// ArgReceiver is optionally implemented by a Plugin that wants the
// fully parsed argument object once parsing completes, via
// Registry.ShareArgs.
type ArgReceiver interface {
	ReceiveArgs(args interface{}) error
}
