// Package upstart is the built-in plugin registering upstart_script, an
// upstart-style service-manager script generator. Unlike the python,
// debian and macos plugins, this one has no upstream equivalent to
// mirror; it's a new addition rounding out the package-format set.
package upstart

import (
	"github.com/thought-machine/hackbuild/src/builder"
	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/plugin"
)

// Plugin implements plugin.Plugin.
type Plugin struct{}

// New constructs the upstart plugin.
func New() *Plugin { return &Plugin{} }

// Name identifies this plugin.
func (p *Plugin) Name() string { return "upstart" }

// Rules implements plugin.Plugin.
func (p *Plugin) Rules(dir string, n *core.Normalizer) map[string]plugin.RuleFunc {
	return map[string]plugin.RuleFunc{
		"upstart_script": upstartScript(n),
	}
}

func upstartScript(n *core.Normalizer) plugin.RuleFunc {
	return func(bs *core.BuildSession, dir string, args core.Kwargs) error {
		id, err := core.NewTargetID(dir, args.String("name", ""))
		if err != nil {
			return err
		}
		id = n.NormalizeInDescriptor(id, dir)

		binID, err := core.ParseTargetID(args.String("binary", ""))
		if err != nil {
			return err
		}
		binID = n.NormalizeInDescriptor(binID, dir)

		target := &core.BuildTarget{
			ID:         id,
			Role:       core.RoleStartScript,
			Deps:       []core.TargetID{binID},
			Layout:     core.NewStagingLayout(bs.RepoRoot, id),
			NewBuilder: builder.NewStartScriptBuilder,
			StartScript: &core.StartScriptAttrs{
				ServiceName: args.String("service_name", args.String("name", "")),
				Binary:      binID,
				Args:        args.StringList("args"),
				ScriptDir:   args.String("script_dir", ""),
			},
		}
		bs.Discovery.Enqueue(target)
		return nil
	}
}
