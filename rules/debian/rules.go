// Package debian is the built-in plugin registering debian_pkg, the
// Debian .deb flavor of PackageBuilder.
package debian

import (
	"github.com/thought-machine/hackbuild/src/builder"
	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/plugin"
)

// Plugin implements plugin.Plugin.
type Plugin struct{}

// New constructs the debian plugin.
func New() *Plugin { return &Plugin{} }

// Name identifies this plugin.
func (p *Plugin) Name() string { return "debian" }

// Rules implements plugin.Plugin.
func (p *Plugin) Rules(dir string, n *core.Normalizer) map[string]plugin.RuleFunc {
	return map[string]plugin.RuleFunc{
		"debian_pkg": debianPkg(n),
	}
}

func debianPkg(n *core.Normalizer) plugin.RuleFunc {
	return func(bs *core.BuildSession, dir string, args core.Kwargs) error {
		id, err := core.NewTargetID(dir, args.String("name", ""))
		if err != nil {
			return err
		}
		id = n.NormalizeInDescriptor(id, dir)

		depIDs := make([]core.TargetID, 0)
		for _, d := range args.StringList("deps") {
			depID, err := core.ParseTargetID(d)
			if err != nil {
				return err
			}
			depIDs = append(depIDs, n.NormalizeInDescriptor(depID, dir))
		}

		target := &core.BuildTarget{
			ID:         id,
			Role:       core.RolePackage,
			Deps:       depIDs,
			Layout:     core.NewStagingLayout(bs.RepoRoot, id),
			NewBuilder: builder.NewPackageBuilder,
			Package: &core.PackageAttrs{
				Version: args.String("version", "0.0.0"),
				Format:  "debian",
				Debian: &core.DebianPackageAttrs{
					ExtraDepends: args.StringList("extra_depends"),
				},
			},
		}
		bs.Discovery.Enqueue(target)
		return nil
	}
}
