// Package python is the built-in plugin registering the four
// Python-flavored rules a HACK_BUILD descriptor can declare:
// python_lib, python_third_party_lib, python_bin, and python_test. It
// also contributes the --python_install_method flag used by
// python_bin/python_test builds.
package python

import (
	"github.com/thought-machine/go-flags"

	"github.com/thought-machine/hackbuild/src/builder"
	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/plugin"
)

// Plugin implements plugin.Plugin, plugin.ArgRegistrar and
// plugin.ArgReceiver.
type Plugin struct {
	// installMethod is threaded from the --python_install_method flag
	// into every python_bin/python_test target's default, the way the
	// original plugin shares argparse's parsed namespace with its
	// builders rather than re-reading the flag per target.
	installMethod string
	// opts is the flag group RegisterArgs added to the parser; go-flags
	// fills it in while parsing the command line.
	opts *pythonOptions
}

// New constructs the python plugin with its install-method default.
func New() *Plugin {
	return &Plugin{installMethod: "install"}
}

// Name identifies this plugin.
func (p *Plugin) Name() string { return "python" }

// pythonOptions is the flag group RegisterArgs contributes.
type pythonOptions struct {
	PythonInstallMethod string `long:"python_install_method" default:"install" choice:"install" choice:"develop" description:"Install method used for python_bin/python_test targets"`
}

// RegisterArgs implements plugin.ArgRegistrar.
func (p *Plugin) RegisterArgs(parser *flags.Parser) error {
	p.opts = &pythonOptions{}
	_, err := parser.AddGroup("Python Options", "Options controlling Python rule behaviour", p.opts)
	return err
}

// ReceiveArgs implements plugin.ArgReceiver. The install method is read
// from args when it is this plugin's own option group, otherwise from
// the group RegisterArgs added to the parser.
func (p *Plugin) ReceiveArgs(args interface{}) error {
	opts, ok := args.(*pythonOptions)
	if !ok {
		opts = p.opts
	}
	if opts != nil && opts.PythonInstallMethod != "" {
		p.installMethod = opts.PythonInstallMethod
	}
	return nil
}

// Rules implements plugin.Plugin.
func (p *Plugin) Rules(dir string, n *core.Normalizer) map[string]plugin.RuleFunc {
	return map[string]plugin.RuleFunc{
		"python_lib":             p.pythonLib(dir, n),
		"python_third_party_lib": p.pythonThirdPartyLib(dir, n),
		"python_bin":             p.pythonBin(dir, n, ""),
		"python_test":            p.pythonBin(dir, n, "pytest:main"),
	}
}

func normalizeDeps(n *core.Normalizer, dir string, deps []string) ([]core.TargetID, error) {
	ids := make([]core.TargetID, 0, len(deps))
	for _, d := range deps {
		id, err := core.ParseTargetID(d)
		if err != nil {
			return nil, err
		}
		ids = append(ids, n.NormalizeInDescriptor(id, dir))
	}
	return ids, nil
}

func (p *Plugin) pythonLib(dir string, n *core.Normalizer) plugin.RuleFunc {
	return func(bs *core.BuildSession, dir string, args core.Kwargs) error {
		id, err := core.NewTargetID(dir, args.String("name", ""))
		if err != nil {
			return err
		}
		id = n.NormalizeInDescriptor(id, dir)
		deps, err := normalizeDeps(n, dir, args.StringList("deps"))
		if err != nil {
			return err
		}
		entryPoints := map[string]string{}
		for _, ep := range args.StringList("entry_points") {
			if name, target, ok := splitKV(ep); ok {
				entryPoints[name] = target
			}
		}
		target := &core.BuildTarget{
			ID:         id,
			Role:       core.RoleLibrary,
			Deps:       deps,
			Layout:     core.NewStagingLayout(bs.RepoRoot, id),
			NewBuilder: builder.NewLibraryBuilder,
			Library: &core.LibraryAttrs{
				Files:       args.StringList("srcs"),
				Data:        args.StringList("data"),
				Packages:    args.StringList("packages"),
				EntryPoints: entryPoints,
			},
		}
		bs.Discovery.Enqueue(target)
		return nil
	}
}

func (p *Plugin) pythonThirdPartyLib(dir string, n *core.Normalizer) plugin.RuleFunc {
	return func(bs *core.BuildSession, dir string, args core.Kwargs) error {
		id, err := core.NewTargetID(dir, args.String("name", ""))
		if err != nil {
			return err
		}
		id = n.NormalizeInDescriptor(id, dir)
		target := &core.BuildTarget{
			ID:         id,
			Role:       core.RoleThirdPartyLibrary,
			Layout:     core.NewStagingLayout(bs.RepoRoot, id),
			NewBuilder: builder.NewThirdPartyLibraryBuilder,
			ThirdPartyLibrary: &core.ThirdPartyLibraryAttrs{
				VendorDir: args.String("vendor_dir", dir),
			},
		}
		bs.Discovery.Enqueue(target)
		return nil
	}
}

// pythonBin builds both python_bin and python_test, which share every
// attribute except their default entry point when the descriptor
// doesn't declare one explicitly (a test target defaults to invoking
// pytest against its own sources).
func (p *Plugin) pythonBin(dir string, n *core.Normalizer, defaultEntryPoint string) plugin.RuleFunc {
	return func(bs *core.BuildSession, dir string, args core.Kwargs) error {
		id, err := core.NewTargetID(dir, args.String("name", ""))
		if err != nil {
			return err
		}
		id = n.NormalizeInDescriptor(id, dir)
		deps, err := normalizeDeps(n, dir, args.StringList("deps"))
		if err != nil {
			return err
		}
		entryPoint := args.String("entry_point", defaultEntryPoint)
		installMethod := args.String("install_method", p.installMethod)
		target := &core.BuildTarget{
			ID:         id,
			Role:       core.RoleBinary,
			Deps:       deps,
			Layout:     core.NewStagingLayout(bs.RepoRoot, id),
			NewBuilder: builder.NewBinaryBuilder,
			Binary: &core.BinaryAttrs{
				EntryPoint:    entryPoint,
				InstallMethod: installMethod,
			},
		}
		bs.Discovery.Enqueue(target)
		return nil
	}
}

// splitKV splits a "name=module:function" entry_points list element.
func splitKV(s string) (name, target string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
