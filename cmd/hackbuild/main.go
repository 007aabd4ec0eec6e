// Command hackbuild is the CLI front end for the core library: a thin
// go-flags parser translating subcommands into core/plugin/descriptor/
// resolve/build calls.
package main

import (
	"fmt"
	"os"

	"github.com/thought-machine/go-flags"

	"github.com/thought-machine/hackbuild/src/build"
	"github.com/thought-machine/hackbuild/src/cli"
	"github.com/thought-machine/hackbuild/src/cli/logging"
	"github.com/thought-machine/hackbuild/src/core"
	"github.com/thought-machine/hackbuild/src/descriptor"
	hackhash "github.com/thought-machine/hackbuild/src/hash"
	"github.com/thought-machine/hackbuild/src/metrics"
	"github.com/thought-machine/hackbuild/src/plugin"
	"github.com/thought-machine/hackbuild/src/resolve"

	rdebian "github.com/thought-machine/hackbuild/rules/debian"
	rmacos "github.com/thought-machine/hackbuild/rules/macos"
	rpython "github.com/thought-machine/hackbuild/rules/python"
	rupstart "github.com/thought-machine/hackbuild/rules/upstart"
)

var log = logging.Log

var opts struct {
	Usage       string        `usage:"hackbuild is a small multi-language build tool.\n\nIt reads HACK_BUILD files to describe what to build and how to build it."`
	RepoRoot    cli.Filepath  `short:"r" long:"repo_root" description:"Root of repository to build; auto-detected from the current directory if not given"`
	Verbosity   cli.Verbosity `short:"v" long:"verbosity" default:"notice" description:"Verbosity of output (error, warning, notice, info, debug)"`
	MetricsAddr string        `long:"metrics_addr" description:"If set, serves Prometheus metrics on this address (e.g. :9090) for the duration of the build"`

	Build struct {
		Args struct {
			Targets []string `positional-arg-name:"targets" required:"true" description:"Targets to build"`
		} `positional-args:"true" required:"true"`
	} `command:"build" description:"Builds one or more targets"`

	Run struct {
		Args struct {
			Target string   `positional-arg-name:"target" required:"true" description:"Target to run"`
			Args   []string `positional-arg-name:"arguments" description:"Arguments to pass to the target"`
		} `positional-args:"true" required:"true"`
	} `command:"run" description:"Builds a single target and logs the command that would run it; the target is not executed"`

	Hash struct {
		Args struct {
			Targets []string `positional-arg-name:"targets" required:"true" description:"Targets to hash"`
		} `positional-args:"true" required:"true"`
	} `command:"hash" description:"Prints a content digest of one or more targets' staged sources"`

	Clean struct {
	} `command:"clean" description:"Removes the src, build, and pkg staging directories"`
}

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)

	registry := plugin.NewRegistry()
	if err := registry.Initialize(parser, rpython.New(), rdebian.New(), rmacos.New(), rupstart.New()); err != nil {
		log.Fatal(err)
	}

	command, extraArgs, err := parser.ParseCommandLine(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		log.Fatal(err)
	}
	_ = extraArgs
	if err := registry.ShareArgs(&opts); err != nil {
		log.Fatal(err)
	}
	cli.InitLogging(opts.Verbosity)

	repoRoot := opts.RepoRoot.String()
	if repoRoot == "" {
		found, err := core.FindRepoRoot(mustGetwd())
		if err != nil {
			log.Fatal(err)
		}
		repoRoot = found
	}
	config, err := core.ReadConfigFiles(repoRoot)
	if err != nil {
		log.Fatal(err)
	}
	session := core.NewBuildSession(repoRoot, config)
	evaluator := descriptor.NewEvaluator(session, registry)
	resolver := resolve.NewResolver(evaluator)

	var collector *metrics.Collector
	if opts.MetricsAddr != "" {
		collector = metrics.NewCollector()
		metrics.Serve(opts.MetricsAddr, collector)
	}

	os.Exit(run(command, resolver, session, collector))
}

func run(command string, resolver *resolve.Resolver, session *core.BuildSession, collector *metrics.Collector) int {
	switch command {
	case "build":
		return runBuild(resolver, session, collector, opts.Build.Args.Targets)
	case "run":
		if code := runBuild(resolver, session, collector, []string{opts.Run.Args.Target}); code != 0 {
			return code
		}
		return runTarget(resolver, opts.Run.Args.Target, opts.Run.Args.Args)
	case "hash":
		return runHash(resolver, opts.Hash.Args.Targets)
	case "clean":
		return runClean(session)
	default:
		log.Error("no command given; try 'hackbuild build /some:target'")
		return 1
	}
}

func runBuild(resolver *resolve.Resolver, session *core.BuildSession, collector *metrics.Collector, targetStrs []string) int {
	trees, err := resolveTrees(resolver, targetStrs)
	if err != nil {
		log.Error("%s", err)
		return 1
	}
	scheduler := build.NewScheduler(session)
	scheduler.Metrics = collector
	if err := scheduler.Build(trees); err != nil {
		log.Error("%s", err)
		return 1
	}
	log.Notice("build succeeded: %d target(s)", len(trees))
	return 0
}

func resolveTrees(resolver *resolve.Resolver, targetStrs []string) ([]*core.DependencyTree, error) {
	trees := make([]*core.DependencyTree, 0, len(targetStrs))
	for _, s := range targetStrs {
		id, err := core.ParseTargetID(s)
		if err != nil {
			return nil, err
		}
		tree, err := resolver.TransitiveDeps(id)
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

func runTarget(resolver *resolve.Resolver, targetStr string, args []string) int {
	id, err := core.ParseTargetID(targetStr)
	if err != nil {
		log.Error("%s", err)
		return 1
	}
	target, err := resolver.Resolve(id)
	if err != nil {
		log.Error("%s", err)
		return 1
	}
	if target.Binary == nil {
		log.Error("%s is not a runnable binary target", id)
		return 1
	}
	log.Notice("would run %s %v", id, args)
	return 0
}

func runHash(resolver *resolve.Resolver, targetStrs []string) int {
	for _, s := range targetStrs {
		id, err := core.ParseTargetID(s)
		if err != nil {
			log.Error("%s", err)
			return 1
		}
		target, err := resolver.Resolve(id)
		if err != nil {
			log.Error("%s", err)
			return 1
		}
		digest, err := hackhash.Target(target)
		if err != nil {
			log.Error("%s", err)
			return 1
		}
		fmt.Printf("%s %s\n", digest, id)
	}
	return 0
}

func runClean(session *core.BuildSession) int {
	scheduler := build.NewScheduler(session)
	if err := scheduler.Clean(); err != nil {
		log.Error("%s", err)
		return 1
	}
	return 0
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	return wd
}
